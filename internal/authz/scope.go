// Package authz decides whether an authenticated subject may perform an
// operation, and computes the campus filter the operation's data queries
// must additionally apply. It evaluates the (role, campus) grant pairs
// attached to a subject; nothing outside those pairs influences a decision.
package authz

import "fmt"

// Scope is where a grant applies: everywhere, or on exactly one campus.
// It is deliberately a tagged value instead of a nullable campus id so a
// forgotten case fails to compile rather than silently widening access.
type Scope struct {
	campusID uint
	global   bool
}

// GlobalScope returns the cross-campus scope.
func GlobalScope() Scope {
	return Scope{global: true}
}

// CampusScope returns a scope bound to a single campus.
func CampusScope(campusID uint) Scope {
	return Scope{campusID: campusID}
}

// IsGlobal reports whether the scope applies on every campus.
func (s Scope) IsGlobal() bool {
	return s.global
}

// CampusID returns the bound campus id; ok is false for the global scope.
func (s Scope) CampusID() (id uint, ok bool) {
	if s.global {
		return 0, false
	}
	return s.campusID, true
}

// Covers reports whether a grant with this scope satisfies a check against
// target. A global grant covers any target. A nil target means the
// operation is not bound to one campus; a campus grant covers it too, and
// the resulting decision narrows visibility to that campus.
func (s Scope) Covers(target *uint) bool {
	if s.global || target == nil {
		return true
	}
	return s.campusID == *target
}

func (s Scope) String() string {
	if s.global {
		return "global"
	}
	return fmt.Sprintf("campus:%d", s.campusID)
}
