package authz

import (
	"context"

	"github.com/SAP-F-2025/campus-admin-service/internal/models"
)

// Grant is one (role, scope) pair held by a subject.
type Grant struct {
	Role  models.RoleName
	Scope Scope
}

// GrantSource yields the full grant set for a subject. Implementations sit
// on the user/role store and must already include the legacy single-role
// fallback, so the evaluator sees pre-RBAC accounts the same way as
// migrated ones.
type GrantSource interface {
	ListGrants(ctx context.Context, subjectID string) ([]Grant, error)
}

// Subject is the verified identity a decision is made for. Produced by the
// authentication middleware; the evaluator never parses credentials itself.
type Subject struct {
	ID    string
	Email string
}

// Decision is the outcome of an authorization check: the gate plus the
// campus narrowing list queries must additionally apply.
type Decision struct {
	Allowed bool
	// AllCampuses is set when a qualifying global grant exists; CampusIDs
	// is then irrelevant and handlers skip campus filtering entirely.
	AllCampuses bool
	CampusIDs   []uint
}

// Deny is the zero decision.
func Deny() Decision {
	return Decision{}
}

// AllowEverywhere is the decision for a qualifying global grant.
func AllowEverywhere() Decision {
	return Decision{Allowed: true, AllCampuses: true}
}

// AllowCampuses allows with query narrowing to the given campuses.
func AllowCampuses(ids ...uint) Decision {
	return Decision{Allowed: true, CampusIDs: ids}
}

// PermitsCampus reports whether data bound to campusID is visible under
// this decision.
func (d Decision) PermitsCampus(campusID uint) bool {
	if !d.Allowed {
		return false
	}
	if d.AllCampuses {
		return true
	}
	for _, id := range d.CampusIDs {
		if id == campusID {
			return true
		}
	}
	return false
}
