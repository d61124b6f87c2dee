package authz

import (
	"context"
	"log/slog"

	"github.com/SAP-F-2025/campus-admin-service/internal/models"
)

// GlobalOnlyRoles are roles whose checks are satisfied only by a global
// grant. A campus-scoped super_admin row (which should not exist, but the
// store cannot rule it out) never passes a super_admin check. This is the
// explicit rule the precedence section calls for, not an inference.
var GlobalOnlyRoles = map[models.RoleName]bool{
	models.RoleSuperAdmin: true,
}

// Evaluator makes Allow/Deny decisions from a subject's grant set. It is
// read-only and deterministic: the same grants and inputs always produce
// the same decision, so callers never retry it.
type Evaluator struct {
	source GrantSource
	logger *slog.Logger
}

func NewEvaluator(source GrantSource, logger *slog.Logger) *Evaluator {
	return &Evaluator{source: source, logger: logger}
}

// Authorize loads the subject's grants and evaluates the check. required is
// the set of acceptable role names (logical OR); an empty set means the
// operation only needs an authenticated subject with at least one active
// role. target, when non-nil, is the campus the operation reads or writes.
//
// Errors: ErrAuthenticationRequired for a missing subject, *DeniedError on
// Deny, *InvalidScopeError for a misdeclared check, *GrantLoadError when
// the store read fails (never coerced into Deny).
func (e *Evaluator) Authorize(ctx context.Context, subject *Subject, required []models.RoleName, target *uint) (Decision, error) {
	if subject == nil || subject.ID == "" {
		return Deny(), ErrAuthenticationRequired
	}

	grants, err := e.source.ListGrants(ctx, subject.ID)
	if err != nil {
		return Deny(), &GrantLoadError{SubjectID: subject.ID, Err: err}
	}

	return e.Evaluate(subject.ID, grants, required, target)
}

// Evaluate runs the decision procedure on an already-loaded grant set.
// Middleware that resolves the grants once per request calls this directly
// so a request with several checks pays for one store read.
func (e *Evaluator) Evaluate(subjectID string, grants []Grant, required []models.RoleName, target *uint) (Decision, error) {
	if err := validateScopeRequest(required, target); err != nil {
		return Deny(), err
	}

	// Auth-only check: any grant at all is enough.
	if len(required) == 0 {
		if len(grants) == 0 {
			return Deny(), e.denied(subjectID, required, target)
		}
		return effectiveDecision(grants), nil
	}

	qualifying := make([]Grant, 0, len(grants))
	for _, g := range grants {
		if !roleInSet(g.Role, required) {
			continue
		}
		if GlobalOnlyRoles[g.Role] {
			// Strict rule: global-only roles demand a global grant.
			if g.Scope.IsGlobal() {
				qualifying = append(qualifying, g)
			}
			continue
		}
		if g.Scope.Covers(target) {
			qualifying = append(qualifying, g)
		}
	}

	if len(qualifying) == 0 {
		return Deny(), e.denied(subjectID, required, target)
	}
	return effectiveDecision(qualifying), nil
}

// denied builds the typed denial and emits the audit log line. Claim
// payloads are never logged, only the check inputs.
func (e *Evaluator) denied(subjectID string, required []models.RoleName, target *uint) error {
	if e.logger != nil {
		attrs := []any{
			"subject_id", subjectID,
			"required_roles", roleNames(required),
		}
		if target != nil {
			attrs = append(attrs, "target_campus", *target)
		}
		e.logger.Warn("authorization denied", attrs...)
	}
	return &DeniedError{SubjectID: subjectID, Required: required, TargetCampus: target}
}

// validateScopeRequest rejects a campus-scoped check whose required set is
// entirely global-only: such a declaration can never legitimately match a
// campus and is a bug in the route table.
func validateScopeRequest(required []models.RoleName, target *uint) error {
	if target == nil || len(required) == 0 {
		return nil
	}
	for _, r := range required {
		if !GlobalOnlyRoles[r] {
			return nil
		}
	}
	return &InvalidScopeError{Required: required, TargetCampus: *target}
}

// effectiveDecision folds qualifying grants into the campus filter: any
// global grant widens visibility to every campus, otherwise the filter is
// the union of the grants' campuses.
func effectiveDecision(qualifying []Grant) Decision {
	ids := make([]uint, 0, len(qualifying))
	seen := make(map[uint]bool, len(qualifying))
	for _, g := range qualifying {
		if g.Scope.IsGlobal() {
			return AllowEverywhere()
		}
		if id, ok := g.Scope.CampusID(); ok && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return AllowCampuses(ids...)
}

func roleInSet(role models.RoleName, set []models.RoleName) bool {
	for _, r := range set {
		if r == role {
			return true
		}
	}
	return false
}

func roleNames(roles []models.RoleName) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}
