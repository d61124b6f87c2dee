package authz

import (
	"errors"
	"fmt"

	"github.com/SAP-F-2025/campus-admin-service/internal/models"
)

// ErrAuthenticationRequired means no verified subject was present. Maps to
// HTTP 401.
var ErrAuthenticationRequired = errors.New("authentication required")

// DeniedError means the subject's grants do not satisfy the check. Maps to
// HTTP 403. The fields exist for audit logging; the HTTP layer must only
// surface the generic message, never role names or campus ids.
type DeniedError struct {
	SubjectID    string
	Required     []models.RoleName
	TargetCampus *uint
}

func (e *DeniedError) Error() string {
	return "insufficient permissions"
}

// InvalidScopeError means a handler declared a campus-scoped check against
// a required-role set that is entirely global-only. This is a programming
// error in the route declaration, not a permissions problem: it maps to
// HTTP 500 and is logged, never shown to the caller as a denial.
type InvalidScopeError struct {
	Required     []models.RoleName
	TargetCampus uint
}

func (e *InvalidScopeError) Error() string {
	return fmt.Sprintf("campus-scoped check declared for global-only roles %v", e.Required)
}

// GrantLoadError wraps a store failure during grant loading. It is an
// infrastructure error (503-class), deliberately distinct from a denial so
// operators can tell "no access" from "couldn't check access".
type GrantLoadError struct {
	SubjectID string
	Err       error
}

func (e *GrantLoadError) Error() string {
	return fmt.Sprintf("failed to load grants for subject: %v", e.Err)
}

func (e *GrantLoadError) Unwrap() error {
	return e.Err
}

// IsDenied reports whether err is an authorization denial (as opposed to an
// authentication or infrastructure failure).
func IsDenied(err error) bool {
	var de *DeniedError
	return errors.As(err, &de)
}
