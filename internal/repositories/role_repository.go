package repositories

import (
	"context"

	"github.com/SAP-F-2025/campus-admin-service/internal/authz"
	"github.com/SAP-F-2025/campus-admin-service/internal/models"
)

// RoleRepository reads the seeded role reference table. Roles are immutable
// at runtime; the only write is the migration-time seed.
type RoleRepository interface {
	GetByName(ctx context.Context, name models.RoleName) (*models.Role, error)
	List(ctx context.Context) ([]*models.Role, error)

	// Seed inserts missing reference rows; existing rows are left untouched.
	Seed(ctx context.Context) error
}

// UserRoleRepository manages (role, campus) grant pairs. It is the single
// authority the evaluator reads through; ListGrants materializes the legacy
// single-role fallback so pre-RBAC accounts keep working.
type UserRoleRepository interface {
	authz.GrantSource

	// Grant attaches a (role, campus) pair. Granting an already-held pair
	// is a no-op thanks to the unique constraint; a single atomic insert,
	// no application-level locking.
	Grant(ctx context.Context, userID string, role models.RoleName, scope authz.Scope, grantedBy string) error

	// Revoke removes one pair; removing a pair the user does not hold is
	// not an error.
	Revoke(ctx context.Context, userID string, role models.RoleName, scope authz.Scope) error

	// ListByUser returns the explicit junction rows (no legacy fallback),
	// for administrative display.
	ListByUser(ctx context.Context, userID string) ([]*models.UserRole, error)

	// HasGrant checks one exact pair.
	HasGrant(ctx context.Context, userID string, role models.RoleName, scope authz.Scope) (bool, error)
}

// CampusRepository manages campus reference data.
type CampusRepository interface {
	Create(ctx context.Context, campus *models.Campus) error
	GetByID(ctx context.Context, id uint) (*models.Campus, error)
	GetByCode(ctx context.Context, code string) (*models.Campus, error)
	List(ctx context.Context) ([]*models.Campus, error)
	Update(ctx context.Context, campus *models.Campus) error
	Delete(ctx context.Context, id uint) error
	ExistsByID(ctx context.Context, id uint) (bool, error)
}
