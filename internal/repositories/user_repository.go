package repositories

import (
	"context"

	"github.com/SAP-F-2025/campus-admin-service/internal/models"
)

// UserFilters defines filters for user queries
type UserFilters struct {
	Query    string // Search query for name or email
	Status   *models.UserStatus
	CampusID *uint // Home campus filter
	// CampusIDs restricts results to a set of home campuses; services fill
	// it from the authorization decision so pagination counts stay exact.
	CampusIDs []uint
	Limit     int // Page size
	Offset    int // Offset for pagination
}

// UserRepository covers user bookkeeping. User identities originate in the
// identity provider; the local rows carry campus scoping, status and the
// legacy role field the provider knows nothing about.
type UserRepository interface {
	// Basic CRUD
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error

	// Status transitions (users are never hard-deleted)
	UpdateStatus(ctx context.Context, id string, status models.UserStatus) error

	// List and search operations
	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)
	Search(ctx context.Context, query string, filters UserFilters) ([]*models.User, int64, error)

	// Validation and checks
	ExistsByID(ctx context.Context, id string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
