package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is the canonical missing-record error for all repositories.
var ErrNotFound = errors.New("record not found")

// IsNotFoundError reports whether err means the requested record is absent.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

// Repository aggregates all repository interfaces behind one access point.
type Repository interface {
	// Identity and authorization domain
	User() UserRepository
	Role() RoleRepository
	UserRole() UserRoleRepository
	Campus() CampusRepository

	// Academic domain
	Course() CourseRepository
	Enrollment() EnrollmentRepository

	// Finance domain
	Invoice() InvoiceRepository

	// Student services domain
	DocumentRequest() DocumentRequestRepository
	Announcement() AnnouncementRepository
	Chat() ChatRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager owns repository lifecycle.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
