package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/campus-admin-service/internal/cache"
	"github.com/SAP-F-2025/campus-admin-service/internal/repositories"
)

// PostgreSQLRepository implements the main Repository interface
type PostgreSQLRepository struct {
	db           *gorm.DB
	redisClient  *redis.Client
	cacheManager *cache.CacheManager

	// Repository instances
	user            repositories.UserRepository
	role            repositories.RoleRepository
	userRole        repositories.UserRoleRepository
	campus          repositories.CampusRepository
	course          repositories.CourseRepository
	enrollment      repositories.EnrollmentRepository
	invoice         repositories.InvoiceRepository
	documentRequest repositories.DocumentRequestRepository
	announcement    repositories.AnnouncementRepository
	chat            repositories.ChatRepository
}

// RepositoryConfig holds configuration for repository initialization
type RepositoryConfig struct {
	DB          *gorm.DB
	RedisClient *redis.Client
}

// NewPostgreSQLRepository creates a new repository manager with all sub-repositories
func NewPostgreSQLRepository(config RepositoryConfig) repositories.Repository {
	cacheManager := cache.NewCacheManager(config.RedisClient)

	repo := &PostgreSQLRepository{
		db:           config.DB,
		redisClient:  config.RedisClient,
		cacheManager: cacheManager,
	}

	repo.user = NewUserRepository(config.DB, cacheManager)
	repo.role = NewRoleRepository(config.DB)
	repo.userRole = NewUserRoleRepository(config.DB, cacheManager)
	repo.campus = NewCampusRepository(config.DB, cacheManager)
	repo.course = NewCourseRepository(config.DB, cacheManager)
	repo.enrollment = NewEnrollmentRepository(config.DB)
	repo.invoice = NewInvoiceRepository(config.DB)
	repo.documentRequest = NewDocumentRequestRepository(config.DB)
	repo.announcement = NewAnnouncementRepository(config.DB)
	repo.chat = NewChatRepository(config.DB)

	return repo
}

func (r *PostgreSQLRepository) User() repositories.UserRepository         { return r.user }
func (r *PostgreSQLRepository) Role() repositories.RoleRepository         { return r.role }
func (r *PostgreSQLRepository) UserRole() repositories.UserRoleRepository { return r.userRole }
func (r *PostgreSQLRepository) Campus() repositories.CampusRepository     { return r.campus }
func (r *PostgreSQLRepository) Course() repositories.CourseRepository     { return r.course }
func (r *PostgreSQLRepository) Enrollment() repositories.EnrollmentRepository {
	return r.enrollment
}
func (r *PostgreSQLRepository) Invoice() repositories.InvoiceRepository { return r.invoice }
func (r *PostgreSQLRepository) DocumentRequest() repositories.DocumentRequestRepository {
	return r.documentRequest
}
func (r *PostgreSQLRepository) Announcement() repositories.AnnouncementRepository {
	return r.announcement
}
func (r *PostgreSQLRepository) Chat() repositories.ChatRepository { return r.chat }

// WithTransaction runs fn inside one database transaction; the Repository
// passed to fn routes every operation through the transaction handle.
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := NewPostgreSQLRepository(RepositoryConfig{
			DB:          tx,
			RedisClient: r.redisClient,
		})
		return fn(txRepo)
	})
}

func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.Close()
}

// ===== MANAGER =====

// Manager wires repository lifecycle for main.
type Manager struct {
	config RepositoryConfig
	repo   repositories.Repository
}

func NewRepositoryManager(config RepositoryConfig) *Manager {
	return &Manager{config: config}
}

func (m *Manager) Initialize() error {
	if m.config.DB == nil {
		return fmt.Errorf("database connection is required")
	}
	m.repo = NewPostgreSQLRepository(m.config)
	return nil
}

func (m *Manager) GetRepository() repositories.Repository {
	return m.repo
}

func (m *Manager) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return m.repo.Ping(ctx)
}

func (m *Manager) Shutdown(_ context.Context) error {
	if m.repo == nil {
		return nil
	}
	return m.repo.Close()
}
