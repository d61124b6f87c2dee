package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/campus-admin-service/internal/cache"
	"github.com/SAP-F-2025/campus-admin-service/internal/models"
	"github.com/SAP-F-2025/campus-admin-service/internal/repositories"
)

type userRepository struct {
	db    *gorm.DB
	cache *cache.CacheManager
}

func NewUserRepository(db *gorm.DB, cacheManager *cache.CacheManager) repositories.UserRepository {
	return &userRepository{db: db, cache: cacheManager}
}

// ===== BASIC CRUD OPERATIONS =====

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return handleDBError(err, "create user")
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	// Try cache first
	cacheKey := fmt.Sprintf("id:%s", id)
	var cached models.User
	if err := r.cache.User.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	var user models.User
	if err := r.db.WithContext(ctx).
		Preload("HomeCampus").
		First(&user, "id = ?", id).Error; err != nil {
		return nil, handleDBError(err, "get user by id")
	}

	_ = r.cache.User.Set(ctx, cacheKey, &user, cache.UserCacheConfig.TTL)
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	cacheKey := fmt.Sprintf("email:%s", email)
	var cached models.User
	if err := r.cache.User.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	var user models.User
	if err := r.db.WithContext(ctx).
		Preload("HomeCampus").
		First(&user, "email = ?", email).Error; err != nil {
		return nil, handleDBError(err, "get user by email")
	}

	_ = r.cache.User.Set(ctx, cacheKey, &user, cache.UserCacheConfig.TTL)
	return &user, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	if len(ids) == 0 {
		return []*models.User{}, nil
	}

	var users []*models.User
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&users).Error; err != nil {
		return nil, handleDBError(err, "get users by ids")
	}
	return users, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return handleDBError(err, "update user")
	}
	cache.InvalidateUserCache(ctx, r.cache, user.ID, user.Email)
	return nil
}

// UpdateStatus performs the soft status transition; accounts are never
// hard-deleted.
func (r *userRepository) UpdateStatus(ctx context.Context, id string, status models.UserStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return handleDBError(res.Error, "update user status")
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update user status: %w", repositories.ErrNotFound)
	}
	cache.SafeDelete(ctx, r.cache.User, fmt.Sprintf("id:%s", id))
	return nil
}

// ===== LIST AND SEARCH OPERATIONS =====

func (r *userRepository) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	var users []*models.User
	var total int64

	query := r.db.WithContext(ctx).Model(&models.User{})

	if filters.Query != "" {
		pattern := "%" + filters.Query + "%"
		query = query.Where("full_name ILIKE ? OR email ILIKE ?", pattern, pattern)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.CampusID != nil {
		query = query.Where("home_campus_id = ?", *filters.CampusID)
	}
	if len(filters.CampusIDs) > 0 {
		query = query.Where("home_campus_id IN ?", filters.CampusIDs)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count users")
	}

	limit := normalizeLimit(filters.Limit)
	if err := query.
		Order("full_name ASC").
		Limit(limit).
		Offset(filters.Offset).
		Find(&users).Error; err != nil {
		return nil, 0, handleDBError(err, "list users")
	}

	return users, total, nil
}

func (r *userRepository) Search(ctx context.Context, query string, filters repositories.UserFilters) ([]*models.User, int64, error) {
	filters.Query = query
	return r.List(ctx, filters)
}

// ===== VALIDATION AND CHECKS =====

func (r *userRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, handleDBError(err, "check user existence")
	}
	return count > 0, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		Count(&count).Error
	if err != nil {
		return false, handleDBError(err, "check user existence by email")
	}
	return count > 0, nil
}
