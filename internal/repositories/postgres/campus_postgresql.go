package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/campus-admin-service/internal/cache"
	"github.com/SAP-F-2025/campus-admin-service/internal/models"
	"github.com/SAP-F-2025/campus-admin-service/internal/repositories"
)

type campusRepository struct {
	db    *gorm.DB
	cache *cache.CacheManager
}

func NewCampusRepository(db *gorm.DB, cacheManager *cache.CacheManager) repositories.CampusRepository {
	return &campusRepository{db: db, cache: cacheManager}
}

func (r *campusRepository) Create(ctx context.Context, campus *models.Campus) error {
	if err := r.db.WithContext(ctx).Create(campus).Error; err != nil {
		return handleDBError(err, "create campus")
	}
	cache.SafeInvalidatePattern(ctx, r.cache.Campus, "list*")
	return nil
}

func (r *campusRepository) GetByID(ctx context.Context, id uint) (*models.Campus, error) {
	cacheKey := fmt.Sprintf("id:%d", id)
	var cached models.Campus
	if err := r.cache.Campus.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	var campus models.Campus
	if err := r.db.WithContext(ctx).First(&campus, id).Error; err != nil {
		return nil, handleDBError(err, "get campus by id")
	}

	_ = r.cache.Campus.Set(ctx, cacheKey, &campus, cache.CampusCacheConfig.TTL)
	return &campus, nil
}

func (r *campusRepository) GetByCode(ctx context.Context, code string) (*models.Campus, error) {
	var campus models.Campus
	if err := r.db.WithContext(ctx).
		First(&campus, "code = ?", code).Error; err != nil {
		return nil, handleDBError(err, "get campus by code")
	}
	return &campus, nil
}

func (r *campusRepository) List(ctx context.Context) ([]*models.Campus, error) {
	var campuses []*models.Campus
	if err := r.cache.Campus.Get(ctx, "list", &campuses); err == nil {
		return campuses, nil
	}

	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&campuses).Error; err != nil {
		return nil, handleDBError(err, "list campuses")
	}

	_ = r.cache.Campus.Set(ctx, "list", campuses, cache.CampusCacheConfig.TTL)
	return campuses, nil
}

func (r *campusRepository) Update(ctx context.Context, campus *models.Campus) error {
	if err := r.db.WithContext(ctx).Save(campus).Error; err != nil {
		return handleDBError(err, "update campus")
	}
	cache.SafeDelete(ctx, r.cache.Campus, fmt.Sprintf("id:%d", campus.ID), "list")
	return nil
}

func (r *campusRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Campus{}, id).Error; err != nil {
		return handleDBError(err, "delete campus")
	}
	cache.SafeDelete(ctx, r.cache.Campus, fmt.Sprintf("id:%d", id), "list")
	return nil
}

func (r *campusRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Campus{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, handleDBError(err, "check campus existence")
	}
	return count > 0, nil
}
