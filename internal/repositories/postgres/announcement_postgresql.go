package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/campus-admin-service/internal/models"
	"github.com/SAP-F-2025/campus-admin-service/internal/repositories"
)

type announcementRepository struct {
	db *gorm.DB
}

func NewAnnouncementRepository(db *gorm.DB) repositories.AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) Create(ctx context.Context, tx *gorm.DB, a *models.Announcement) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(a).Error; err != nil {
		return handleDBError(err, "create announcement")
	}
	return nil
}

func (r *announcementRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Announcement, error) {
	db := getDB(r.db, tx)
	var a models.Announcement
	if err := db.WithContext(ctx).
		Preload("Campus").
		First(&a, id).Error; err != nil {
		return nil, handleDBError(err, "get announcement")
	}
	return &a, nil
}

func (r *announcementRepository) Update(ctx context.Context, tx *gorm.DB, a *models.Announcement) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Save(a).Error; err != nil {
		return handleDBError(err, "update announcement")
	}
	return nil
}

func (r *announcementRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Delete(&models.Announcement{}, id).Error; err != nil {
		return handleDBError(err, "delete announcement")
	}
	return nil
}

func (r *announcementRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.AnnouncementFilters) ([]*models.Announcement, int64, error) {
	db := getDB(r.db, tx)
	var announcements []*models.Announcement
	var total int64

	query := db.WithContext(ctx).Model(&models.Announcement{})

	if filters.Audience != nil {
		query = query.Where("audience IN ?", []models.AnnouncementAudience{*filters.Audience, models.AudienceAll})
	}
	if len(filters.CampusIDs) > 0 {
		// Campus-bound rows for visible campuses, plus cross-campus rows
		query = query.Where("campus_id IN ? OR campus_id IS NULL", filters.CampusIDs)
	}
	if filters.PublishedOnly {
		now := time.Now()
		query = query.
			Where("published_at IS NOT NULL AND published_at <= ?", now).
			Where("expires_at IS NULL OR expires_at > ?", now)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count announcements")
	}

	limit := normalizeLimit(filters.Limit)
	if err := query.
		Order("pinned DESC, published_at DESC").
		Limit(limit).
		Offset(filters.Offset).
		Find(&announcements).Error; err != nil {
		return nil, 0, handleDBError(err, "list announcements")
	}

	return announcements, total, nil
}
