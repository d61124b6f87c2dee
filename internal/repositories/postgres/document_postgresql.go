package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/campus-admin-service/internal/models"
	"github.com/SAP-F-2025/campus-admin-service/internal/repositories"
)

type documentRequestRepository struct {
	db *gorm.DB
}

func NewDocumentRequestRepository(db *gorm.DB) repositories.DocumentRequestRepository {
	return &documentRequestRepository{db: db}
}

func (r *documentRequestRepository) Create(ctx context.Context, tx *gorm.DB, req *models.DocumentRequest) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(req).Error; err != nil {
		return handleDBError(err, "create document request")
	}
	return nil
}

func (r *documentRequestRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.DocumentRequest, error) {
	db := getDB(r.db, tx)
	var req models.DocumentRequest
	if err := db.WithContext(ctx).
		Preload("Student").
		Preload("Campus").
		First(&req, id).Error; err != nil {
		return nil, handleDBError(err, "get document request")
	}
	return &req, nil
}

func (r *documentRequestRepository) Update(ctx context.Context, tx *gorm.DB, req *models.DocumentRequest) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Save(req).Error; err != nil {
		return handleDBError(err, "update document request")
	}
	return nil
}

func (r *documentRequestRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.DocumentRequestFilters) ([]*models.DocumentRequest, int64, error) {
	db := getDB(r.db, tx)
	var requests []*models.DocumentRequest
	var total int64

	query := db.WithContext(ctx).Model(&models.DocumentRequest{}).Preload("Student")

	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Type != nil {
		query = query.Where("type = ?", *filters.Type)
	}
	query = applyCampusScope(query, "campus_id", filters.CampusIDs)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count document requests")
	}

	limit := normalizeLimit(filters.Limit)
	if err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(filters.Offset).
		Find(&requests).Error; err != nil {
		return nil, 0, handleDBError(err, "list document requests")
	}

	return requests, total, nil
}
