package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/campus-admin-service/internal/models"
	"github.com/SAP-F-2025/campus-admin-service/internal/repositories"
)

type invoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) repositories.InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, tx *gorm.DB, invoice *models.Invoice) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(invoice).Error; err != nil {
		return handleDBError(err, "create invoice")
	}
	return nil
}

func (r *invoiceRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Invoice, error) {
	db := getDB(r.db, tx)
	var invoice models.Invoice
	if err := db.WithContext(ctx).
		Preload("Student").
		Preload("Campus").
		Preload("Items").
		First(&invoice, id).Error; err != nil {
		return nil, handleDBError(err, "get invoice by id")
	}
	return &invoice, nil
}

func (r *invoiceRepository) GetByNumber(ctx context.Context, tx *gorm.DB, number string) (*models.Invoice, error) {
	db := getDB(r.db, tx)
	var invoice models.Invoice
	if err := db.WithContext(ctx).
		Preload("Items").
		First(&invoice, "number = ?", number).Error; err != nil {
		return nil, handleDBError(err, "get invoice by number")
	}
	return &invoice, nil
}

func (r *invoiceRepository) Update(ctx context.Context, tx *gorm.DB, invoice *models.Invoice) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Save(invoice).Error; err != nil {
		return handleDBError(err, "update invoice")
	}
	return nil
}

func (r *invoiceRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.InvoiceFilters) ([]*models.Invoice, int64, error) {
	db := getDB(r.db, tx)
	var invoices []*models.Invoice
	var total int64

	query := db.WithContext(ctx).Model(&models.Invoice{}).Preload("Student")

	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.DueFrom != nil {
		query = query.Where("due_date >= ?", *filters.DueFrom)
	}
	if filters.DueTo != nil {
		query = query.Where("due_date <= ?", *filters.DueTo)
	}
	query = applyCampusScope(query, "campus_id", filters.CampusIDs)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count invoices")
	}

	limit := normalizeLimit(filters.Limit)
	if err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(filters.Offset).
		Find(&invoices).Error; err != nil {
		return nil, 0, handleDBError(err, "list invoices")
	}

	return invoices, total, nil
}

func (r *invoiceRepository) SumOutstanding(ctx context.Context, tx *gorm.DB, studentID string) (int64, error) {
	db := getDB(r.db, tx)
	var sum *int64
	err := db.WithContext(ctx).
		Model(&models.Invoice{}).
		Select("SUM(total_amount - paid_amount)").
		Where("student_id = ? AND status IN ?", studentID,
			[]models.InvoiceStatus{models.InvoiceIssued, models.InvoiceOverdue}).
		Scan(&sum).Error
	if err != nil {
		return 0, handleDBError(err, "sum outstanding")
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}
