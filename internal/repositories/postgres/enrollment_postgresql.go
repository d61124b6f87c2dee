package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SAP-F-2025/campus-admin-service/internal/models"
	"github.com/SAP-F-2025/campus-admin-service/internal/repositories"
)

type enrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) repositories.EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(enrollment).Error; err != nil {
		return handleDBError(err, "create enrollment")
	}
	return nil
}

func (r *enrollmentRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Enrollment, error) {
	db := getDB(r.db, tx)
	var enrollment models.Enrollment
	if err := db.WithContext(ctx).
		Preload("Student").
		Preload("Section").
		Preload("Section.Course").
		Preload("Grade").
		First(&enrollment, id).Error; err != nil {
		return nil, handleDBError(err, "get enrollment by id")
	}
	return &enrollment, nil
}

func (r *enrollmentRepository) GetByStudentAndSection(ctx context.Context, tx *gorm.DB, studentID string, sectionID uint) (*models.Enrollment, error) {
	db := getDB(r.db, tx)
	var enrollment models.Enrollment
	if err := db.WithContext(ctx).
		Where("student_id = ? AND section_id = ?", studentID, sectionID).
		First(&enrollment).Error; err != nil {
		return nil, handleDBError(err, "get enrollment by student and section")
	}
	return &enrollment, nil
}

func (r *enrollmentRepository) Update(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Save(enrollment).Error; err != nil {
		return handleDBError(err, "update enrollment")
	}
	return nil
}

func (r *enrollmentRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.EnrollmentFilters) ([]*models.Enrollment, int64, error) {
	db := getDB(r.db, tx)
	var enrollments []*models.Enrollment
	var total int64

	query := db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Joins("JOIN course_sections ON course_sections.id = enrollments.section_id").
		Joins("JOIN courses ON courses.id = course_sections.course_id").
		Preload("Student").
		Preload("Section").
		Preload("Section.Course").
		Preload("Grade")

	if filters.StudentID != nil {
		query = query.Where("enrollments.student_id = ?", *filters.StudentID)
	}
	if filters.SectionID != nil {
		query = query.Where("enrollments.section_id = ?", *filters.SectionID)
	}
	if filters.Status != nil {
		query = query.Where("enrollments.status = ?", *filters.Status)
	}
	if filters.Semester != nil {
		query = query.Where("course_sections.semester = ?", *filters.Semester)
	}
	query = applyCampusScope(query, "courses.campus_id", filters.CampusIDs)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count enrollments")
	}

	limit := normalizeLimit(filters.Limit)
	if err := query.
		Order("enrollments.created_at DESC").
		Limit(limit).
		Offset(filters.Offset).
		Find(&enrollments).Error; err != nil {
		return nil, 0, handleDBError(err, "list enrollments")
	}

	return enrollments, total, nil
}

func (r *enrollmentRepository) ListByStudent(ctx context.Context, tx *gorm.DB, studentID string) ([]*models.Enrollment, error) {
	db := getDB(r.db, tx)
	var enrollments []*models.Enrollment
	if err := db.WithContext(ctx).
		Preload("Section").
		Preload("Section.Course").
		Preload("Grade").
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&enrollments).Error; err != nil {
		return nil, handleDBError(err, "list enrollments by student")
	}
	return enrollments, nil
}

// ===== GRADES =====

// UpsertGrade writes the grade row for an enrollment; the unique index on
// enrollment_id makes re-grading an update instead of a second row.
func (r *enrollmentRepository) UpsertGrade(ctx context.Context, tx *gorm.DB, grade *models.Grade) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "enrollment_id"}},
			UpdateAll: true,
		}).
		Create(grade).Error; err != nil {
		return handleDBError(err, "upsert grade")
	}
	return nil
}

func (r *enrollmentRepository) GetGrade(ctx context.Context, tx *gorm.DB, enrollmentID uint) (*models.Grade, error) {
	db := getDB(r.db, tx)
	var grade models.Grade
	if err := db.WithContext(ctx).
		First(&grade, "enrollment_id = ?", enrollmentID).Error; err != nil {
		return nil, handleDBError(err, "get grade")
	}
	return &grade, nil
}
