package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/campus-admin-service/internal/cache"
	"github.com/SAP-F-2025/campus-admin-service/internal/models"
	"github.com/SAP-F-2025/campus-admin-service/internal/repositories"
)

type courseRepository struct {
	db    *gorm.DB
	cache *cache.CacheManager
}

func NewCourseRepository(db *gorm.DB, cacheManager *cache.CacheManager) repositories.CourseRepository {
	return &courseRepository{db: db, cache: cacheManager}
}

// ===== BASIC CRUD OPERATIONS =====

func (r *courseRepository) Create(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(course).Error; err != nil {
		return handleDBError(err, "create course")
	}
	cache.InvalidateCourseCache(ctx, r.cache, course.ID, course.CampusID)
	return nil
}

func (r *courseRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error) {
	db := getDB(r.db, tx)
	var course models.Course
	if err := db.WithContext(ctx).
		Preload("Campus").
		First(&course, id).Error; err != nil {
		return nil, handleDBError(err, "get course by id")
	}
	return &course, nil
}

func (r *courseRepository) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error) {
	db := getDB(r.db, tx)
	var course models.Course
	if err := db.WithContext(ctx).
		Preload("Campus").
		Preload("Sections").
		Preload("Sections.Teacher").
		First(&course, id).Error; err != nil {
		return nil, handleDBError(err, "get course with details")
	}
	course.SectionCount = len(course.Sections)
	return &course, nil
}

func (r *courseRepository) Update(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Save(course).Error; err != nil {
		return handleDBError(err, "update course")
	}
	cache.InvalidateCourseCache(ctx, r.cache, course.ID, course.CampusID)
	return nil
}

func (r *courseRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Delete(&models.Course{}, id).Error; err != nil {
		return handleDBError(err, "delete course")
	}
	cache.SafeInvalidatePattern(ctx, r.cache.Course, "*")
	return nil
}

// ===== QUERY OPERATIONS =====

func (r *courseRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	db := getDB(r.db, tx)
	var courses []*models.Course
	var total int64

	query := db.WithContext(ctx).Model(&models.Course{}).Preload("Campus")
	query = r.applyCourseFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, handleDBError(err, "count courses")
	}

	query = applyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)
	if err := query.Find(&courses).Error; err != nil {
		return nil, 0, handleDBError(err, "list courses")
	}

	return courses, total, nil
}

func (r *courseRepository) applyCourseFilters(query *gorm.DB, filters repositories.CourseFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.CreatedBy != nil {
		query = query.Where("created_by = ?", *filters.CreatedBy)
	}
	if filters.Query != nil {
		pattern := "%" + *filters.Query + "%"
		query = query.Where("title ILIKE ? OR code ILIKE ?", pattern, pattern)
	}
	return applyCampusScope(query, "campus_id", filters.CampusIDs)
}

// ===== SECTIONS =====

func (r *courseRepository) CreateSection(ctx context.Context, tx *gorm.DB, section *models.CourseSection) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(section).Error; err != nil {
		return handleDBError(err, "create section")
	}
	return nil
}

func (r *courseRepository) GetSection(ctx context.Context, tx *gorm.DB, id uint) (*models.CourseSection, error) {
	db := getDB(r.db, tx)
	var section models.CourseSection
	if err := db.WithContext(ctx).
		Preload("Course").
		Preload("Course.Campus").
		Preload("Teacher").
		First(&section, id).Error; err != nil {
		return nil, handleDBError(err, "get section")
	}
	return &section, nil
}

func (r *courseRepository) UpdateSection(ctx context.Context, tx *gorm.DB, section *models.CourseSection) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Save(section).Error; err != nil {
		return handleDBError(err, "update section")
	}
	return nil
}

func (r *courseRepository) DeleteSection(ctx context.Context, tx *gorm.DB, id uint) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Delete(&models.CourseSection{}, id).Error; err != nil {
		return handleDBError(err, "delete section")
	}
	return nil
}

func (r *courseRepository) ListSections(ctx context.Context, tx *gorm.DB, courseID uint) ([]*models.CourseSection, error) {
	db := getDB(r.db, tx)
	var sections []*models.CourseSection
	if err := db.WithContext(ctx).
		Preload("Teacher").
		Where("course_id = ?", courseID).
		Order("semester DESC, number ASC").
		Find(&sections).Error; err != nil {
		return nil, handleDBError(err, "list sections")
	}
	return sections, nil
}

func (r *courseRepository) CountEnrolled(ctx context.Context, tx *gorm.DB, sectionID uint) (int64, error) {
	db := getDB(r.db, tx)
	var count int64
	err := db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("section_id = ? AND status = ?", sectionID, models.EnrollmentEnrolled).
		Count(&count).Error
	if err != nil {
		return 0, handleDBError(err, "count enrolled")
	}
	return count, nil
}
