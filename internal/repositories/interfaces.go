package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/campus-admin-service/internal/models"
)

// ===== ACADEMIC DOMAIN =====

type CourseFilters struct {
	Status    *models.CourseStatus
	CampusIDs []uint // empty = no campus narrowing
	Query     *string
	CreatedBy *string
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string
}

type CourseRepository interface {
	Create(ctx context.Context, tx *gorm.DB, course *models.Course) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error)
	GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error)
	Update(ctx context.Context, tx *gorm.DB, course *models.Course) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	List(ctx context.Context, tx *gorm.DB, filters CourseFilters) ([]*models.Course, int64, error)

	// Sections
	CreateSection(ctx context.Context, tx *gorm.DB, section *models.CourseSection) error
	GetSection(ctx context.Context, tx *gorm.DB, id uint) (*models.CourseSection, error)
	UpdateSection(ctx context.Context, tx *gorm.DB, section *models.CourseSection) error
	DeleteSection(ctx context.Context, tx *gorm.DB, id uint) error
	ListSections(ctx context.Context, tx *gorm.DB, courseID uint) ([]*models.CourseSection, error)
	CountEnrolled(ctx context.Context, tx *gorm.DB, sectionID uint) (int64, error)
}

type EnrollmentFilters struct {
	StudentID *string
	SectionID *uint
	Status    *models.EnrollmentStatus
	CampusIDs []uint
	Semester  *string
	Limit     int
	Offset    int
}

type EnrollmentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Enrollment, error)
	GetByStudentAndSection(ctx context.Context, tx *gorm.DB, studentID string, sectionID uint) (*models.Enrollment, error)
	Update(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error
	List(ctx context.Context, tx *gorm.DB, filters EnrollmentFilters) ([]*models.Enrollment, int64, error)
	ListByStudent(ctx context.Context, tx *gorm.DB, studentID string) ([]*models.Enrollment, error)

	// Grades
	UpsertGrade(ctx context.Context, tx *gorm.DB, grade *models.Grade) error
	GetGrade(ctx context.Context, tx *gorm.DB, enrollmentID uint) (*models.Grade, error)
}

// ===== FINANCE DOMAIN =====

type InvoiceFilters struct {
	StudentID *string
	Status    *models.InvoiceStatus
	CampusIDs []uint
	DueFrom   *time.Time
	DueTo     *time.Time
	Limit     int
	Offset    int
}

type InvoiceRepository interface {
	Create(ctx context.Context, tx *gorm.DB, invoice *models.Invoice) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Invoice, error)
	GetByNumber(ctx context.Context, tx *gorm.DB, number string) (*models.Invoice, error)
	Update(ctx context.Context, tx *gorm.DB, invoice *models.Invoice) error
	List(ctx context.Context, tx *gorm.DB, filters InvoiceFilters) ([]*models.Invoice, int64, error)
	SumOutstanding(ctx context.Context, tx *gorm.DB, studentID string) (int64, error)
}

// ===== STUDENT SERVICES DOMAIN =====

type DocumentRequestFilters struct {
	StudentID *string
	Status    *models.DocumentRequestStatus
	Type      *models.DocumentType
	CampusIDs []uint
	Limit     int
	Offset    int
}

type DocumentRequestRepository interface {
	Create(ctx context.Context, tx *gorm.DB, req *models.DocumentRequest) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.DocumentRequest, error)
	Update(ctx context.Context, tx *gorm.DB, req *models.DocumentRequest) error
	List(ctx context.Context, tx *gorm.DB, filters DocumentRequestFilters) ([]*models.DocumentRequest, int64, error)
}

type AnnouncementFilters struct {
	Audience      *models.AnnouncementAudience
	CampusIDs     []uint // matches campus-bound and global announcements
	PublishedOnly bool
	Limit         int
	Offset        int
}

type AnnouncementRepository interface {
	Create(ctx context.Context, tx *gorm.DB, a *models.Announcement) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Announcement, error)
	Update(ctx context.Context, tx *gorm.DB, a *models.Announcement) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	List(ctx context.Context, tx *gorm.DB, filters AnnouncementFilters) ([]*models.Announcement, int64, error)
}

type ChatThreadFilters struct {
	OpenedBy   *string
	AssignedTo *string
	Status     *models.ThreadStatus
	CampusIDs  []uint
	Limit      int
	Offset     int
}

type ChatRepository interface {
	CreateThread(ctx context.Context, tx *gorm.DB, thread *models.ChatThread) error
	GetThread(ctx context.Context, tx *gorm.DB, id uint) (*models.ChatThread, error)
	GetThreadWithMessages(ctx context.Context, tx *gorm.DB, id uint) (*models.ChatThread, error)
	UpdateThread(ctx context.Context, tx *gorm.DB, thread *models.ChatThread) error
	ListThreads(ctx context.Context, tx *gorm.DB, filters ChatThreadFilters) ([]*models.ChatThread, int64, error)

	AddMessage(ctx context.Context, tx *gorm.DB, msg *models.ChatMessage) error
	ListMessages(ctx context.Context, tx *gorm.DB, threadID uint, limit, offset int) ([]*models.ChatMessage, int64, error)
}
