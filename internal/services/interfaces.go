package services

import (
	"context"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/campus-admin-service/internal/authz"
	"github.com/SAP-F-2025/campus-admin-service/internal/models"
	"github.com/SAP-F-2025/campus-admin-service/internal/repositories"
	"github.com/SAP-F-2025/campus-admin-service/internal/validator"
)

// Request DTOs live in the validator package so binding and validation
// rules stay in one place; services re-export them under their own names.
type (
	UserUpdateRequest         = validator.UserUpdateRequest
	UserStatusRequest         = validator.UserStatusRequest
	RoleGrantRequest          = validator.RoleGrantRequest
	RoleRevokeRequest         = validator.RoleRevokeRequest
	CampusCreateRequest       = validator.CampusCreateRequest
	CampusUpdateRequest       = validator.CampusUpdateRequest
	CourseCreateRequest       = validator.CourseCreateRequest
	CourseUpdateRequest       = validator.CourseUpdateRequest
	SectionCreateRequest      = validator.SectionCreateRequest
	EnrollRequest             = validator.EnrollRequest
	GradeRequest              = validator.GradeRequest
	InvoiceCreateRequest      = validator.InvoiceCreateRequest
	PaymentRequest            = validator.PaymentRequest
	DocumentRequestCreate     = validator.DocumentRequestCreate
	DocumentStatusRequest     = validator.DocumentStatusRequest
	AnnouncementCreateRequest = validator.AnnouncementCreateRequest
	AnnouncementUpdateRequest = validator.AnnouncementUpdateRequest
	ThreadCreateRequest       = validator.ThreadCreateRequest
	MessageCreateRequest      = validator.MessageCreateRequest
)

// ListResponse is the shared paginated envelope.
type ListResponse[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// UserService manages local user bookkeeping. Identity fields (name,
// email, avatar) originate in the identity provider and flow in through
// the directory sync; this service owns status and campus placement.
type UserService interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, decision authz.Decision, filters repositories.UserFilters) (*ListResponse[*models.User], error)
	Update(ctx context.Context, id string, req UserUpdateRequest) (*models.User, error)
	UpdateStatus(ctx context.Context, actorID, id string, req UserStatusRequest) (*models.User, error)
}

// GrantView is one explicit grant row for administrative display.
// GrantedBy is nil for rows written before actor tracking existed.
type GrantView struct {
	Role      models.RoleName `json:"role"`
	CampusID  *uint           `json:"campus_id,omitempty"`
	GrantedBy *string         `json:"granted_by,omitempty"`
}

// RoleService is the single writer of (role, campus) grant pairs. Every
// mutation invalidates the subject's grant cache synchronously and emits
// a role audit event.
type RoleService interface {
	ListRoles(ctx context.Context) ([]*models.Role, error)
	ListUserGrants(ctx context.Context, userID string) ([]GrantView, error)
	Grant(ctx context.Context, actorID, userID string, req RoleGrantRequest) error
	Revoke(ctx context.Context, actorID, userID string, req RoleRevokeRequest) error
}

type CampusService interface {
	Create(ctx context.Context, req CampusCreateRequest) (*models.Campus, error)
	GetByID(ctx context.Context, id uint) (*models.Campus, error)
	List(ctx context.Context) ([]*models.Campus, error)
	Update(ctx context.Context, id uint, req CampusUpdateRequest) (*models.Campus, error)
	Delete(ctx context.Context, id uint) error
}

type CourseService interface {
	Create(ctx context.Context, actorID string, req CourseCreateRequest) (*models.Course, error)
	GetByID(ctx context.Context, id uint) (*models.Course, error)
	List(ctx context.Context, decision authz.Decision, filters repositories.CourseFilters) (*ListResponse[*models.Course], error)
	Update(ctx context.Context, id uint, req CourseUpdateRequest) (*models.Course, error)
	Delete(ctx context.Context, id uint) error

	CreateSection(ctx context.Context, courseID uint, req SectionCreateRequest) (*models.CourseSection, error)
	ListSections(ctx context.Context, courseID uint) ([]*models.CourseSection, error)
	DeleteSection(ctx context.Context, courseID, sectionID uint) error
}

// EnrollmentService covers enrollment lifecycle and grading.
type EnrollmentService interface {
	Enroll(ctx context.Context, actorID string, req EnrollRequest) (*models.Enrollment, error)
	Drop(ctx context.Context, actorID string, enrollmentID uint) (*models.Enrollment, error)
	GetByID(ctx context.Context, id uint) (*models.Enrollment, error)
	List(ctx context.Context, decision authz.Decision, filters repositories.EnrollmentFilters) (*ListResponse[*models.Enrollment], error)
	ListByStudent(ctx context.Context, studentID string) ([]*models.Enrollment, error)

	SubmitGrade(ctx context.Context, graderID string, enrollmentID uint, req GradeRequest) (*models.Grade, error)
	GetGrade(ctx context.Context, enrollmentID uint) (*models.Grade, error)
}

type BillingService interface {
	CreateInvoice(ctx context.Context, actorID string, req InvoiceCreateRequest) (*models.Invoice, error)
	IssueInvoice(ctx context.Context, id uint) (*models.Invoice, error)
	CancelInvoice(ctx context.Context, id uint) (*models.Invoice, error)
	RecordPayment(ctx context.Context, id uint, req PaymentRequest) (*models.Invoice, error)
	GetByID(ctx context.Context, id uint) (*models.Invoice, error)
	List(ctx context.Context, decision authz.Decision, filters repositories.InvoiceFilters) (*ListResponse[*models.Invoice], error)
	OutstandingBalance(ctx context.Context, studentID string) (int64, error)
}

type DocumentService interface {
	CreateRequest(ctx context.Context, studentID string, req DocumentRequestCreate) (*models.DocumentRequest, error)
	GetByID(ctx context.Context, id uint) (*models.DocumentRequest, error)
	List(ctx context.Context, decision authz.Decision, filters repositories.DocumentRequestFilters) (*ListResponse[*models.DocumentRequest], error)
	UpdateStatus(ctx context.Context, handlerID string, id uint, req DocumentStatusRequest) (*models.DocumentRequest, error)
}

type AnnouncementService interface {
	Create(ctx context.Context, actorID string, req AnnouncementCreateRequest) (*models.Announcement, error)
	GetByID(ctx context.Context, id uint) (*models.Announcement, error)
	List(ctx context.Context, decision authz.Decision, filters repositories.AnnouncementFilters) (*ListResponse[*models.Announcement], error)
	Update(ctx context.Context, id uint, req AnnouncementUpdateRequest) (*models.Announcement, error)
	Publish(ctx context.Context, id uint) (*models.Announcement, error)
	Delete(ctx context.Context, id uint) error
}

type ChatService interface {
	OpenThread(ctx context.Context, openerID string, req ThreadCreateRequest) (*models.ChatThread, error)
	GetThread(ctx context.Context, requesterID string, decision authz.Decision, id uint) (*models.ChatThread, error)
	ListThreads(ctx context.Context, decision authz.Decision, filters repositories.ChatThreadFilters) (*ListResponse[*models.ChatThread], error)
	PostMessage(ctx context.Context, senderID string, decision authz.Decision, threadID uint, req MessageCreateRequest) (*models.ChatMessage, error)
	AssignThread(ctx context.Context, staffID string, threadID uint) (*models.ChatThread, error)
	CloseThread(ctx context.Context, threadID uint, resolved bool) (*models.ChatThread, error)
}

// ExportService produces spreadsheet exports for administrative download.
type ExportService interface {
	ExportSectionGrades(ctx context.Context, sectionID uint) (*excelize.File, error)
	ExportStudentTranscript(ctx context.Context, studentID string) (*excelize.File, error)
}
