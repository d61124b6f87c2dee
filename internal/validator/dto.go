package validator

import (
	"time"

	"github.com/SAP-F-2025/campus-admin-service/internal/models"
)

// ===== USER / ROLE REQUESTS =====

type UserUpdateRequest struct {
	FullName     *string `json:"full_name" validate:"omitempty,min=1,max=100"`
	Phone        *string `json:"phone" validate:"omitempty,max=30"`
	AvatarURL    *string `json:"avatar_url" validate:"omitempty,url,max=500"`
	HomeCampusID *uint   `json:"home_campus_id"`
}

type UserStatusRequest struct {
	Status models.UserStatus `json:"status" validate:"required,oneof=active inactive suspended"`
	Reason *string           `json:"reason" validate:"omitempty,max=500"`
}

// RoleGrantRequest attaches a (role, campus) pair to a user. A nil
// CampusID grants globally.
type RoleGrantRequest struct {
	Role     models.RoleName `json:"role" validate:"required,role_name"`
	CampusID *uint           `json:"campus_id"`
}

type RoleRevokeRequest struct {
	Role     models.RoleName `json:"role" validate:"required,role_name"`
	CampusID *uint           `json:"campus_id"`
}

// ===== CAMPUS REQUESTS =====

type CampusCreateRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=100"`
	Code    string `json:"code" validate:"required,campus_code"`
	Address string `json:"address" validate:"omitempty,max=255"`
	City    string `json:"city" validate:"omitempty,max=100"`
}

type CampusUpdateRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	Address  *string `json:"address" validate:"omitempty,max=255"`
	City     *string `json:"city" validate:"omitempty,max=100"`
	IsActive *bool   `json:"is_active"`
}

// ===== COURSE REQUESTS =====

type CourseCreateRequest struct {
	Code        string  `json:"code" validate:"required,min=2,max=20"`
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Credits     int     `json:"credits" validate:"required,min=1,max=12"`
	CampusID    uint    `json:"campus_id" validate:"required"`
}

type CourseUpdateRequest struct {
	Title       *string              `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string              `json:"description" validate:"omitempty,max=2000"`
	Credits     *int                 `json:"credits" validate:"omitempty,min=1,max=12"`
	Status      *models.CourseStatus `json:"status" validate:"omitempty,oneof=Draft Active Archived"`
}

type SectionCreateRequest struct {
	Number    string  `json:"number" validate:"required,min=1,max=10"`
	Semester  string  `json:"semester" validate:"required,semester"`
	Capacity  int     `json:"capacity" validate:"required,min=1,max=500"`
	TeacherID string  `json:"teacher_id" validate:"required"`
	Schedule  *string `json:"schedule" validate:"omitempty,max=200"`
	Room      *string `json:"room" validate:"omitempty,max=50"`
}

// ===== ENROLLMENT / GRADE REQUESTS =====

type EnrollRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	SectionID uint   `json:"section_id" validate:"required"`
}

type GradeRequest struct {
	Score    float64 `json:"score" validate:"min=0,max=100"`
	Feedback *string `json:"feedback" validate:"omitempty,max=2000"`
	Finalize bool    `json:"finalize"`
}

// ===== BILLING REQUESTS =====

type InvoiceItemRequest struct {
	Label    string `json:"label" validate:"required,min=1,max=200"`
	Amount   int64  `json:"amount" validate:"required,min=1"`
	Quantity int    `json:"quantity" validate:"omitempty,min=1,max=100"`
}

type InvoiceCreateRequest struct {
	StudentID string               `json:"student_id" validate:"required"`
	CampusID  uint                 `json:"campus_id" validate:"required"`
	Currency  string               `json:"currency" validate:"omitempty,len=3"`
	DueDate   *time.Time           `json:"due_date"`
	Items     []InvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
}

type PaymentRequest struct {
	Amount int64 `json:"amount" validate:"required,min=1"`
}

// ===== DOCUMENT REQUESTS =====

type DocumentRequestCreate struct {
	Type   models.DocumentType `json:"type" validate:"required,oneof=transcript enrollment_proof degree_copy conduct_certificate"`
	Copies int                 `json:"copies" validate:"omitempty,min=1,max=10"`
	Note   *string             `json:"note" validate:"omitempty,max=500"`
}

type DocumentStatusRequest struct {
	Status       models.DocumentRequestStatus `json:"status" validate:"required,oneof=Processing Ready Delivered Rejected"`
	RejectReason *string                      `json:"reject_reason" validate:"omitempty,max=500"`
}

// ===== ANNOUNCEMENT REQUESTS =====

type AnnouncementCreateRequest struct {
	Title     string                      `json:"title" validate:"required,min=1,max=200"`
	Body      string                      `json:"body" validate:"required,max=10000"`
	Audience  models.AnnouncementAudience `json:"audience" validate:"omitempty,oneof=all students teachers staff"`
	CampusID  *uint                       `json:"campus_id"`
	Pinned    bool                        `json:"pinned"`
	ExpiresAt *time.Time                  `json:"expires_at"`
}

type AnnouncementUpdateRequest struct {
	Title     *string    `json:"title" validate:"omitempty,min=1,max=200"`
	Body      *string    `json:"body" validate:"omitempty,max=10000"`
	Pinned    *bool      `json:"pinned"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// ===== CHAT REQUESTS =====

type ThreadCreateRequest struct {
	Subject  string `json:"subject" validate:"required,min=1,max=200"`
	CampusID uint   `json:"campus_id" validate:"required"`
	Body     string `json:"body" validate:"required,max=5000"`
}

type MessageCreateRequest struct {
	Body string `json:"body" validate:"required,max=5000"`
}
