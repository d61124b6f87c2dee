package events

import "time"

// Topics the service publishes to.
const (
	TopicRoleAudit    = "campus-admin.role-audit"
	TopicAnnouncement = "campus-admin.announcements"
	TopicBilling      = "campus-admin.billing"
)

type RoleAuditAction string

const (
	RoleGranted RoleAuditAction = "granted"
	RoleRevoked RoleAuditAction = "revoked"
)

// RoleAuditEvent records a grant or revocation. Claim payloads never appear
// here, only the change itself.
type RoleAuditEvent struct {
	Action    RoleAuditAction `json:"action"`
	UserID    string          `json:"user_id"`
	Role      string          `json:"role"`
	CampusID  *uint           `json:"campus_id,omitempty"` // nil = global grant
	ActorID   string          `json:"actor_id"`
	Timestamp time.Time       `json:"timestamp"`
}

// AnnouncementPublishedEvent notifies downstream consumers (mail, push)
// that an announcement went live.
type AnnouncementPublishedEvent struct {
	AnnouncementID uint      `json:"announcement_id"`
	Title          string    `json:"title"`
	Audience       string    `json:"audience"`
	CampusID       *uint     `json:"campus_id,omitempty"`
	PublishedAt    time.Time `json:"published_at"`
}

// InvoiceIssuedEvent notifies the payment pipeline.
type InvoiceIssuedEvent struct {
	InvoiceID   uint       `json:"invoice_id"`
	Number      string     `json:"number"`
	StudentID   string     `json:"student_id"`
	TotalAmount int64      `json:"total_amount"`
	Currency    string     `json:"currency"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	IssuedAt    time.Time  `json:"issued_at"`
}
