package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ThreadStatus string

const (
	ThreadOpen     ThreadStatus = "Open"
	ThreadResolved ThreadStatus = "Resolved"
	ThreadClosed   ThreadStatus = "Closed"
)

// ChatThread is a support conversation between a user and campus staff.
type ChatThread struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Subject string `json:"subject" gorm:"not null;size:200" validate:"required,min=1,max=200"`

	OpenedBy string `json:"opened_by" gorm:"not null;index;size:255"`
	CampusID uint   `json:"campus_id" gorm:"not null;index"`

	Status     ThreadStatus `json:"status" gorm:"default:Open;index"`
	AssignedTo *string      `json:"assigned_to" gorm:"size:255;index"`
	ResolvedAt *time.Time   `json:"resolved_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Opener   User          `json:"opener" gorm:"foreignKey:OpenedBy"`
	Campus   Campus        `json:"campus" gorm:"foreignKey:CampusID"`
	Messages []ChatMessage `json:"messages,omitempty" gorm:"foreignKey:ThreadID;constraint:OnDelete:CASCADE"`
}

type ChatMessage struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	ThreadID uint   `json:"thread_id" gorm:"not null;index"`
	SenderID string `json:"sender_id" gorm:"not null;size:255"`
	Body     string `json:"body" gorm:"type:text;not null" validate:"required,max=5000"`

	// Attachment references, reactions, etc.
	Metadata datatypes.JSON `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	Sender User `json:"sender" gorm:"foreignKey:SenderID"`
}

func (ChatThread) TableName() string {
	return "chat_threads"
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
