package models

import (
	"time"

	"gorm.io/gorm"
)

type DocumentType string

const (
	DocumentTranscript      DocumentType = "transcript"
	DocumentEnrollmentProof DocumentType = "enrollment_proof"
	DocumentDegreeCopy      DocumentType = "degree_copy"
	DocumentConductCert     DocumentType = "conduct_certificate"
)

type DocumentRequestStatus string

const (
	DocumentRequested  DocumentRequestStatus = "Requested"
	DocumentProcessing DocumentRequestStatus = "Processing"
	DocumentReady      DocumentRequestStatus = "Ready"
	DocumentDelivered  DocumentRequestStatus = "Delivered"
	DocumentRejected   DocumentRequestStatus = "Rejected"
)

// DocumentRequest tracks the state of a paperwork request; actual file
// storage is handled elsewhere, only the reference is kept here.
type DocumentRequest struct {
	ID        uint         `json:"id" gorm:"primaryKey"`
	StudentID string       `json:"student_id" gorm:"not null;index;size:255"`
	CampusID  uint         `json:"campus_id" gorm:"not null;index"`
	Type      DocumentType `json:"type" gorm:"not null;size:40;index"`

	Status DocumentRequestStatus `json:"status" gorm:"default:Requested;index"`
	Copies int                   `json:"copies" gorm:"not null;default:1" validate:"min=1,max=10"`
	Note   *string               `json:"note" gorm:"size:500"`

	RejectReason *string    `json:"reject_reason" gorm:"size:500"`
	HandledBy    *string    `json:"handled_by" gorm:"size:255"`
	HandledAt    *time.Time `json:"handled_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Student User   `json:"student" gorm:"foreignKey:StudentID"`
	Campus  Campus `json:"campus" gorm:"foreignKey:CampusID"`
}

func (DocumentRequest) TableName() string {
	return "document_requests"
}
