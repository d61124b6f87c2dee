package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "Draft"
	InvoiceIssued    InvoiceStatus = "Issued"
	InvoicePaid      InvoiceStatus = "Paid"
	InvoiceOverdue   InvoiceStatus = "Overdue"
	InvoiceCancelled InvoiceStatus = "Cancelled"
)

type Invoice struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	Number string `json:"number" gorm:"not null;size:40;uniqueIndex"`

	StudentID string `json:"student_id" gorm:"not null;index;size:255"`
	CampusID  uint   `json:"campus_id" gorm:"not null;index"`

	Status   InvoiceStatus `json:"status" gorm:"default:Draft;index"`
	Currency string        `json:"currency" gorm:"size:3;default:VND"`
	// Amounts stored in minor units to avoid float drift
	TotalAmount int64 `json:"total_amount" gorm:"not null;default:0"`
	PaidAmount  int64 `json:"paid_amount" gorm:"not null;default:0"`

	DueDate *time.Time `json:"due_date"`
	PaidAt  *time.Time `json:"paid_at"`

	CreatedBy string         `json:"created_by" gorm:"not null;size:255"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Student User          `json:"student" gorm:"foreignKey:StudentID"`
	Campus  Campus        `json:"campus" gorm:"foreignKey:CampusID"`
	Items   []InvoiceItem `json:"items,omitempty" gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

type InvoiceItem struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	InvoiceID uint   `json:"invoice_id" gorm:"not null;index"`
	Label     string `json:"label" gorm:"not null;size:200"`
	Amount    int64  `json:"amount" gorm:"not null"`
	Quantity  int    `json:"quantity" gorm:"not null;default:1"`

	// Free-form reference to the billed thing (enrollment id, fee code, ...)
	Metadata datatypes.JSON `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (Invoice) TableName() string {
	return "invoices"
}

func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// Outstanding returns the unpaid remainder in minor units.
func (i *Invoice) Outstanding() int64 {
	return i.TotalAmount - i.PaidAmount
}
