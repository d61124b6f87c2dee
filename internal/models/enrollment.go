package models

import (
	"time"

	"gorm.io/gorm"
)

type EnrollmentStatus string

const (
	EnrollmentPending   EnrollmentStatus = "Pending"
	EnrollmentEnrolled  EnrollmentStatus = "Enrolled"
	EnrollmentDropped   EnrollmentStatus = "Dropped"
	EnrollmentCompleted EnrollmentStatus = "Completed"
)

type Enrollment struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	StudentID string `json:"student_id" gorm:"not null;size:255;uniqueIndex:idx_student_section"`
	SectionID uint   `json:"section_id" gorm:"not null;uniqueIndex:idx_student_section"`

	Status     EnrollmentStatus `json:"status" gorm:"default:Pending;index"`
	EnrolledAt *time.Time       `json:"enrolled_at"`
	DroppedAt  *time.Time       `json:"dropped_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Student User          `json:"student" gorm:"foreignKey:StudentID"`
	Section CourseSection `json:"section" gorm:"foreignKey:SectionID"`
	Grade   *Grade        `json:"grade,omitempty" gorm:"foreignKey:EnrollmentID"`
}

type Grade struct {
	ID           uint `json:"id" gorm:"primaryKey"`
	EnrollmentID uint `json:"enrollment_id" gorm:"not null;uniqueIndex"`

	// Numeric score on a 0-100 scale; letter derived, never stored inconsistently
	Score  float64 `json:"score" gorm:"not null" validate:"min=0,max=100"`
	Letter string  `json:"letter" gorm:"size:2;not null"`

	Feedback *string `json:"feedback" gorm:"type:text" validate:"omitempty,max=2000"`

	GradedBy  string    `json:"graded_by" gorm:"not null;size:255"`
	GradedAt  time.Time `json:"graded_at"`
	Finalized bool      `json:"finalized" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

func (Grade) TableName() string {
	return "grades"
}

// LetterForScore maps a numeric score to its letter grade.
func LetterForScore(score float64) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}
