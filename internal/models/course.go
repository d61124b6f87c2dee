package models

import (
	"time"

	"gorm.io/gorm"
)

type CourseStatus string

const (
	CourseDraft    CourseStatus = "Draft"
	CourseActive   CourseStatus = "Active"
	CourseArchived CourseStatus = "Archived"
)

type Course struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	Code        string       `json:"code" gorm:"not null;size:20;uniqueIndex"`
	Title       string       `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description *string      `json:"description" gorm:"type:text" validate:"omitempty,max=2000"`
	Credits     int          `json:"credits" gorm:"not null;default:3" validate:"min=1,max=12"`
	Status      CourseStatus `json:"status" gorm:"default:Draft;index"`

	CampusID uint   `json:"campus_id" gorm:"not null;index"`
	Campus   Campus `json:"campus" gorm:"foreignKey:CampusID"`

	CreatedBy string         `json:"created_by" gorm:"not null;index;size:255"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Sections []CourseSection `json:"sections,omitempty" gorm:"foreignKey:CourseID"`

	// Computed fields (not stored)
	SectionCount  int `json:"section_count" gorm:"-"`
	EnrolledCount int `json:"enrolled_count" gorm:"-"`
}

type CourseSection struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	CourseID uint   `json:"course_id" gorm:"not null;index"`
	Number   string `json:"number" gorm:"not null;size:10"` // e.g. "01", "02"
	Semester string `json:"semester" gorm:"not null;size:20;index"`
	Capacity int    `json:"capacity" gorm:"not null;default:40" validate:"min=1,max=500"`

	TeacherID string `json:"teacher_id" gorm:"not null;index;size:255"`
	Teacher   User   `json:"teacher" gorm:"foreignKey:TeacherID"`

	Schedule *string `json:"schedule" gorm:"size:200"`
	Room     *string `json:"room" gorm:"size:50"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Course      Course       `json:"-" gorm:"foreignKey:CourseID"`
	Enrollments []Enrollment `json:"enrollments,omitempty" gorm:"foreignKey:SectionID"`
}

func (Course) TableName() string {
	return "courses"
}

func (CourseSection) TableName() string {
	return "course_sections"
}
