package models

import (
	"time"

	"gorm.io/gorm"
)

type AnnouncementAudience string

const (
	AudienceAll      AnnouncementAudience = "all"
	AudienceStudents AnnouncementAudience = "students"
	AudienceTeachers AnnouncementAudience = "teachers"
	AudienceStaff    AnnouncementAudience = "staff"
)

type Announcement struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Title string `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Body  string `json:"body" gorm:"type:text;not null" validate:"required,max=10000"`

	Audience AnnouncementAudience `json:"audience" gorm:"size:20;default:all;index"`
	// CampusID nil = visible on every campus
	CampusID *uint   `json:"campus_id" gorm:"index"`
	Campus   *Campus `json:"campus,omitempty" gorm:"foreignKey:CampusID"`

	Pinned      bool       `json:"pinned" gorm:"default:false"`
	PublishedAt *time.Time `json:"published_at" gorm:"index"`
	ExpiresAt   *time.Time `json:"expires_at"`

	CreatedBy string         `json:"created_by" gorm:"not null;index;size:255"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Announcement) TableName() string {
	return "announcements"
}

// IsPublished reports whether the announcement is currently visible.
func (a *Announcement) IsPublished(now time.Time) bool {
	if a.PublishedAt == nil || a.PublishedAt.After(now) {
		return false
	}
	if a.ExpiresAt != nil && a.ExpiresAt.Before(now) {
		return false
	}
	return true
}
