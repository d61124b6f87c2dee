package models

import (
	"time"

	"gorm.io/gorm"
)

// LegacyRole is the single-value role field kept for accounts created before
// the user_roles junction existed. New authority always lives in UserRole rows;
// this field only feeds the fallback grant materialization.
type LegacyRole string

const (
	LegacyRoleStudent LegacyRole = "student"
	LegacyRoleTeacher LegacyRole = "teacher"
	LegacyRoleAdmin   LegacyRole = "admin"
)

type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserInactive  UserStatus = "inactive"
	UserSuspended UserStatus = "suspended"
)

type User struct {
	ID       string     `json:"id" gorm:"primaryKey;size:255"`
	FullName string     `json:"full_name" gorm:"not null;size:100"`
	Email    string     `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Role     LegacyRole `json:"role" gorm:"size:20;default:student;index"`
	Status   UserStatus `json:"status" gorm:"size:20;default:active;index"`

	// Profile info
	Phone     *string `json:"phone" gorm:"size:30"`
	AvatarURL *string `json:"avatar_url" gorm:"size:500"`

	// Home campus drives the legacy fallback grant scope
	HomeCampusID *uint   `json:"home_campus_id" gorm:"index"`
	HomeCampus   *Campus `json:"home_campus,omitempty" gorm:"foreignKey:HomeCampusID"`

	EmailVerified bool `json:"email_verified" gorm:"default:false"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Roles []UserRole `json:"roles,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (User) TableName() string {
	return "users"
}

// IsActive reports whether the account may authenticate at all.
func (u *User) IsActive() bool {
	return u.Status == UserActive
}
