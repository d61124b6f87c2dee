package models

import "time"

// UserRole attaches a role to a user, optionally scoped to one campus.
// CampusID == nil means the grant is global (cross-campus). The composite
// unique index makes a repeated grant of the same (role, campus) pair a
// no-op at the storage layer; the NULL campus counts as its own value
// because campus_key materializes it as 0.
type UserRole struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	UserID string `json:"user_id" gorm:"size:255;not null;uniqueIndex:idx_user_role_campus"`
	RoleID uint   `json:"role_id" gorm:"not null;uniqueIndex:idx_user_role_campus"`

	// CampusID is the scoping campus; nil = global grant.
	CampusID *uint `json:"campus_id"`
	// CampusKey is CampusID with nil stored as 0 so the unique index can
	// treat a global grant as one distinct value (SQL NULLs never collide).
	CampusKey uint `json:"-" gorm:"not null;default:0;uniqueIndex:idx_user_role_campus"`

	GrantedBy *string   `json:"granted_by" gorm:"size:255"`
	GrantedAt time.Time `json:"granted_at" gorm:"autoCreateTime"`

	// Relations
	User   User    `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Role   Role    `json:"role" gorm:"foreignKey:RoleID"`
	Campus *Campus `json:"campus,omitempty" gorm:"foreignKey:CampusID"`
}

func (UserRole) TableName() string {
	return "user_roles"
}
