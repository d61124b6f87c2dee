package models

import "time"

// RoleName is the closed set of role identifiers. Handlers declare required
// roles with these constants; the seeded roles table is validated against
// this list at startup so a typo cannot silently grant or deny anything.
type RoleName string

const (
	RoleStudent       RoleName = "student"
	RoleTeacher       RoleName = "teacher"
	RoleSuperAdmin    RoleName = "super_admin"
	RoleAcademicAdmin RoleName = "academic_admin"
	RoleFinanceAdmin  RoleName = "finance_admin"
	RoleSupportAdmin  RoleName = "support_admin"
	RoleContentAdmin  RoleName = "content_admin"
)

// AllRoleNames lists every role the service knows about, in seed order.
func AllRoleNames() []RoleName {
	return []RoleName{
		RoleStudent,
		RoleTeacher,
		RoleSuperAdmin,
		RoleAcademicAdmin,
		RoleFinanceAdmin,
		RoleSupportAdmin,
		RoleContentAdmin,
	}
}

// IsValidRoleName reports whether name is part of the closed role set.
func IsValidRoleName(name RoleName) bool {
	for _, r := range AllRoleNames() {
		if r == name {
			return true
		}
	}
	return false
}

// Role is immutable reference data seeded at migration time.
type Role struct {
	ID          uint     `json:"id" gorm:"primaryKey"`
	Name        RoleName `json:"name" gorm:"uniqueIndex;size:50;not null"`
	Code        string   `json:"code" gorm:"uniqueIndex;size:10;not null"` // short business key, e.g. "SA"
	Description string   `json:"description" gorm:"size:255"`
	IsSystem    bool     `json:"is_system" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Role) TableName() string {
	return "roles"
}

// SeedRoles is the reference data inserted on first migration.
func SeedRoles() []Role {
	return []Role{
		{Name: RoleStudent, Code: "ST", Description: "Enrolled student"},
		{Name: RoleTeacher, Code: "TE", Description: "Teaching staff"},
		{Name: RoleSuperAdmin, Code: "SA", Description: "Cross-campus system administrator"},
		{Name: RoleAcademicAdmin, Code: "AA", Description: "Academic affairs administrator"},
		{Name: RoleFinanceAdmin, Code: "FA", Description: "Finance and billing administrator"},
		{Name: RoleSupportAdmin, Code: "SU", Description: "Student support administrator"},
		{Name: RoleContentAdmin, Code: "CA", Description: "Content and announcement administrator"},
	}
}
