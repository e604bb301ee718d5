package models

import (
	"time"
)

type GlobalRole string

const (
	GlobalRoleAdmin  GlobalRole = "admin"
	GlobalRoleLeader GlobalRole = "leader"
	GlobalRoleMember GlobalRole = "member"
)

// IsValidGlobalRole reports whether s names one of the known global roles.
func IsValidGlobalRole(s string) bool {
	switch GlobalRole(s) {
	case GlobalRoleAdmin, GlobalRoleLeader, GlobalRoleMember:
		return true
	}
	return false
}

// User is an employee account. Accounts are created unapproved and
// inactive at signup; admin approval flips them usable. Users are
// never hard-deleted.
type User struct {
	ID                  uint64     `gorm:"primarykey" json:"id"`
	EmployeeID          uint64     `gorm:"uniqueIndex;not null" json:"employee_id"`
	Name                string     `gorm:"type:varchar(100);not null" json:"name"`
	PasswordHash        string     `gorm:"type:varchar(255);not null" json:"-"`
	Role                GlobalRole `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	IsApproved          bool       `gorm:"not null;default:false" json:"is_approved"`
	IsActive            bool       `gorm:"not null;default:false" json:"is_active"`
	IsLocked            bool       `gorm:"not null;default:false" json:"is_locked"`
	FailedLoginAttempts int        `gorm:"not null;default:0" json:"-"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`

	// Relations
	Memberships  []ProjectMember `gorm:"foreignKey:UserID" json:"-"`
	CreatedTasks []Task          `gorm:"foreignKey:CreatorID" json:"-"`
}
