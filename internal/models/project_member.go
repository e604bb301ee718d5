package models

import "time"

type ProjectRole string

const (
	ProjectRoleOwner  ProjectRole = "owner"
	ProjectRoleLeader ProjectRole = "leader"
	ProjectRoleMember ProjectRole = "member"
)

// ClampProjectRole maps s to a known project role, defaulting to member.
func ClampProjectRole(s string) ProjectRole {
	switch ProjectRole(s) {
	case ProjectRoleOwner, ProjectRoleLeader, ProjectRoleMember:
		return ProjectRole(s)
	}
	return ProjectRoleMember
}

// ProjectMember ties one user to one project with a project-scoped role.
// A (project, user) pair is unique.
type ProjectMember struct {
	ID        uint64      `gorm:"primarykey" json:"id"`
	ProjectID uint64      `gorm:"not null;uniqueIndex:uq_project_user" json:"project_id"`
	UserID    uint64      `gorm:"not null;uniqueIndex:uq_project_user" json:"user_id"`
	Role      ProjectRole `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	JoinedAt  time.Time   `json:"joined_at"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`
	User    User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}
