// Package policy provides the authorization predicates for project access
// and membership management.
//
// Authorization rules:
//   - Global admins pass every predicate (break-glass override)
//   - Any membership in a project grants access to it
//   - The project owner role and the project leader role can manage members
//   - A plain project member can never manage members
package policy

import (
	"github.com/yukikurage/project-tracker-api/internal/models"
)

// CanAccessProject reports whether the actor may view a project and its
// tasks and journal. membership is the actor's membership in the project,
// or nil when the actor does not belong to it.
func CanAccessProject(actor *models.User, membership *models.ProjectMember) bool {
	if actor == nil {
		return false
	}
	if actor.Role == models.GlobalRoleAdmin {
		return true
	}
	return membership != nil
}

// IsProjectOwner reports whether the actor holds the owner role in the
// project. Global admins count as owners of every project.
func IsProjectOwner(actor *models.User, membership *models.ProjectMember) bool {
	if actor == nil {
		return false
	}
	if actor.Role == models.GlobalRoleAdmin {
		return true
	}
	return membership != nil && membership.Role == models.ProjectRoleOwner
}

// CanManageMembers reports whether the actor may add, remove, or re-role
// project members. Owners and leaders can; plain members cannot.
func CanManageMembers(actor *models.User, membership *models.ProjectMember) bool {
	if actor == nil {
		return false
	}
	if actor.Role == models.GlobalRoleAdmin {
		return true
	}
	if IsProjectOwner(actor, membership) {
		return true
	}
	return membership != nil && membership.Role == models.ProjectRoleLeader
}
