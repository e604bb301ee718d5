package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yukikurage/project-tracker-api/internal/models"
	"github.com/yukikurage/project-tracker-api/internal/policy"
	"github.com/yukikurage/project-tracker-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrProjectNameRequired      = errors.New("project name is required")
	ErrProjectNotFound          = errors.New("project not found")
	ErrMemberManagementDenied   = errors.New("not allowed to manage members of this project")
	ErrMemberNotApproved        = errors.New("user is not approved yet")
	ErrMemberInactive           = errors.New("user is suspended")
	ErrMemberLocked             = errors.New("user is locked")
	ErrAlreadyMember            = errors.New("user is already a member of this project")
	ErrMembershipNotFound       = errors.New("project member not found")
	ErrCannotRemoveSelf         = errors.New("cannot remove yourself from the project")
	ErrCannotRemoveAdminMember  = errors.New("only admins can remove an admin user")
	ErrCannotRemoveOwner        = errors.New("only admins can remove the project owner")
	ErrLeaderCannotRemoveOwner  = errors.New("leaders cannot remove the project owner")
	ErrInvalidMemberRole        = errors.New("invalid member role")
	ErrCannotChangeOwnRole      = errors.New("cannot change your own role")
	ErrMembershipRemovalFailed  = errors.New("failed to remove member, please retry")
	ErrFailedToCreateProject    = errors.New("failed to create project")
	ErrFailedToCreateMembership = errors.New("failed to add member")
)

// ProjectSummary is a project plus its per-status task counts, as shown
// on the project list.
type ProjectSummary struct {
	Project    models.Project
	TodoCount  int64
	DoingCount int64
	DoneCount  int64
}

// ProjectService handles projects and project membership.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	taskRepo    repository.TaskRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository, taskRepo repository.TaskRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		taskRepo:    taskRepo,
	}
}

// CreateProject creates a project and makes the actor its owner.
func (s *ProjectService) CreateProject(actor *models.User, name, description string) (*models.Project, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrProjectNameRequired
	}

	project := &models.Project{
		Name:        strings.TrimSpace(name),
		Description: description,
	}

	if err := s.projectRepo.CreateWithOwner(project, actor.ID); err != nil {
		switch {
		case errors.Is(err, repository.ErrCreateProject):
			return nil, ErrFailedToCreateProject
		case errors.Is(err, repository.ErrCreateOwnerMembership):
			return nil, ErrFailedToCreateMembership
		default:
			return nil, fmt.Errorf("failed to create project: %w", err)
		}
	}

	return project, nil
}

// ListProjects returns the projects visible to the actor with their task
// status counts. Admins see every project, everyone else only projects
// they belong to.
func (s *ProjectService) ListProjects(actor *models.User) ([]ProjectSummary, error) {
	var (
		projects []models.Project
		err      error
	)
	if actor.Role == models.GlobalRoleAdmin {
		projects, err = s.projectRepo.ListAll()
	} else {
		projects, err = s.projectRepo.ListByUserID(actor.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	projectIDs := make([]uint64, len(projects))
	for i, p := range projects {
		projectIDs[i] = p.ID
	}

	// One grouped query for all counts, not one per project.
	rows, err := s.taskRepo.CountByStatus(projectIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	type counts struct{ todo, doing, done int64 }
	byProject := make(map[uint64]*counts, len(projects))
	for _, p := range projects {
		byProject[p.ID] = &counts{}
	}
	for _, row := range rows {
		c, ok := byProject[row.ProjectID]
		if !ok {
			continue
		}
		switch row.Status {
		case models.TaskStatusTodo:
			c.todo = row.Count
		case models.TaskStatusDoing:
			c.doing = row.Count
		case models.TaskStatusDone:
			c.done = row.Count
		}
	}

	summaries := make([]ProjectSummary, len(projects))
	for i, p := range projects {
		c := byProject[p.ID]
		summaries[i] = ProjectSummary{
			Project:    p,
			TodoCount:  c.todo,
			DoingCount: c.doing,
			DoneCount:  c.done,
		}
	}
	return summaries, nil
}

// MemberProjectIDs returns the IDs of projects the user belongs to.
func (s *ProjectService) MemberProjectIDs(userID uint64) ([]uint64, error) {
	projects, err := s.projectRepo.ListByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	ids := make([]uint64, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	return ids, nil
}

// GetProject returns a project by ID.
func (s *ProjectService) GetProject(projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// FindMembership returns the actor's membership in a project, or nil
// when the actor does not belong to it.
func (s *ProjectService) FindMembership(projectID, userID uint64) (*models.ProjectMember, error) {
	member, err := s.projectRepo.FindMember(projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find membership: %w", err)
	}
	return member, nil
}

// ListMembers lists all members of a project.
func (s *ProjectService) ListMembers(projectID uint64) ([]models.ProjectMember, error) {
	members, err := s.projectRepo.ListMembers(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// AddMemberInput represents parameters to add a project member.
// EmployeeID is the raw form value; the target is resolved by employee
// number, not internal ID. Role is clamped to the known project roles.
type AddMemberInput struct {
	ProjectID  uint64
	EmployeeID string
	Role       string
}

// AddMember adds a user to a project. The target account must be
// approved, active, and unlocked: an invite must not attach to an
// unusable account.
func (s *ProjectService) AddMember(actor *models.User, actorMembership *models.ProjectMember, input AddMemberInput) (*models.ProjectMember, error) {
	if !policy.CanManageMembers(actor, actorMembership) {
		return nil, ErrMemberManagementDenied
	}

	employeeID, err := strconv.ParseUint(strings.TrimSpace(input.EmployeeID), 10, 64)
	if err != nil {
		return nil, ErrEmployeeIDNotNumeric
	}

	role := models.ClampProjectRole(strings.TrimSpace(input.Role))

	user, err := s.userRepo.FindByEmployeeID(employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !user.IsApproved {
		return nil, ErrMemberNotApproved
	}
	if !user.IsActive {
		return nil, ErrMemberInactive
	}
	if user.IsLocked {
		return nil, ErrMemberLocked
	}

	if _, err := s.projectRepo.FindMember(input.ProjectID, user.ID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	member := &models.ProjectMember{
		ProjectID: input.ProjectID,
		UserID:    user.ID,
		Role:      role,
		JoinedAt:  time.Now(),
	}

	if err := s.projectRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	member.User = *user
	return member, nil
}

// RemoveMember deletes a membership. The rejection rules run in order
// and the first match wins:
//  1. the target membership is the actor's own
//  2. the target user is a global admin and the actor is not
//  3. the target holds the owner role and the actor is not a global admin
//  4. the actor's project role is leader and the target's is owner
//
// Rule 4 is redundant under the current role set (rule 3 already covers
// it) but encodes the project-role hierarchy rather than the global one,
// so it stays a distinct check.
func (s *ProjectService) RemoveMember(actor *models.User, actorMembership *models.ProjectMember, projectID, membershipID uint64) error {
	if !policy.CanManageMembers(actor, actorMembership) {
		return ErrMemberManagementDenied
	}

	target, err := s.projectRepo.FindMembershipByID(projectID, membershipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMembershipNotFound
		}
		return fmt.Errorf("failed to find membership: %w", err)
	}

	if target.UserID == actor.ID {
		return ErrCannotRemoveSelf
	}

	isGlobalAdmin := actor.Role == models.GlobalRoleAdmin

	if target.User.Role == models.GlobalRoleAdmin && !isGlobalAdmin {
		return ErrCannotRemoveAdminMember
	}

	if target.Role == models.ProjectRoleOwner && !isGlobalAdmin {
		return ErrCannotRemoveOwner
	}

	if actorMembership != nil && actorMembership.Role == models.ProjectRoleLeader &&
		target.Role == models.ProjectRoleOwner {
		return ErrLeaderCannotRemoveOwner
	}

	if err := s.projectRepo.RemoveMembership(membershipID); err != nil {
		if errors.Is(err, repository.ErrRemoveMembership) {
			return ErrMembershipRemovalFailed
		}
		return fmt.Errorf("failed to remove member: %w", err)
	}

	return nil
}

// ChangeMemberRole sets a member's project role. Only leader and member
// are assignable here; ownership never moves through this path. Actors
// cannot change their own role.
func (s *ProjectService) ChangeMemberRole(actor *models.User, actorMembership *models.ProjectMember, projectID, membershipID uint64, newRole string) (*models.ProjectMember, error) {
	if !policy.CanManageMembers(actor, actorMembership) {
		return nil, ErrMemberManagementDenied
	}

	role := models.ProjectRole(strings.TrimSpace(newRole))
	if role != models.ProjectRoleLeader && role != models.ProjectRoleMember {
		return nil, ErrInvalidMemberRole
	}

	target, err := s.projectRepo.FindMembershipByID(projectID, membershipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, fmt.Errorf("failed to find membership: %w", err)
	}

	if target.UserID == actor.ID {
		return nil, ErrCannotChangeOwnRole
	}

	target.Role = role
	if err := s.projectRepo.UpdateMembership(target); err != nil {
		return nil, fmt.Errorf("failed to change member role: %w", err)
	}

	return target, nil
}
