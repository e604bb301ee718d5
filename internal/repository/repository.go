package repository

import (
	"github.com/yukikurage/project-tracker-api/internal/models"
	"github.com/yukikurage/project-tracker-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by internal ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmployeeID finds a user by employee number (the login key)
	FindByEmployeeID(employeeID uint64) (*models.User, error)

	// List retrieves one page of users ordered by ID
	List(params utils.PaginationParams) ([]models.User, int64, error)

	// Update persists changes to a user
	Update(user *models.User) error

	// CountByRole counts users holding a global role
	CountByRole(role models.GlobalRole) (int64, error)

	// CountPendingApproval counts users awaiting admin approval
	CountPendingApproval() (int64, error)
}

// TaskStatusCount is one row of a per-project, per-status task count.
type TaskStatusCount struct {
	ProjectID uint64
	Status    models.TaskStatus
	Count     int64
}

// ProjectRepository defines the interface for project and membership data access
type ProjectRepository interface {
	// CreateWithOwner creates a project and its owner membership
	// within a single transaction.
	CreateWithOwner(project *models.Project, ownerID uint64) error

	// FindByID finds a project by ID
	FindByID(id uint64) (*models.Project, error)

	// ListAll lists every project
	ListAll() ([]models.Project, error)

	// ListByUserID lists projects the user is a member of
	ListByUserID(userID uint64) ([]models.Project, error)

	// AddMember adds a membership
	AddMember(member *models.ProjectMember) error

	// FindMember finds the membership of a user in a project
	FindMember(projectID, userID uint64) (*models.ProjectMember, error)

	// FindMembershipByID finds a membership by its own ID within a project,
	// with the user preloaded
	FindMembershipByID(projectID, membershipID uint64) (*models.ProjectMember, error)

	// ListMembers lists all memberships of a project with users preloaded
	ListMembers(projectID uint64) ([]models.ProjectMember, error)

	// RemoveMembership deletes a membership inside a transaction
	RemoveMembership(membershipID uint64) error

	// UpdateMembership persists changes to a membership
	UpdateMembership(member *models.ProjectMember) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindInProject finds a task by ID scoped to a project
	FindInProject(projectID, taskID uint64) (*models.Task, error)

	// ListByProject lists all tasks of a project with creators and
	// assignees preloaded
	ListByProject(projectID uint64) ([]models.Task, error)

	// Update persists changes to a task
	Update(task *models.Task) error

	// CountByStatus returns per-status task counts for the given projects
	CountByStatus(projectIDs []uint64) ([]TaskStatusCount, error)

	// CountByProjects returns total and not-done task counts across the
	// given projects
	CountByProjects(projectIDs []uint64) (total int64, open int64, err error)
}
