package dto

import (
	"time"

	"github.com/yukikurage/project-tracker-api/internal/models"
	"github.com/yukikurage/project-tracker-api/internal/services"
)

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsArchived  bool      `json:"is_archived"`
	CreatedAt   time.Time `json:"created_at"`
}

// TaskCountsDTO holds per-status task counts for a project.
type TaskCountsDTO struct {
	Todo  int64 `json:"todo"`
	Doing int64 `json:"doing"`
	Done  int64 `json:"done"`
}

// ProjectSummaryDTO is a project list item with its task counts.
type ProjectSummaryDTO struct {
	ProjectDTO
	TaskCounts TaskCountsDTO `json:"task_counts"`
}

// ProjectMemberDTO represents a member in a project
type ProjectMemberDTO struct {
	ID       uint64             `json:"id"`
	Role     models.ProjectRole `json:"role"`
	JoinedAt time.Time          `json:"joined_at"`
	User     UserDTO            `json:"user"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	return ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		IsArchived:  project.IsArchived,
		CreatedAt:   project.CreatedAt,
	}
}

// ToProjectSummaryDTO converts a project summary to DTO
func ToProjectSummaryDTO(summary services.ProjectSummary) ProjectSummaryDTO {
	return ProjectSummaryDTO{
		ProjectDTO: ToProjectDTO(summary.Project),
		TaskCounts: TaskCountsDTO{
			Todo:  summary.TodoCount,
			Doing: summary.DoingCount,
			Done:  summary.DoneCount,
		},
	}
}

// ToProjectMemberDTO converts a membership to DTO
func ToProjectMemberDTO(member models.ProjectMember) ProjectMemberDTO {
	return ProjectMemberDTO{
		ID:       member.ID,
		Role:     member.Role,
		JoinedAt: member.JoinedAt,
		User:     ToUserDTO(member.User),
	}
}
