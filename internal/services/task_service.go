package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/yukikurage/project-tracker-api/internal/constants"
	"github.com/yukikurage/project-tracker-api/internal/models"
	"github.com/yukikurage/project-tracker-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskTitleRequired = errors.New("title is required")
	ErrDueDateRequired   = errors.New("due date is required")
	ErrDueDateInvalid    = errors.New("due date format is invalid")
	ErrDueDateInPast     = errors.New("due date must be today or later")
	ErrTaskNotFound      = errors.New("task not found")
)

// TaskService handles task creation, status transitions, and the
// display ordering of a project's task list.
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
	}
}

func statusRank(s models.TaskStatus) int {
	switch s {
	case models.TaskStatusDoing:
		return 0
	case models.TaskStatusTodo:
		return 1
	case models.TaskStatusDone:
		return 2
	}
	return 9
}

func priorityRank(p models.TaskPriority) int {
	switch p {
	case models.TaskPriorityHigh:
		return 0
	case models.TaskPriorityMid:
		return 1
	case models.TaskPriorityLow:
		return 2
	}
	return 9
}

// orderTasks sorts tasks for display: active work first, soonest
// deadlines next. The composite key, each component ascending:
//
//  1. status rank (doing, todo, done)
//  2. due-date presence (dated before undated)
//  3. due date
//  4. priority rank (high, mid, low)
//  5. creation time descending (newest first)
func orderTasks(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]

		if ra, rb := statusRank(a.Status), statusRank(b.Status); ra != rb {
			return ra < rb
		}

		aHasDue, bHasDue := a.DueDate != nil, b.DueDate != nil
		if aHasDue != bHasDue {
			return aHasDue
		}
		if aHasDue && bHasDue && !a.DueDate.Equal(*b.DueDate) {
			return a.DueDate.Before(*b.DueDate)
		}

		if ra, rb := priorityRank(a.Priority), priorityRank(b.Priority); ra != rb {
			return ra < rb
		}

		return a.CreatedAt.After(b.CreatedAt)
	})
}

// ListTasks returns all tasks of a project in display order.
func (s *TaskService) ListTasks(projectID uint64) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	orderTasks(tasks)
	return tasks, nil
}

// CreateTaskInput represents input for creating a task. DueDate arrives
// as the raw form value in YYYY-MM-DD form and is required.
type CreateTaskInput struct {
	ProjectID   uint64
	Title       string
	Description string
	Priority    string
	DueDate     string
	CreatorID   uint64
}

// CreateTask validates and creates a task. Past due dates are rejected;
// today is the earliest allowed.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTaskTitleRequired
	}

	dueDateStr := strings.TrimSpace(input.DueDate)
	if dueDateStr == "" {
		return nil, ErrDueDateRequired
	}

	dueDate, err := time.ParseInLocation(constants.DueDateLayout, dueDateStr, time.Local)
	if err != nil {
		return nil, ErrDueDateInvalid
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	if dueDate.Before(today) {
		return nil, ErrDueDateInPast
	}

	priority := models.TaskPriority(strings.TrimSpace(input.Priority))
	switch priority {
	case models.TaskPriorityLow, models.TaskPriorityMid, models.TaskPriorityHigh:
	default:
		priority = models.TaskPriorityMid
	}

	task := &models.Task{
		ProjectID:   input.ProjectID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Status:      models.TaskStatusTodo,
		Priority:    priority,
		DueDate:     &dueDate,
		CreatorID:   input.CreatorID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// ChangeStatus applies a status action to a task. Actions map to
// deterministic transitions; DoneAt is set only on "done" and cleared
// otherwise. Unknown actions change nothing and are not an error.
func (s *TaskService) ChangeStatus(projectID, taskID uint64, action string) (*models.Task, error) {
	task, err := s.taskRepo.FindInProject(projectID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	switch action {
	case "start":
		task.Status = models.TaskStatusDoing
		task.DoneAt = nil
	case "done":
		task.Status = models.TaskStatusDone
		now := time.Now()
		task.DoneAt = &now
	case "reset":
		task.Status = models.TaskStatusTodo
		task.DoneAt = nil
	default:
		return task, nil
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to change task status: %w", err)
	}

	return task, nil
}

// CountAcrossProjects returns total and not-done task counts over the
// given projects, for the dashboard.
func (s *TaskService) CountAcrossProjects(projectIDs []uint64) (total int64, open int64, err error) {
	total, open, err = s.taskRepo.CountByProjects(projectIDs)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return total, open, nil
}
