package repository

import (
	"github.com/yukikurage/project-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindInProject finds a task by ID scoped to a project
func (r *GormTaskRepository) FindInProject(projectID, taskID uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.Where("id = ? AND project_id = ?", taskID, projectID).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByProject lists all tasks of a project with creators and assignees preloaded
func (r *GormTaskRepository) ListByProject(projectID uint64) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.Preload("Creator").Preload("Assignee").
		Where("project_id = ?", projectID).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update persists changes to a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// CountByStatus returns per-status task counts for the given projects
// in a single grouped query.
func (r *GormTaskRepository) CountByStatus(projectIDs []uint64) ([]TaskStatusCount, error) {
	if len(projectIDs) == 0 {
		return []TaskStatusCount{}, nil
	}

	var rows []TaskStatusCount
	err := r.db.Model(&models.Task{}).
		Select("project_id, status, COUNT(id) AS count").
		Where("project_id IN ?", projectIDs).
		Group("project_id").Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CountByProjects returns total and not-done task counts across the given projects
func (r *GormTaskRepository) CountByProjects(projectIDs []uint64) (int64, int64, error) {
	if len(projectIDs) == 0 {
		return 0, 0, nil
	}

	var total int64
	if err := r.db.Model(&models.Task{}).
		Where("project_id IN ?", projectIDs).
		Count(&total).Error; err != nil {
		return 0, 0, err
	}

	var open int64
	if err := r.db.Model(&models.Task{}).
		Where("project_id IN ?", projectIDs).
		Where("status <> ?", models.TaskStatusDone).
		Count(&open).Error; err != nil {
		return 0, 0, err
	}

	return total, open, nil
}
