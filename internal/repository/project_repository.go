package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/project-tracker-api/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrCreateProject is returned when creating a project fails inside the creation transaction.
	ErrCreateProject = errors.New("project repository: create project failed")
	// ErrCreateOwnerMembership is returned when creating the owner membership fails inside the creation transaction.
	ErrCreateOwnerMembership = errors.New("project repository: create owner membership failed")
	// ErrRemoveMembership is returned when deleting a membership fails; the transaction is rolled back.
	ErrRemoveMembership = errors.New("project repository: remove membership failed")
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// CreateWithOwner creates a project and the creator's owner membership atomically.
func (r *GormProjectRepository) CreateWithOwner(project *models.Project, ownerID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateProject, err)
		}

		member := &models.ProjectMember{
			ProjectID: project.ID,
			UserID:    ownerID,
			Role:      models.ProjectRoleOwner,
			JoinedAt:  time.Now(),
		}

		if err := tx.Create(member).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateOwnerMembership, err)
		}

		return nil
	})
}

// FindByID finds a project by ID
func (r *GormProjectRepository) FindByID(id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// ListAll lists every project
func (r *GormProjectRepository) ListAll() ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// ListByUserID lists projects the user is a member of
func (r *GormProjectRepository) ListByUserID(userID uint64) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.
		Joins("JOIN project_members ON project_members.project_id = projects.id").
		Where("project_members.user_id = ?", userID).
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// AddMember adds a membership
func (r *GormProjectRepository) AddMember(member *models.ProjectMember) error {
	return r.db.Create(member).Error
}

// FindMember finds the membership of a user in a project
func (r *GormProjectRepository) FindMember(projectID, userID uint64) (*models.ProjectMember, error) {
	var member models.ProjectMember
	if err := r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// FindMembershipByID finds a membership by its own ID within a project
func (r *GormProjectRepository) FindMembershipByID(projectID, membershipID uint64) (*models.ProjectMember, error) {
	var member models.ProjectMember
	if err := r.db.Preload("User").
		Where("id = ? AND project_id = ?", membershipID, projectID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembers lists all memberships of a project with users preloaded
func (r *GormProjectRepository) ListMembers(projectID uint64) ([]models.ProjectMember, error) {
	var members []models.ProjectMember
	if err := r.db.Preload("User").
		Where("project_id = ?", projectID).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// RemoveMembership deletes a membership inside a transaction. A failure
// rolls the transaction back and is reported as ErrRemoveMembership.
func (r *GormProjectRepository) RemoveMembership(membershipID uint64) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Delete(&models.ProjectMember{}, membershipID).Error
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemoveMembership, err)
	}
	return nil
}

// UpdateMembership persists changes to a membership
func (r *GormProjectRepository) UpdateMembership(member *models.ProjectMember) error {
	return r.db.Save(member).Error
}
