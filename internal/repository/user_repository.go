package repository

import (
	"github.com/yukikurage/project-tracker-api/internal/database"
	"github.com/yukikurage/project-tracker-api/internal/models"
	"github.com/yukikurage/project-tracker-api/internal/utils"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by internal ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmployeeID finds a user by employee number
func (r *GormUserRepository) FindByEmployeeID(employeeID uint64) (*models.User, error) {
	var user models.User
	if err := r.db.Where("employee_id = ?", employeeID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List retrieves one page of users ordered by ID
func (r *GormUserRepository) List(params utils.PaginationParams) ([]models.User, int64, error) {
	var total int64
	if err := r.db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	if err := r.db.Order("id ASC").Scopes(database.Paginate(params)).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Update persists changes to a user
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// CountByRole counts users holding a global role
func (r *GormUserRepository) CountByRole(role models.GlobalRole) (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

// CountPendingApproval counts users awaiting admin approval
func (r *GormUserRepository) CountPendingApproval() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("is_approved = ?", false).Count(&count).Error
	return count, err
}
