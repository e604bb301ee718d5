package dto

import (
	"time"

	"github.com/yukikurage/project-tracker-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID         uint64            `json:"id"`
	EmployeeID uint64            `json:"employee_id"`
	Name       string            `json:"name"`
	Role       models.GlobalRole `json:"role"`
	IsApproved bool              `json:"is_approved"`
	IsActive   bool              `json:"is_active"`
	IsLocked   bool              `json:"is_locked"`
	CreatedAt  time.Time         `json:"created_at"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:         user.ID,
		EmployeeID: user.EmployeeID,
		Name:       user.Name,
		Role:       user.Role,
		IsApproved: user.IsApproved,
		IsActive:   user.IsActive,
		IsLocked:   user.IsLocked,
		CreatedAt:  user.CreatedAt,
	}
}
