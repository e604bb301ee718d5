package services

import (
	"errors"
	"fmt"

	"github.com/yukikurage/project-tracker-api/internal/models"
	"github.com/yukikurage/project-tracker-api/internal/repository"
	"github.com/yukikurage/project-tracker-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrInvalidRole       = errors.New("invalid role")
	ErrLastAdmin         = errors.New("the last remaining admin cannot be demoted")
	ErrCannotSuspendSelf = errors.New("cannot suspend your own account")
)

// AdminService handles user administration: approval, global role
// changes, and account suspension.
type AdminService struct {
	userRepo repository.UserRepository
}

// NewAdminService creates a new AdminService.
func NewAdminService(userRepo repository.UserRepository) *AdminService {
	return &AdminService{
		userRepo: userRepo,
	}
}

// ListUsers returns one page of users ordered by ID.
func (s *AdminService) ListUsers(params utils.PaginationParams) ([]models.User, int64, error) {
	users, total, err := s.userRepo.List(params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// Approve marks a user approved, active, unlocked, and resets the failed
// login counter. Approving an already approved user is a no-op rewrite.
func (s *AdminService) Approve(targetID uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	user.IsApproved = true
	user.IsActive = true
	user.IsLocked = false
	user.FailedLoginAttempts = 0

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to approve user: %w", err)
	}

	return user, nil
}

// ChangeRole sets a user's global role. Demoting the sole remaining
// admin is blocked so the system can never lose its last admin.
func (s *AdminService) ChangeRole(targetID uint64, newRole string) (*models.User, error) {
	if !models.IsValidGlobalRole(newRole) {
		return nil, ErrInvalidRole
	}
	role := models.GlobalRole(newRole)

	user, err := s.userRepo.FindByID(targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if user.Role == models.GlobalRoleAdmin && role != models.GlobalRoleAdmin {
		adminCount, err := s.userRepo.CountByRole(models.GlobalRoleAdmin)
		if err != nil {
			return nil, fmt.Errorf("failed to count admins: %w", err)
		}
		if adminCount <= 1 {
			return nil, ErrLastAdmin
		}
	}

	user.Role = role
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to change role: %w", err)
	}

	return user, nil
}

// ToggleActive flips a user's active flag. Admins cannot suspend
// themselves.
func (s *AdminService) ToggleActive(actor *models.User, targetID uint64) (*models.User, error) {
	if actor != nil && actor.ID == targetID {
		return nil, ErrCannotSuspendSelf
	}

	user, err := s.userRepo.FindByID(targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	user.IsActive = !user.IsActive
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to toggle active state: %w", err)
	}

	return user, nil
}

// PendingApprovalCount returns how many users await approval.
func (s *AdminService) PendingApprovalCount() (int64, error) {
	count, err := s.userRepo.CountPendingApproval()
	if err != nil {
		return 0, fmt.Errorf("failed to count pending users: %w", err)
	}
	return count, nil
}
