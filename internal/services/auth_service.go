package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/yukikurage/project-tracker-api/internal/constants"
	"github.com/yukikurage/project-tracker-api/internal/models"
	"github.com/yukikurage/project-tracker-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmployeeIDNotNumeric = errors.New("employee id must be numeric")
	ErrNameRequired         = errors.New("name is required")
	ErrInvalidPassword      = errors.New("password must contain letters and digits and be at least 8 characters")
	ErrEmployeeIDTaken      = errors.New("employee id is already registered")
	ErrUserNotFound         = errors.New("user not found")
	ErrUserNotApproved      = errors.New("account is awaiting admin approval")
	ErrUserInactive         = errors.New("account is suspended")
	ErrUserLocked           = errors.New("account is locked")
	ErrInvalidCredentials   = errors.New("invalid password")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToCreateUser   = errors.New("failed to create user")
)

// AuthService handles registration and credential verification.
type AuthService struct {
	userRepo repository.UserRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{
		userRepo: userRepo,
	}
}

// RegisterInput represents the required information to create a new user.
// EmployeeID arrives as the raw form value and is validated here.
type RegisterInput struct {
	EmployeeID string
	Name       string
	Password   string
}

// isValidPassword enforces the signup password policy: at least one
// letter, at least one digit, minimum length from constants. The
// user-facing message historically claims 8 characters; the enforced
// minimum stays at its original value.
func isValidPassword(password string) bool {
	if len(password) < constants.MinPasswordLength {
		return false
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

// Register creates a new user awaiting admin approval.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	employeeIDStr := strings.TrimSpace(input.EmployeeID)
	employeeID, err := strconv.ParseUint(employeeIDStr, 10, 64)
	if err != nil || employeeIDStr == "" {
		return nil, ErrEmployeeIDNotNumeric
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	if !isValidPassword(input.Password) {
		return nil, ErrInvalidPassword
	}

	if _, err := s.userRepo.FindByEmployeeID(employeeID); err == nil {
		return nil, ErrEmployeeIDTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check employee id: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		EmployeeID:   employeeID,
		Name:         name,
		PasswordHash: string(hashedPassword),
		Role:         models.GlobalRoleMember,
		IsApproved:   false,
		IsActive:     false,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, ErrFailedToCreateUser
	}

	return user, nil
}

// AuthenticateInput holds the credentials for login.
type AuthenticateInput struct {
	EmployeeID string
	Password   string
}

// Authenticate verifies credentials and account state. The checks run in
// a fixed order because the first failing gate decides which message the
// user sees: not found, not approved, inactive, locked, bad password.
func (s *AuthService) Authenticate(input AuthenticateInput) (*models.User, error) {
	employeeID, err := strconv.ParseUint(strings.TrimSpace(input.EmployeeID), 10, 64)
	if err != nil {
		return nil, ErrEmployeeIDNotNumeric
	}

	user, err := s.userRepo.FindByEmployeeID(employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !user.IsApproved {
		return nil, ErrUserNotApproved
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if user.IsLocked {
		return nil, ErrUserLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a user by internal ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}
