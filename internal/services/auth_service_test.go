package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-tracker-api/internal/models"
	"github.com/yukikurage/project-tracker-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(t *testing.T) (*AuthService, *AdminService) {
	t.Helper()

	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	return NewAuthService(userRepo), NewAdminService(userRepo)
}

func TestRegisterCreatesPendingUser(t *testing.T) {
	svc, _ := newAuthService(t)

	user, err := svc.Register(RegisterInput{
		EmployeeID: "1001",
		Name:       "山田太郎",
		Password:   "abc123",
	})
	require.NoError(t, err)

	require.Equal(t, uint64(1001), user.EmployeeID)
	require.Equal(t, "山田太郎", user.Name)
	require.Equal(t, models.GlobalRoleMember, user.Role)
	require.False(t, user.IsApproved)
	require.False(t, user.IsActive)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("abc123")))
}

func TestRegisterRejectsNonNumericEmployeeID(t *testing.T) {
	svc, _ := newAuthService(t)

	for _, id := range []string{"", "abc", "10a1", "-5"} {
		_, err := svc.Register(RegisterInput{EmployeeID: id, Name: "X", Password: "abc123"})
		require.ErrorIs(t, err, ErrEmployeeIDNotNumeric, "employee id %q", id)
	}
}

func TestRegisterRejectsEmptyName(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Register(RegisterInput{EmployeeID: "1001", Name: "   ", Password: "abc123"})
	require.ErrorIs(t, err, ErrNameRequired)
}

func TestRegisterPasswordPolicy(t *testing.T) {
	svc, _ := newAuthService(t)

	rejected := []string{
		"abcdef", // no digit
		"123456", // no letter
		"a1",     // too short
		"",       // empty
	}
	for _, pw := range rejected {
		_, err := svc.Register(RegisterInput{EmployeeID: "1001", Name: "X", Password: pw})
		require.ErrorIs(t, err, ErrInvalidPassword, "password %q", pw)
	}

	// Six characters with a letter and a digit is the floor.
	_, err := svc.Register(RegisterInput{EmployeeID: "1001", Name: "X", Password: "abc12x"})
	require.NoError(t, err)
}

func TestRegisterRejectsDuplicateEmployeeID(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Register(RegisterInput{EmployeeID: "1001", Name: "First", Password: "abc123"})
	require.NoError(t, err)

	_, err = svc.Register(RegisterInput{EmployeeID: "1001", Name: "Second", Password: "abc123"})
	require.ErrorIs(t, err, ErrEmployeeIDTaken)
}

func TestAuthenticateGateOrder(t *testing.T) {
	svc, admin := newAuthService(t)

	_, err := svc.Authenticate(AuthenticateInput{EmployeeID: "9999", Password: "abc123"})
	require.ErrorIs(t, err, ErrUserNotFound)

	user, err := svc.Register(RegisterInput{EmployeeID: "1001", Name: "山田太郎", Password: "abc123"})
	require.NoError(t, err)

	// Fresh signup is unapproved.
	_, err = svc.Authenticate(AuthenticateInput{EmployeeID: "1001", Password: "abc123"})
	require.ErrorIs(t, err, ErrUserNotApproved)

	_, err = admin.Approve(user.ID)
	require.NoError(t, err)

	authed, err := svc.Authenticate(AuthenticateInput{EmployeeID: "1001", Password: "abc123"})
	require.NoError(t, err)
	require.Equal(t, user.ID, authed.ID)

	// Wrong password on a usable account.
	_, err = svc.Authenticate(AuthenticateInput{EmployeeID: "1001", Password: "wrong1"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateInactiveBeforeLocked(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db))

	// Approved but suspended and locked: the inactive gate answers first.
	createTestUser(t, db, userSpec{
		employeeID: 1002,
		name:       "鈴木",
		role:       models.GlobalRoleMember,
		approved:   true,
		active:     false,
		locked:     true,
	})

	_, err := svc.Authenticate(AuthenticateInput{EmployeeID: "1002", Password: "abc123"})
	require.ErrorIs(t, err, ErrUserInactive)
}

func TestAuthenticateLockedAccount(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db))

	createTestUser(t, db, userSpec{
		employeeID: 1003,
		name:       "佐藤",
		role:       models.GlobalRoleMember,
		approved:   true,
		active:     true,
		locked:     true,
	})

	_, err := svc.Authenticate(AuthenticateInput{EmployeeID: "1003", Password: "abc123"})
	require.ErrorIs(t, err, ErrUserLocked)
}

func TestGetUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db))

	user := createActiveUser(t, db, 1001, "山田太郎", models.GlobalRoleMember)

	found, err := svc.GetUser(user.ID)
	require.NoError(t, err)
	require.Equal(t, user.EmployeeID, found.EmployeeID)

	_, err = svc.GetUser(9999)
	require.ErrorIs(t, err, ErrUserNotFound)
}
