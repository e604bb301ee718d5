package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-tracker-api/internal/models"
	"github.com/yukikurage/project-tracker-api/internal/repository"
	"github.com/yukikurage/project-tracker-api/internal/utils"
	"gorm.io/gorm"
)

func newAdminService(t *testing.T) (*AdminService, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	return NewAdminService(repository.NewUserRepository(db)), db
}

func TestApproveActivatesAndUnlocks(t *testing.T) {
	svc, db := newAdminService(t)

	user := createTestUser(t, db, userSpec{
		employeeID: 1001,
		name:       "山田太郎",
		role:       models.GlobalRoleMember,
		locked:     true,
	})
	user.FailedLoginAttempts = 3
	require.NoError(t, db.Save(user).Error)

	approved, err := svc.Approve(user.ID)
	require.NoError(t, err)
	require.True(t, approved.IsApproved)
	require.True(t, approved.IsActive)
	require.False(t, approved.IsLocked)
	require.Zero(t, approved.FailedLoginAttempts)

	// Approving again rewrites the same state.
	again, err := svc.Approve(user.ID)
	require.NoError(t, err)
	require.True(t, again.IsApproved)
	require.True(t, again.IsActive)
}

func TestApproveUnknownUser(t *testing.T) {
	svc, _ := newAdminService(t)

	_, err := svc.Approve(9999)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestChangeRoleValidatesRole(t *testing.T) {
	svc, db := newAdminService(t)
	user := createActiveUser(t, db, 1001, "X", models.GlobalRoleMember)

	_, err := svc.ChangeRole(user.ID, "superuser")
	require.ErrorIs(t, err, ErrInvalidRole)
}

func TestChangeRolePromotesMember(t *testing.T) {
	svc, db := newAdminService(t)
	createActiveUser(t, db, 1, "Admin", models.GlobalRoleAdmin)
	user := createActiveUser(t, db, 1001, "X", models.GlobalRoleMember)

	updated, err := svc.ChangeRole(user.ID, "leader")
	require.NoError(t, err)
	require.Equal(t, models.GlobalRoleLeader, updated.Role)
}

func TestChangeRoleBlocksDemotingLastAdmin(t *testing.T) {
	svc, db := newAdminService(t)
	admin := createActiveUser(t, db, 1, "Admin", models.GlobalRoleAdmin)

	_, err := svc.ChangeRole(admin.ID, "member")
	require.ErrorIs(t, err, ErrLastAdmin)

	// With a second admin the demotion goes through.
	createActiveUser(t, db, 2, "Admin2", models.GlobalRoleAdmin)
	updated, err := svc.ChangeRole(admin.ID, "member")
	require.NoError(t, err)
	require.Equal(t, models.GlobalRoleMember, updated.Role)
}

func TestChangeRoleAdminToAdminSkipsGuard(t *testing.T) {
	svc, db := newAdminService(t)
	admin := createActiveUser(t, db, 1, "Admin", models.GlobalRoleAdmin)

	updated, err := svc.ChangeRole(admin.ID, "admin")
	require.NoError(t, err)
	require.Equal(t, models.GlobalRoleAdmin, updated.Role)
}

func TestToggleActiveRejectsSelf(t *testing.T) {
	svc, db := newAdminService(t)
	admin := createActiveUser(t, db, 1, "Admin", models.GlobalRoleAdmin)

	_, err := svc.ToggleActive(admin, admin.ID)
	require.ErrorIs(t, err, ErrCannotSuspendSelf)
}

func TestToggleActiveFlipsFlag(t *testing.T) {
	svc, db := newAdminService(t)
	admin := createActiveUser(t, db, 1, "Admin", models.GlobalRoleAdmin)
	user := createActiveUser(t, db, 1001, "X", models.GlobalRoleMember)

	suspended, err := svc.ToggleActive(admin, user.ID)
	require.NoError(t, err)
	require.False(t, suspended.IsActive)

	restored, err := svc.ToggleActive(admin, user.ID)
	require.NoError(t, err)
	require.True(t, restored.IsActive)
}

func TestListUsersPagination(t *testing.T) {
	svc, db := newAdminService(t)
	for i := uint64(1); i <= 5; i++ {
		createActiveUser(t, db, 1000+i, "U", models.GlobalRoleMember)
	}

	users, total, err := svc.ListUsers(utils.PaginationParams{Page: 1, Limit: 3, Offset: 0})
	require.NoError(t, err)
	require.Equal(t, int64(5), total)
	require.Len(t, users, 3)

	rest, total, err := svc.ListUsers(utils.PaginationParams{Page: 2, Limit: 3, Offset: 3})
	require.NoError(t, err)
	require.Equal(t, int64(5), total)
	require.Len(t, rest, 2)
}

func TestPendingApprovalCount(t *testing.T) {
	svc, db := newAdminService(t)
	createActiveUser(t, db, 1, "Approved", models.GlobalRoleMember)
	createTestUser(t, db, userSpec{employeeID: 2, name: "Pending1", role: models.GlobalRoleMember})
	createTestUser(t, db, userSpec{employeeID: 3, name: "Pending2", role: models.GlobalRoleMember})

	count, err := svc.PendingApprovalCount()
	require.NoError(t, err)
	require.Equal(t, int64(2), count)
}
