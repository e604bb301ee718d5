package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-tracker-api/internal/models"
	"github.com/yukikurage/project-tracker-api/internal/repository"
	"gorm.io/gorm"
)

func newProjectService(t *testing.T) (*ProjectService, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	svc := NewProjectService(
		repository.NewProjectRepository(db),
		repository.NewUserRepository(db),
		repository.NewTaskRepository(db),
	)
	return svc, db
}

func TestCreateProjectMakesActorOwner(t *testing.T) {
	svc, db := newProjectService(t)
	actor := createActiveUser(t, db, 1001, "山田太郎", models.GlobalRoleLeader)

	project, err := svc.CreateProject(actor, "  新規開発  ", "desc")
	require.NoError(t, err)
	require.Equal(t, "新規開発", project.Name)

	member, err := svc.FindMembership(project.ID, actor.ID)
	require.NoError(t, err)
	require.NotNil(t, member)
	require.Equal(t, models.ProjectRoleOwner, member.Role)
}

func TestCreateProjectRequiresName(t *testing.T) {
	svc, db := newProjectService(t)
	actor := createActiveUser(t, db, 1001, "X", models.GlobalRoleLeader)

	_, err := svc.CreateProject(actor, "   ", "")
	require.ErrorIs(t, err, ErrProjectNameRequired)
}

func TestListProjectsVisibility(t *testing.T) {
	svc, db := newProjectService(t)
	admin := createActiveUser(t, db, 1, "Admin", models.GlobalRoleAdmin)
	owner := createActiveUser(t, db, 2, "Owner", models.GlobalRoleLeader)
	outsider := createActiveUser(t, db, 3, "Outsider", models.GlobalRoleMember)

	p1 := createTestProject(t, db, "P1", owner.ID)
	createTestProject(t, db, "P2", admin.ID)

	// Admin sees every project regardless of membership.
	all, err := svc.ListProjects(admin)
	require.NoError(t, err)
	require.Len(t, all, 2)

	// Members only see projects they belong to.
	mine, err := svc.ListProjects(owner)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, p1.ID, mine[0].Project.ID)

	none, err := svc.ListProjects(outsider)
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestListProjectsTaskCounts(t *testing.T) {
	svc, db := newProjectService(t)
	owner := createActiveUser(t, db, 2, "Owner", models.GlobalRoleLeader)
	project := createTestProject(t, db, "P1", owner.ID)

	statuses := []models.TaskStatus{
		models.TaskStatusTodo, models.TaskStatusTodo,
		models.TaskStatusDoing,
		models.TaskStatusDone, models.TaskStatusDone, models.TaskStatusDone,
	}
	for _, st := range statuses {
		task := &models.Task{ProjectID: project.ID, Title: "t", Status: st, Priority: models.TaskPriorityMid, CreatorID: owner.ID}
		require.NoError(t, db.Create(task).Error)
	}

	summaries, err := svc.ListProjects(owner)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.Equal(t, int64(2), summaries[0].TodoCount)
	require.Equal(t, int64(1), summaries[0].DoingCount)
	require.Equal(t, int64(3), summaries[0].DoneCount)
}

func TestAddMemberRequiresManagementRights(t *testing.T) {
	svc, db := newProjectService(t)
	owner := createActiveUser(t, db, 2, "Owner", models.GlobalRoleLeader)
	plain := createActiveUser(t, db, 3, "Plain", models.GlobalRoleMember)
	createActiveUser(t, db, 4, "Target", models.GlobalRoleMember)
	project := createTestProject(t, db, "P", owner.ID)
	plainMembership := createMembership(t, db, project.ID, plain.ID, models.ProjectRoleMember)

	_, err := svc.AddMember(plain, plainMembership, AddMemberInput{
		ProjectID:  project.ID,
		EmployeeID: "4",
		Role:       "member",
	})
	require.ErrorIs(t, err, ErrMemberManagementDenied)
}

func TestAddMemberAccountGates(t *testing.T) {
	svc, db := newProjectService(t)
	owner := createActiveUser(t, db, 2, "Owner", models.GlobalRoleLeader)
	project := createTestProject(t, db, "P", owner.ID)
	ownerMembership, err := svc.FindMembership(project.ID, owner.ID)
	require.NoError(t, err)

	createTestUser(t, db, userSpec{employeeID: 10, name: "Pending", role: models.GlobalRoleMember})
	createTestUser(t, db, userSpec{employeeID: 11, name: "Suspended", role: models.GlobalRoleMember, approved: true})
	createTestUser(t, db, userSpec{employeeID: 12, name: "Locked", role: models.GlobalRoleMember, approved: true, active: true, locked: true})

	cases := []struct {
		employeeID string
		wantErr    error
	}{
		{"abc", ErrEmployeeIDNotNumeric},
		{"9999", ErrUserNotFound},
		{"10", ErrMemberNotApproved},
		{"11", ErrMemberInactive},
		{"12", ErrMemberLocked},
	}
	for _, tc := range cases {
		_, err := svc.AddMember(owner, ownerMembership, AddMemberInput{
			ProjectID:  project.ID,
			EmployeeID: tc.employeeID,
			Role:       "member",
		})
		require.ErrorIs(t, err, tc.wantErr, "employee id %q", tc.employeeID)
	}
}

func TestAddMemberClampsRoleAndRejectsDuplicates(t *testing.T) {
	svc, db := newProjectService(t)
	owner := createActiveUser(t, db, 2, "Owner", models.GlobalRoleLeader)
	target := createActiveUser(t, db, 1001, "Target", models.GlobalRoleMember)
	project := createTestProject(t, db, "P", owner.ID)
	ownerMembership, err := svc.FindMembership(project.ID, owner.ID)
	require.NoError(t, err)

	// Unknown role collapses to member; owner is not assignable here either.
	member, err := svc.AddMember(owner, ownerMembership, AddMemberInput{
		ProjectID:  project.ID,
		EmployeeID: "1001",
		Role:       "supervisor",
	})
	require.NoError(t, err)
	require.Equal(t, models.ProjectRoleMember, member.Role)
	require.Equal(t, target.ID, member.UserID)

	_, err = svc.AddMember(owner, ownerMembership, AddMemberInput{
		ProjectID:  project.ID,
		EmployeeID: "1001",
		Role:       "member",
	})
	require.ErrorIs(t, err, ErrAlreadyMember)
}

func TestAddMemberGlobalAdminNeedsNoMembership(t *testing.T) {
	svc, db := newProjectService(t)
	admin := createActiveUser(t, db, 1, "Admin", models.GlobalRoleAdmin)
	owner := createActiveUser(t, db, 2, "Owner", models.GlobalRoleLeader)
	target := createActiveUser(t, db, 1001, "Target", models.GlobalRoleMember)
	project := createTestProject(t, db, "P", owner.ID)

	member, err := svc.AddMember(admin, nil, AddMemberInput{
		ProjectID:  project.ID,
		EmployeeID: "1001",
		Role:       "leader",
	})
	require.NoError(t, err)
	require.Equal(t, models.ProjectRoleLeader, member.Role)
	require.Equal(t, target.ID, member.UserID)
}

func TestRemoveMemberRejectionRules(t *testing.T) {
	svc, db := newProjectService(t)
	adminUser := createActiveUser(t, db, 1, "Admin", models.GlobalRoleAdmin)
	owner := createActiveUser(t, db, 2, "Owner", models.GlobalRoleLeader)
	leader := createActiveUser(t, db, 3, "Leader", models.GlobalRoleMember)
	project := createTestProject(t, db, "P", owner.ID)
	ownerMembership, err := svc.FindMembership(project.ID, owner.ID)
	require.NoError(t, err)

	adminMembership := createMembership(t, db, project.ID, adminUser.ID, models.ProjectRoleMember)
	leaderMembership := createMembership(t, db, project.ID, leader.ID, models.ProjectRoleLeader)

	// Rule 1: never remove yourself.
	err = svc.RemoveMember(owner, ownerMembership, project.ID, ownerMembership.ID)
	require.ErrorIs(t, err, ErrCannotRemoveSelf)

	// Rule 2: only admins may remove a global admin's membership.
	err = svc.RemoveMember(owner, ownerMembership, project.ID, adminMembership.ID)
	require.ErrorIs(t, err, ErrCannotRemoveAdminMember)

	// Rule 3: only admins may remove the owner.
	err = svc.RemoveMember(leader, leaderMembership, project.ID, ownerMembership.ID)
	require.ErrorIs(t, err, ErrCannotRemoveOwner)
}

func TestRemoveMemberByAdminSucceeds(t *testing.T) {
	svc, db := newProjectService(t)
	adminUser := createActiveUser(t, db, 1, "Admin", models.GlobalRoleAdmin)
	owner := createActiveUser(t, db, 2, "Owner", models.GlobalRoleLeader)
	project := createTestProject(t, db, "P", owner.ID)
	ownerMembership, err := svc.FindMembership(project.ID, owner.ID)
	require.NoError(t, err)

	// Admins may remove even the project owner.
	err = svc.RemoveMember(adminUser, nil, project.ID, ownerMembership.ID)
	require.NoError(t, err)

	gone, err := svc.FindMembership(project.ID, owner.ID)
	require.NoError(t, err)
	require.Nil(t, gone)
}

func TestRemoveMemberOrdinaryTarget(t *testing.T) {
	svc, db := newProjectService(t)
	owner := createActiveUser(t, db, 2, "Owner", models.GlobalRoleLeader)
	member := createActiveUser(t, db, 3, "Member", models.GlobalRoleMember)
	project := createTestProject(t, db, "P", owner.ID)
	ownerMembership, err := svc.FindMembership(project.ID, owner.ID)
	require.NoError(t, err)
	targetMembership := createMembership(t, db, project.ID, member.ID, models.ProjectRoleMember)

	require.NoError(t, svc.RemoveMember(owner, ownerMembership, project.ID, targetMembership.ID))

	err = svc.RemoveMember(owner, ownerMembership, project.ID, targetMembership.ID)
	require.ErrorIs(t, err, ErrMembershipNotFound)
}

func TestChangeMemberRole(t *testing.T) {
	svc, db := newProjectService(t)
	owner := createActiveUser(t, db, 2, "Owner", models.GlobalRoleLeader)
	member := createActiveUser(t, db, 3, "Member", models.GlobalRoleMember)
	project := createTestProject(t, db, "P", owner.ID)
	ownerMembership, err := svc.FindMembership(project.ID, owner.ID)
	require.NoError(t, err)
	targetMembership := createMembership(t, db, project.ID, member.ID, models.ProjectRoleMember)

	// Ownership never moves through this path.
	_, err = svc.ChangeMemberRole(owner, ownerMembership, project.ID, targetMembership.ID, "owner")
	require.ErrorIs(t, err, ErrInvalidMemberRole)

	_, err = svc.ChangeMemberRole(owner, ownerMembership, project.ID, ownerMembership.ID, "leader")
	require.ErrorIs(t, err, ErrCannotChangeOwnRole)

	updated, err := svc.ChangeMemberRole(owner, ownerMembership, project.ID, targetMembership.ID, "leader")
	require.NoError(t, err)
	require.Equal(t, models.ProjectRoleLeader, updated.Role)
}

func TestGetProjectNotFound(t *testing.T) {
	svc, _ := newProjectService(t)

	_, err := svc.GetProject(9999)
	require.ErrorIs(t, err, ErrProjectNotFound)
}

func TestMemberProjectIDs(t *testing.T) {
	svc, db := newProjectService(t)
	owner := createActiveUser(t, db, 2, "Owner", models.GlobalRoleLeader)
	p1 := createTestProject(t, db, "P1", owner.ID)
	p2 := createTestProject(t, db, "P2", owner.ID)

	ids, err := svc.MemberProjectIDs(owner.ID)
	require.NoError(t, err)
	require.ElementsMatch(t, []uint64{p1.ID, p2.ID}, ids)
}
