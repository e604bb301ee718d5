package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-tracker-api/internal/models"
	"github.com/yukikurage/project-tracker-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Task{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

type userSpec struct {
	employeeID uint64
	name       string
	role       models.GlobalRole
	approved   bool
	active     bool
	locked     bool
}

func createTestUser(t *testing.T, db *gorm.DB, spec userSpec) *models.User {
	t.Helper()

	user := &models.User{
		EmployeeID:   spec.employeeID,
		Name:         spec.name,
		PasswordHash: "test-hash",
		Role:         spec.role,
		IsApproved:   spec.approved,
		IsActive:     spec.active,
		IsLocked:     spec.locked,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createActiveUser(t *testing.T, db *gorm.DB, employeeID uint64, name string, role models.GlobalRole) *models.User {
	t.Helper()
	return createTestUser(t, db, userSpec{
		employeeID: employeeID,
		name:       name,
		role:       role,
		approved:   true,
		active:     true,
	})
}

func createTestProject(t *testing.T, db *gorm.DB, name string, ownerID uint64) *models.Project {
	t.Helper()

	projectRepo := repository.NewProjectRepository(db)
	project := &models.Project{Name: name}
	require.NoError(t, projectRepo.CreateWithOwner(project, ownerID))
	return project
}

func createMembership(t *testing.T, db *gorm.DB, projectID, userID uint64, role models.ProjectRole) *models.ProjectMember {
	t.Helper()

	member := &models.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
	}
	require.NoError(t, db.Create(member).Error)
	return member
}
