package middleware

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-tracker-api/internal/database"
	apierrors "github.com/yukikurage/project-tracker-api/internal/errors"
	"github.com/yukikurage/project-tracker-api/internal/models"
	"github.com/yukikurage/project-tracker-api/internal/policy"
	"gorm.io/gorm"
)

// RequireProjectAccess loads the project from the :id URL parameter and
// verifies the actor may access it. The project and the actor's
// membership (nil for admins without one) are stored in the context.
func RequireProjectAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		projectIDStr := c.Param("id")
		projectID, err := strconv.ParseUint(projectIDStr, 10, 64)
		if err != nil {
			apierrors.ValidationFailed(c, "Invalid project ID")
			c.Abort()
			return
		}

		user, ok := CurrentUser(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var project models.Project
		if err := database.GetDB().First(&project, projectID).Error; err != nil {
			apierrors.NotFound(c, "Project not found")
			c.Abort()
			return
		}

		var membership *models.ProjectMember
		var m models.ProjectMember
		err = database.GetDB().
			Where("project_id = ? AND user_id = ?", projectID, user.ID).
			First(&m).Error
		switch {
		case err == nil:
			membership = &m
		case errors.Is(err, gorm.ErrRecordNotFound):
			membership = nil
		default:
			apierrors.InternalError(c, "")
			c.Abort()
			return
		}

		if !policy.CanAccessProject(user, membership) {
			apierrors.Forbidden(c, "No access to this project")
			c.Abort()
			return
		}

		c.Set("project", project)
		c.Set("project_membership", membership)
		c.Next()
	}
}

// GetProject retrieves the project loaded by RequireProjectAccess.
func GetProject(c *gin.Context) (models.Project, bool) {
	v, exists := c.Get("project")
	if !exists {
		return models.Project{}, false
	}
	project, ok := v.(models.Project)
	return project, ok
}

// GetProjectMembership retrieves the actor's membership loaded by
// RequireProjectAccess. The membership is nil for global admins who do
// not belong to the project.
func GetProjectMembership(c *gin.Context) *models.ProjectMember {
	v, exists := c.Get("project_membership")
	if !exists {
		return nil
	}
	membership, ok := v.(*models.ProjectMember)
	if !ok {
		return nil
	}
	return membership
}
