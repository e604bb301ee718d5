package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/project-tracker-api/internal/errors"
	"github.com/yukikurage/project-tracker-api/internal/middleware"
	"github.com/yukikurage/project-tracker-api/internal/models"
	"github.com/yukikurage/project-tracker-api/internal/services"
)

// DashboardHandler serves the signed-in landing figures: the actor's
// project count, task totals across those projects, and for admins the
// number of users awaiting approval.
type DashboardHandler struct {
	projectService *services.ProjectService
	taskService    *services.TaskService
	adminService   *services.AdminService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(projectService *services.ProjectService, taskService *services.TaskService, adminService *services.AdminService) *DashboardHandler {
	return &DashboardHandler{
		projectService: projectService,
		taskService:    taskService,
		adminService:   adminService,
	}
}

// GetDashboard returns the dashboard counters for the actor.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	projectIDs, err := h.projectService.MemberProjectIDs(actor.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to load dashboard")
		return
	}

	total, open, err := h.taskService.CountAcrossProjects(projectIDs)
	if err != nil {
		apierrors.InternalError(c, "Failed to load dashboard")
		return
	}

	var pending int64
	if actor.Role == models.GlobalRoleAdmin {
		pending, err = h.adminService.PendingApprovalCount()
		if err != nil {
			apierrors.InternalError(c, "Failed to load dashboard")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"project_count":      len(projectIDs),
		"total_task_count":   total,
		"open_task_count":    open,
		"pending_user_count": pending,
	})
}
