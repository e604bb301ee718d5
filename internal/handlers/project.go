package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/project-tracker-api/internal/errors"
	"github.com/yukikurage/project-tracker-api/internal/middleware"
	"github.com/yukikurage/project-tracker-api/internal/services"
)

// ProjectHandler exposes project and membership endpoints.
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// CreateProject creates a project; the creator becomes its owner.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateProjectRequest struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(actor, req.Name, req.Description)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// ListProjects returns the projects visible to the actor with task counts.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	summaries, err := h.projectService.ListProjects(actor)
	if err != nil {
		apierrors.InternalError(c, "Failed to list projects")
		return
	}

	summaryDTOs := make([]dto.ProjectSummaryDTO, len(summaries))
	for i, summary := range summaries {
		summaryDTOs[i] = dto.ToProjectSummaryDTO(summary)
	}

	c.JSON(http.StatusOK, gin.H{"projects": summaryDTOs})
}

// GetProject returns the project loaded by RequireProjectAccess.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(project))
}

// ListMembers returns the project's members.
func (h *ProjectHandler) ListMembers(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "")
		return
	}

	members, err := h.projectService.ListMembers(project.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to list members")
		return
	}

	memberDTOs := make([]dto.ProjectMemberDTO, len(members))
	for i, member := range members {
		memberDTOs[i] = dto.ToProjectMemberDTO(member)
	}

	c.JSON(http.StatusOK, gin.H{"members": memberDTOs})
}

// AddMember adds a user to the project by employee number.
func (h *ProjectHandler) AddMember(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "")
		return
	}

	type AddMemberRequest struct {
		EmployeeID string `json:"employee_id" binding:"required"`
		Role       string `json:"role"`
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, "Invalid request body")
		return
	}

	member, err := h.projectService.AddMember(actor, middleware.GetProjectMembership(c), services.AddMemberInput{
		ProjectID:  project.ID,
		EmployeeID: req.EmployeeID,
		Role:       req.Role,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectMemberDTO(*member))
}

// RemoveMember deletes a membership from the project.
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "")
		return
	}

	membershipID, err := strconv.ParseUint(c.Param("member_id"), 10, 64)
	if err != nil {
		apierrors.ValidationFailed(c, "Invalid member ID")
		return
	}

	err = h.projectService.RemoveMember(actor, middleware.GetProjectMembership(c), project.ID, membershipID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member removed"})
}

// ChangeMemberRole sets a member's project role.
func (h *ProjectHandler) ChangeMemberRole(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "")
		return
	}

	membershipID, err := strconv.ParseUint(c.Param("member_id"), 10, 64)
	if err != nil {
		apierrors.ValidationFailed(c, "Invalid member ID")
		return
	}

	type ChangeMemberRoleRequest struct {
		Role string `json:"role" binding:"required"`
	}

	var req ChangeMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, "Invalid request body")
		return
	}

	member, err := h.projectService.ChangeMemberRole(actor, middleware.GetProjectMembership(c), project.ID, membershipID, req.Role)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectMemberDTO(*member))
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNameRequired),
		errors.Is(err, services.ErrEmployeeIDNotNumeric),
		errors.Is(err, services.ErrInvalidMemberRole):
		apierrors.ValidationFailed(c, err.Error())
	case errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrMembershipNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrAlreadyMember):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrMemberManagementDenied),
		errors.Is(err, services.ErrMemberNotApproved),
		errors.Is(err, services.ErrMemberInactive),
		errors.Is(err, services.ErrMemberLocked),
		errors.Is(err, services.ErrCannotRemoveSelf),
		errors.Is(err, services.ErrCannotRemoveAdminMember),
		errors.Is(err, services.ErrCannotRemoveOwner),
		errors.Is(err, services.ErrLeaderCannotRemoveOwner),
		errors.Is(err, services.ErrCannotChangeOwnRole):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrMembershipRemovalFailed):
		apierrors.TransientStoreFailure(c, err.Error())
	case errors.Is(err, services.ErrFailedToCreateProject),
		errors.Is(err, services.ErrFailedToCreateMembership):
		apierrors.InternalError(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
