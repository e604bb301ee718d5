package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/project-tracker-api/internal/errors"
	"github.com/yukikurage/project-tracker-api/internal/middleware"
	"github.com/yukikurage/project-tracker-api/internal/services"
)

// JournalHandler exposes the per-project journal endpoints.
type JournalHandler struct {
	journalService *services.JournalService
}

// NewJournalHandler creates a new JournalHandler.
func NewJournalHandler(journalService *services.JournalService) *JournalHandler {
	return &JournalHandler{
		journalService: journalService,
	}
}

// ReadJournal returns the newest journal entries, grouped by task.
func (h *JournalHandler) ReadJournal(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "")
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			apierrors.ValidationFailed(c, "Invalid limit")
			return
		}
		limit = n
	}

	entries, err := h.journalService.Read(project.ID, limit)
	if err != nil {
		apierrors.InternalError(c, "Failed to read journal")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"groups":  services.Group(entries),
	})
}

// AppendJournal writes one entry on behalf of the actor.
func (h *JournalHandler) AppendJournal(c *gin.Context) {
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

	type AppendRequest struct {
		Content string `json:"content" binding:"required"`
		TaskID  string `json:"task_id"`
	}

	var req AppendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, "Invalid request body")
		return
	}

	err := h.journalService.Append(actor, services.AppendInput{
		ProjectID: project.ID,
		Content:   req.Content,
		TaskID:    req.TaskID,
	})
	if err != nil {
		respondJournalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Journal entry added"})
}

// ClearJournal truncates the project journal. Admin only.
func (h *JournalHandler) ClearJournal(c *gin.Context) {
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

	if err := h.journalService.Clear(actor, project.ID); err != nil {
		respondJournalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Journal cleared"})
}

func respondJournalError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrJournalContentRequired):
		apierrors.ValidationFailed(c, err.Error())
	case errors.Is(err, services.ErrJournalClearDenied):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
