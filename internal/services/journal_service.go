package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yukikurage/project-tracker-api/internal/constants"
	"github.com/yukikurage/project-tracker-api/internal/journal"
	"github.com/yukikurage/project-tracker-api/internal/models"
	"github.com/yukikurage/project-tracker-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrJournalContentRequired = errors.New("journal content is required")
	ErrJournalClearDenied     = errors.New("only admins can clear a journal")
)

// EntryGroup bundles journal entries sharing a task-title snapshot.
// Entries without a task reference fall into the general group.
type EntryGroup struct {
	Key     string          `json:"key"`
	Entries []journal.Entry `json:"entries"`
}

// JournalService handles the per-project activity journal.
type JournalService struct {
	store    *journal.Store
	taskRepo repository.TaskRepository
}

// NewJournalService creates a new JournalService.
func NewJournalService(store *journal.Store, taskRepo repository.TaskRepository) *JournalService {
	return &JournalService{
		store:    store,
		taskRepo: taskRepo,
	}
}

// AppendInput represents one journal posting. TaskID is the raw form
// value; a non-numeric or unknown task silently drops the reference,
// the posting itself still succeeds.
type AppendInput struct {
	ProjectID uint64
	Content   string
	TaskID    string
}

// Append writes one entry to the project journal on behalf of the actor.
func (s *JournalService) Append(actor *models.User, input AppendInput) error {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return ErrJournalContentRequired
	}

	var taskID uint64
	var taskTitle string
	if raw := strings.TrimSpace(input.TaskID); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			task, err := s.taskRepo.FindInProject(input.ProjectID, id)
			if err == nil {
				taskID = task.ID
				taskTitle = task.Title
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to resolve task reference: %w", err)
			}
		}
	}

	author := journal.FormatAuthor(actor.Name, actor.EmployeeID)
	entry := journal.FormatEntry(time.Now(), author, taskID, taskTitle, content)

	if err := s.store.Append(input.ProjectID, entry); err != nil {
		return fmt.Errorf("failed to append journal entry: %w", err)
	}
	return nil
}

// Read returns the newest entries of a project journal, up to limit
// (the default display limit when limit is zero or negative).
func (s *JournalService) Read(projectID uint64, limit int) ([]journal.Entry, error) {
	if limit <= 0 {
		limit = constants.JournalEntryLimit
	}

	entries, err := s.store.Read(projectID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	return entries, nil
}

// Group buckets entries by task-title snapshot, preserving entry order
// inside each group and group order by first appearance.
func Group(entries []journal.Entry) []EntryGroup {
	groups := []EntryGroup{}
	index := map[string]int{}

	for _, e := range entries {
		key := constants.JournalGeneralGroup
		if e.TaskID > 0 {
			key = e.TaskTitle
		}

		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, EntryGroup{Key: key})
		}
		groups[i].Entries = append(groups[i].Entries, e)
	}
	return groups
}

// Clear truncates a project journal. Admin only.
func (s *JournalService) Clear(actor *models.User, projectID uint64) error {
	if actor == nil || actor.Role != models.GlobalRoleAdmin {
		return ErrJournalClearDenied
	}

	if err := s.store.Clear(projectID); err != nil {
		return fmt.Errorf("failed to clear journal: %w", err)
	}
	return nil
}
