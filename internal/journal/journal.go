// Package journal implements the append-only per-project activity log.
//
// Each project owns one flat text file. Entries are appended with a
// header line followed by free-text body lines; the file is parsed back
// into structured entries on read. The store serializes writes per
// project so concurrent appends cannot interleave inside one entry.
package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/yukikurage/project-tracker-api/internal/constants"
)

// Store reads and appends per-project journal files.
type Store struct {
	dir string

	mu    sync.Mutex
	locks map[uint64]*sync.Mutex
}

// NewStore creates a Store rooted at dir. The directory is created on
// first use.
func NewStore(dir string) *Store {
	return &Store{
		dir:   dir,
		locks: make(map[uint64]*sync.Mutex),
	}
}

func (s *Store) path(projectID uint64) string {
	return filepath.Join(s.dir, fmt.Sprintf("project_%d.txt", projectID))
}

// lockFor returns the mutex serializing writes for one project.
func (s *Store) lockFor(projectID uint64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[projectID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[projectID] = l
	}
	return l
}

// Append writes one formatted entry to the project's journal file,
// creating directory and file as needed. Prior content is never rewritten.
func (s *Store) Append(projectID uint64, entry string) error {
	l := s.lockFor(projectID)
	l.Lock()
	defer l.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create journal directory: %w", err)
	}

	f, err := os.OpenFile(s.path(projectID), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open journal file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(entry); err != nil {
		return fmt.Errorf("failed to append journal entry: %w", err)
	}
	return nil
}

// ReadText returns the full journal text for a project. A missing file
// reads as empty.
func (s *Store) ReadText(projectID uint64) (string, error) {
	data, err := os.ReadFile(s.path(projectID))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read journal file: %w", err)
	}
	return string(data), nil
}

// Read parses the project's journal into entries, newest first,
// truncated to limit. A non-positive limit returns all entries.
func (s *Store) Read(projectID uint64, limit int) ([]Entry, error) {
	text, err := s.ReadText(projectID)
	if err != nil {
		return nil, err
	}

	entries := Parse(text)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Clear truncates the project's journal to empty.
func (s *Store) Clear(projectID uint64) error {
	l := s.lockFor(projectID)
	l.Lock()
	defer l.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create journal directory: %w", err)
	}

	if err := os.WriteFile(s.path(projectID), nil, 0o644); err != nil {
		return fmt.Errorf("failed to clear journal file: %w", err)
	}
	return nil
}

// FormatAuthor renders the author display string. The employee number
// is included when known, matching the stored journal format:
// 山田太郎（ID:1001）
func FormatAuthor(name string, employeeID uint64) string {
	if employeeID == 0 {
		return name
	}
	return fmt.Sprintf("%s（ID:%d）", name, employeeID)
}

// FormatEntry renders one entry for appending: a leading blank line, the
// header, then the body. taskID of zero means no task reference.
func FormatEntry(ts time.Time, author string, taskID uint64, taskTitle, body string) string {
	var b strings.Builder
	b.WriteString("\n[")
	b.WriteString(ts.Format(constants.JournalTimeLayout))
	b.WriteString("] ")
	b.WriteString(author)
	if taskID > 0 {
		fmt.Fprintf(&b, " | task:%d:%s", taskID, taskTitle)
	}
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n")
	return b.String()
}
