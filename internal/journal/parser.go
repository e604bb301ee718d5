package journal

import (
	"regexp"
	"strconv"
	"strings"
)

// Entry is one journal record reconstructed from the stored text.
type Entry struct {
	Timestamp string `json:"timestamp"`
	Author    string `json:"author"`
	TaskID    uint64 `json:"task_id,omitempty"`
	TaskTitle string `json:"task_title,omitempty"`
	Body      string `json:"body"`
}

// A header line looks like:
//
//	[2026-02-16 14:57] 山田太郎（ID:1001） | task:5:バグ修正
//
// The task reference is optional.
var headerRe = regexp.MustCompile(`^\[([\d\-:\s]+)\]\s*(.+?)(?:\s*\|\s*task:(\d+):(.*))?$`)

// Parse reconstructs entries from the raw journal text. Every line that
// matches the header pattern opens a new entry; all other lines,
// malformed ones included, accumulate into the body of the open entry.
// Lines before the first header are dropped. The result is newest first.
func Parse(text string) []Entry {
	entries := []Entry{}
	if text == "" {
		return entries
	}

	var current *Entry
	var body []string

	flush := func() {
		if current == nil {
			return
		}
		current.Body = strings.TrimSpace(strings.Join(body, "\n"))
		entries = append(entries, *current)
		current = nil
		body = nil
	}

	for _, line := range strings.Split(text, "\n") {
		m := headerRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			if current != nil {
				body = append(body, line)
			}
			continue
		}

		flush()
		current = &Entry{
			Timestamp: strings.TrimSpace(m[1]),
			Author:    strings.TrimSpace(m[2]),
		}
		if m[3] != "" {
			id, err := strconv.ParseUint(m[3], 10, 64)
			if err == nil {
				current.TaskID = id
				current.TaskTitle = strings.TrimSpace(m[4])
			}
		}
	}
	flush()

	// Storage order is chronological; presentation is newest first.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries
}
