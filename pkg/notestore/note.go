// Package notestore keeps a client-side cache of notes and labels that is
// reconciled against the API after every mutation.
package notestore

import (
	"strings"
	"time"

	"github.com/yukikurage/note-api/pkg/client"
)

// Status is the note status vocabulary used by front ends.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "inProgress"
	StatusCompleted  Status = "completed"
)

// Note is a todo mapped for display.
type Note struct {
	ID         string
	Title      string
	Content    string
	IsPinned   bool
	IsArchived bool
	IsTrashed  bool
	Labels     []string
	Status     Status
	CreatedAt  time.Time
}

// HasLabel reports whether the note carries a label named name.
func (n Note) HasLabel(name string) bool {
	for _, l := range n.Labels {
		if l == name {
			return true
		}
	}
	return false
}

// Label is either a server label (with an ID) or a name only seen on notes.
type Label struct {
	ID   string
	Name string
}

// FromTodo maps a todo from the wire format.
func FromTodo(todo client.Todo) Note {
	names := make([]string, 0, len(todo.Labels))
	for _, l := range todo.Labels {
		names = append(names, l.Name)
	}

	return Note{
		ID:         todo.ID,
		Title:      todo.Title,
		Content:    strings.Join(todo.Description, "\n"),
		IsPinned:   todo.IsPinned,
		IsArchived: todo.IsArchived,
		IsTrashed:  todo.Status == client.StatusBin,
		Labels:     unique(names),
		Status:     fromWireStatus(todo.Status),
		CreatedAt:  todo.CreatedAt,
	}
}

func fromWireStatus(status string) Status {
	switch status {
	case client.StatusInProgress:
		return StatusInProgress
	case client.StatusCompleted:
		return StatusCompleted
	default:
		return StatusOpen
	}
}

// wireStatus is the status sent on update. A trashed note goes to bin.
func wireStatus(n Note) string {
	if n.IsTrashed {
		return client.StatusBin
	}
	switch n.Status {
	case StatusInProgress:
		return client.StatusInProgress
	case StatusCompleted:
		return client.StatusCompleted
	default:
		return client.StatusOpen
	}
}

func splitContent(content string) []string {
	if content == "" {
		return []string{}
	}
	return strings.Split(content, "\n")
}

// MergeLabels lists server labels first, then names only known from notes
// that no server label already uses. Names are not repeated.
func MergeLabels(server []client.Label, noteNames []string) []Label {
	merged := make([]Label, 0, len(server)+len(noteNames))
	seen := make(map[string]bool, len(server))
	for _, l := range server {
		merged = append(merged, Label{ID: l.ID, Name: l.Name})
		seen[l.Name] = true
	}
	for _, name := range noteNames {
		if seen[name] {
			continue
		}
		seen[name] = true
		merged = append(merged, Label{Name: name})
	}
	return merged
}

// isServerID matches the two identifier shapes the API accepts.
func isServerID(id string) bool {
	return len(id) == 24 || len(id) == 36
}

func unique(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
