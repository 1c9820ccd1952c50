package notestore

import "strings"

// View selects which notes a screen shows.
type View string

const (
	ViewNotes   View = "notes"
	ViewArchive View = "archive"
	ViewTrash   View = "trash"
	ViewLabel   View = "label"
)

// Filter returns the notes visible in view. label is used by ViewLabel and
// query, when set, keeps notes whose title or content contains it.
func (s *Store) Filter(view View, label, query string) []Note {
	var out []Note
	for _, n := range s.Notes() {
		if inView(n, view, label) && matches(n, query) {
			out = append(out, n)
		}
	}
	return out
}

func inView(n Note, view View, label string) bool {
	switch view {
	case ViewArchive:
		return n.IsArchived && !n.IsTrashed
	case ViewTrash:
		return n.IsTrashed
	case ViewLabel:
		return !n.IsTrashed && n.HasLabel(label)
	default:
		return !n.IsTrashed && !n.IsArchived
	}
}

// matches is a case-insensitive search over title and content.
func matches(n Note, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(n.Title), q) ||
		strings.Contains(strings.ToLower(n.Content), q)
}
