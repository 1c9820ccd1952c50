package notestore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/yukikurage/note-api/pkg/client"
)

// DefaultTitle is sent when a note has no title.
const DefaultTitle = "Untitled"

// ErrUnauthorized is returned when the API rejects the token.
var ErrUnauthorized = errors.New("not authenticated")

// API is the part of the REST client the store uses.
type API interface {
	ListTodos(ctx context.Context, opts client.ListOptions) ([]client.Todo, error)
	CreateTodo(ctx context.Context, req client.CreateTodoRequest) (*client.CreatedTodo, error)
	UpdateTodo(ctx context.Context, id string, req client.UpdateTodoRequest) (*client.Todo, error)
	DeleteTodo(ctx context.Context, id, action string) (*client.DeleteResult, error)
	ListLabels(ctx context.Context) ([]client.Label, error)
	CreateLabel(ctx context.Context, name string) (*client.Label, error)
	UpdateLabel(ctx context.Context, id, name string) (*client.Label, error)
	DeleteLabel(ctx context.Context, id string, trashTodos bool) (*client.Label, error)
}

// NoteInput describes a note to create.
type NoteInput struct {
	Title      string
	Content    string
	IsPinned   bool
	IsArchived bool
}

// Store caches notes and labels. Each refresh carries a sequence number and
// a response older than the last applied one is dropped.
type Store struct {
	api API
	log zerolog.Logger

	mu           sync.Mutex
	notes        []Note
	serverLabels []client.Label
	noteLabels   []string

	notesSeq      uint64
	notesApplied  uint64
	labelsSeq     uint64
	labelsApplied uint64
}

func New(api API, log zerolog.Logger) *Store {
	return &Store{api: api, log: log}
}

// Refresh reloads notes and labels.
func (s *Store) Refresh(ctx context.Context) error {
	if err := s.FetchNotes(ctx); err != nil {
		return err
	}
	return s.FetchLabels(ctx)
}

// FetchNotes reloads the note list.
func (s *Store) FetchNotes(ctx context.Context) error {
	s.mu.Lock()
	s.notesSeq++
	seq := s.notesSeq
	s.mu.Unlock()

	todos, err := s.api.ListTodos(ctx, client.ListOptions{})
	if err != nil {
		return wrap("fetch notes", err)
	}

	notes := make([]Note, len(todos))
	for i, todo := range todos {
		notes[i] = FromTodo(todo)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq < s.notesApplied {
		s.log.Debug().Uint64("seq", seq).Uint64("applied", s.notesApplied).Msg("dropping stale notes response")
		return nil
	}
	s.notesApplied = seq
	s.notes = notes
	s.noteLabels = activeNoteLabels(notes)
	return nil
}

// FetchLabels reloads the server label list.
func (s *Store) FetchLabels(ctx context.Context) error {
	s.mu.Lock()
	s.labelsSeq++
	seq := s.labelsSeq
	s.mu.Unlock()

	labels, err := s.api.ListLabels(ctx)
	if err != nil {
		return wrap("fetch labels", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq < s.labelsApplied {
		s.log.Debug().Uint64("seq", seq).Uint64("applied", s.labelsApplied).Msg("dropping stale labels response")
		return nil
	}
	s.labelsApplied = seq
	s.serverLabels = labels
	return nil
}

// Notes returns every cached note.
func (s *Store) Notes() []Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneNotes(s.notes)
}

// Labels returns the server labels merged with names only seen on notes.
func (s *Store) Labels() []Label {
	s.mu.Lock()
	defer s.mu.Unlock()
	return MergeLabels(s.serverLabels, s.noteLabels)
}

// Create adds a note and refetches.
func (s *Store) Create(ctx context.Context, input NoteInput) (*client.CreatedTodo, error) {
	title := input.Title
	if title == "" {
		title = DefaultTitle
	}

	created, err := s.api.CreateTodo(ctx, client.CreateTodoRequest{
		Title:       title,
		Description: splitContent(input.Content),
		Status:      client.StatusOpen,
		IsPinned:    input.IsPinned,
		IsArchived:  input.IsArchived,
	})
	if err != nil {
		return nil, wrap("create note", err)
	}

	return created, s.FetchNotes(ctx)
}

// Update writes every field of note. Label names are mapped to ids and
// unknown names are created as labels first.
func (s *Store) Update(ctx context.Context, note Note) error {
	labelIDs, err := s.resolveLabels(ctx, note.Labels)
	if err != nil {
		return err
	}

	title := note.Title
	if title == "" {
		title = DefaultTitle
	}
	content := splitContent(note.Content)
	status := wireStatus(note)

	if _, err := s.api.UpdateTodo(ctx, note.ID, client.UpdateTodoRequest{
		Title:       &title,
		Description: &content,
		Status:      &status,
		IsPinned:    &note.IsPinned,
		IsArchived:  &note.IsArchived,
		Labels:      &labelIDs,
	}); err != nil {
		return wrap("update note", err)
	}

	return s.FetchNotes(ctx)
}

// Delete runs a lifecycle action ("bin", "restore" or "permanent") and refetches.
func (s *Store) Delete(ctx context.Context, id, action string) error {
	if action == "" {
		action = client.ActionBin
	}
	if _, err := s.api.DeleteTodo(ctx, id, action); err != nil {
		return wrap("delete note", err)
	}
	return s.FetchNotes(ctx)
}

func (s *Store) Archive(ctx context.Context, id string, archived bool) error {
	if _, err := s.api.UpdateTodo(ctx, id, client.UpdateTodoRequest{IsArchived: &archived}); err != nil {
		return wrap("archive note", err)
	}
	return s.FetchNotes(ctx)
}

func (s *Store) Pin(ctx context.Context, id string, pinned bool) error {
	if _, err := s.api.UpdateTodo(ctx, id, client.UpdateTodoRequest{IsPinned: &pinned}); err != nil {
		return wrap("pin note", err)
	}
	return s.FetchNotes(ctx)
}

// CreateLabel creates a server label and refetches labels.
func (s *Store) CreateLabel(ctx context.Context, name string) (*client.Label, error) {
	label, err := s.api.CreateLabel(ctx, name)
	if err != nil {
		return nil, wrap("create label", err)
	}
	return label, s.FetchLabels(ctx)
}

// RenameLabel renames a server label. A label only known from notes is
// renamed by rewriting each note that carries it.
func (s *Store) RenameLabel(ctx context.Context, label Label, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	if isServerID(label.ID) {
		if _, err := s.api.UpdateLabel(ctx, label.ID, name); err != nil {
			return wrap("rename label", err)
		}
	} else {
		for _, note := range s.Notes() {
			if !note.HasLabel(label.Name) {
				continue
			}
			for i, l := range note.Labels {
				if l == label.Name {
					note.Labels[i] = name
				}
			}
			note.Labels = unique(note.Labels)
			if err := s.Update(ctx, note); err != nil {
				return err
			}
		}
	}

	if err := s.FetchLabels(ctx); err != nil {
		return err
	}
	return s.FetchNotes(ctx)
}

// DeleteLabel drops the label from local state at once, then deletes it on
// the server and unlabels the affected notes one by one before refetching.
func (s *Store) DeleteLabel(ctx context.Context, label Label) error {
	s.mu.Lock()
	var affected []Note
	for i := range s.notes {
		note := &s.notes[i]
		if !note.HasLabel(label.Name) {
			continue
		}
		if !note.IsTrashed {
			affected = append(affected, cloneNote(*note))
		}
		note.Labels = without(note.Labels, label.Name)
	}
	s.serverLabels = withoutLabel(s.serverLabels, label)
	s.noteLabels = without(s.noteLabels, label.Name)
	s.mu.Unlock()

	if isServerID(label.ID) {
		if _, err := s.api.DeleteLabel(ctx, label.ID, false); err != nil {
			return wrap("delete label", err)
		}
	}

	for _, note := range affected {
		note.Labels = without(note.Labels, label.Name)
		if err := s.Update(ctx, note); err != nil {
			return err
		}
	}

	if err := s.FetchLabels(ctx); err != nil {
		return err
	}
	return s.FetchNotes(ctx)
}

// resolveLabels maps names to server ids, creating labels that do not exist.
// A name whose label cannot be created is dropped.
func (s *Store) resolveLabels(ctx context.Context, names []string) ([]string, error) {
	ids := make([]string, 0, len(names))
	for _, name := range names {
		if id := s.labelID(name); id != "" {
			ids = append(ids, id)
			continue
		}

		label, err := s.CreateLabel(ctx, name)
		if err != nil {
			if errors.Is(err, ErrUnauthorized) {
				return nil, err
			}
			s.log.Warn().Err(err).Str("label", name).Msg("failed to create label, dropping it from the note")
			continue
		}
		ids = append(ids, label.ID)
	}
	return unique(ids), nil
}

func (s *Store) labelID(name string) string {
	for _, l := range s.Labels() {
		if l.Name == name && l.ID != "" {
			return l.ID
		}
	}
	return ""
}

func wrap(op string, err error) error {
	if client.IsStatus(err, http.StatusUnauthorized) {
		return fmt.Errorf("%w: %s: %v", ErrUnauthorized, op, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

func activeNoteLabels(notes []Note) []string {
	var names []string
	for _, n := range notes {
		if !n.IsTrashed {
			names = append(names, n.Labels...)
		}
	}
	return unique(names)
}

func without(values []string, drop string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != drop {
			out = append(out, v)
		}
	}
	return out
}

func withoutLabel(labels []client.Label, drop Label) []client.Label {
	out := make([]client.Label, 0, len(labels))
	for _, l := range labels {
		if (drop.ID != "" && l.ID == drop.ID) || l.Name == drop.Name {
			continue
		}
		out = append(out, l)
	}
	return out
}

func cloneNote(n Note) Note {
	n.Labels = append([]string(nil), n.Labels...)
	return n
}

func cloneNotes(notes []Note) []Note {
	out := make([]Note, len(notes))
	for i, n := range notes {
		out[i] = cloneNote(n)
	}
	return out
}
