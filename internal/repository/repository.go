package repository

import (
	"context"
	"errors"
	"time"

	"github.com/yukikurage/note-api/internal/models"
)

var (
	// ErrCreateTodo is returned when inserting the todo row fails inside the create transaction.
	ErrCreateTodo = errors.New("todo repository: create todo failed")
	// ErrLinkLabels is returned when inserting join rows fails inside a todo transaction.
	ErrLinkLabels = errors.New("todo repository: link labels failed")
	// ErrUnlinkLabels is returned when removing join rows fails inside a transaction.
	ErrUnlinkLabels = errors.New("repository: unlink labels failed")
)

// TodoRepository defines the interface for todo data access
type TodoRepository interface {
	// Create inserts a todo and its label links atomically
	Create(ctx context.Context, todo *models.Todo, labelIDs []string) error

	// FindByID finds a todo owned by userID with its labels resolved
	FindByID(ctx context.Context, userID, id string) (*models.Todo, error)

	// List retrieves todos with filtering, newest first, labels resolved
	List(ctx context.Context, filter TodoFilter) ([]models.Todo, error)

	// Update writes the given columns and, when labelIDs is non-nil, replaces
	// the label set, all in one transaction. Returns the row without labels.
	Update(ctx context.Context, userID, id string, fields map[string]any, labelIDs *[]string) (*models.Todo, error)

	// Delete hard deletes a todo and its label links
	Delete(ctx context.Context, userID, id string) error

	// AddLabel links a label to a todo; linking twice is a no-op
	AddLabel(ctx context.Context, todoID, labelID string) error

	// RemoveLabel unlinks a label from a todo
	RemoveLabel(ctx context.Context, todoID, labelID string) error
}

// TodoFilter holds filtering options for listing todos
type TodoFilter struct {
	UserID     string
	Status     *models.TodoStatus
	IsArchived *bool
	IsPinned   *bool
	IsDeleted  *bool
	Title      string
	From       *time.Time
	To         *time.Time
	LabelID    string
}

// LabelRepository defines the interface for label data access
type LabelRepository interface {
	// Create inserts a label
	Create(ctx context.Context, label *models.Label) error

	// FindByID finds an active label owned by userID
	FindByID(ctx context.Context, userID, id string) (*models.Label, error)

	// FindByNameIncludingDeleted finds a label by name, soft-deleted or not
	FindByNameIncludingDeleted(ctx context.Context, userID, name string) (*models.Label, error)

	// List lists the active labels of a user ordered by name
	List(ctx context.Context, userID string) ([]models.Label, error)

	// Update writes the given columns of an active label owned by userID
	Update(ctx context.Context, userID, id string, fields map[string]any) (*models.Label, error)

	// Restore clears the deleted flag of a label owned by userID
	Restore(ctx context.Context, userID, id string) (*models.Label, error)

	// SoftDelete flags a label deleted and unlinks it from every todo. When
	// trashTodos is set the owner's todos carrying the label move to bin first.
	SoftDelete(ctx context.Context, userID, id string, trashTodos bool) (*models.Label, error)

	// CountActive counts how many of the given IDs are active labels of userID
	CountActive(ctx context.Context, userID string, ids []string) (int64, error)
}

// ProfileRepository defines the interface for profile data access
type ProfileRepository interface {
	// CreateIfMissing inserts a profile unless one with the same ID exists
	CreateIfMissing(ctx context.Context, profile *models.Profile) error

	// FindByID finds a profile by ID
	FindByID(ctx context.Context, id string) (*models.Profile, error)

	// Update writes the given columns of a profile
	Update(ctx context.Context, id string, fields map[string]any) (*models.Profile, error)
}
