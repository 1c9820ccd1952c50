package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yukikurage/note-api/internal/constants"
	"github.com/yukikurage/note-api/internal/models"
	"github.com/yukikurage/note-api/internal/patch"
	"github.com/yukikurage/note-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTodoNotFound      = errors.New("todo not found")
	ErrLabelNotFound     = errors.New("label not found")
	ErrInvalidTitle      = fmt.Errorf("title must be between %d and %d characters", constants.MinTitleLength, constants.MaxTitleLength)
	ErrInvalidStatus     = errors.New("status must be open, in-progress, completed, or bin")
	ErrInvalidAction     = errors.New("action must be bin, restore, or permanent")
	ErrOnlyBinRestorable = errors.New("only bin items can be restored")
	ErrTodoNotInBin      = errors.New("todo not in bin")
)

// DeleteAction selects the lifecycle transition applied by TodoService.Delete.
type DeleteAction string

const (
	DeleteActionBin       DeleteAction = "bin"
	DeleteActionRestore   DeleteAction = "restore"
	DeleteActionPermanent DeleteAction = "permanent"
)

// TodoService handles todo business logic
type TodoService struct {
	todoRepo  repository.TodoRepository
	labelRepo repository.LabelRepository
}

// NewTodoService creates a new TodoService
func NewTodoService(todoRepo repository.TodoRepository, labelRepo repository.LabelRepository) *TodoService {
	return &TodoService{
		todoRepo:  todoRepo,
		labelRepo: labelRepo,
	}
}

// CreateTodoInput represents input for creating a todo
type CreateTodoInput struct {
	Title       string
	Description models.StringList
	Status      models.TodoStatus
	IsPinned    bool
	IsArchived  bool
	Labels      []string
}

// ListTodosInput represents filters for listing todos. IsDeleted defaults to false.
type ListTodosInput struct {
	Status     *models.TodoStatus
	Title      string
	From       *time.Time
	To         *time.Time
	LabelID    string
	IsArchived *bool
	IsPinned   *bool
	IsDeleted  *bool
}

// UpdateTodoInput carries the fields of a partial update. Unset fields are left untouched.
type UpdateTodoInput struct {
	Title       patch.Field[string]
	Description patch.Field[models.StringList]
	Status      patch.Field[models.TodoStatus]
	IsPinned    patch.Field[bool]
	IsArchived  patch.Field[bool]
	IsDeleted   patch.Field[bool]
	Labels      patch.Field[[]string]
}

// DeleteResult describes the outcome of a lifecycle transition.
type DeleteResult struct {
	Message string
	ID      string
	Status  models.TodoStatus
	// Removed is set when the row no longer exists.
	Removed bool
}

// Create inserts a todo with its labels
func (s *TodoService) Create(ctx context.Context, userID string, input CreateTodoInput) (*models.Todo, error) {
	title := strings.TrimSpace(input.Title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	if input.Status == "" {
		input.Status = models.TodoStatusOpen
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	if err := s.ensureLabels(ctx, userID, input.Labels); err != nil {
		return nil, err
	}

	description := input.Description
	if description == nil {
		description = models.StringList{}
	}

	todo := &models.Todo{
		UserID:      userID,
		Title:       title,
		Description: description,
		Status:      input.Status,
		IsPinned:    input.IsPinned,
		IsArchived:  input.IsArchived,
	}

	if err := s.todoRepo.Create(ctx, todo, input.Labels); err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	return todo, nil
}

// List returns the caller's todos matching the filters, newest first
func (s *TodoService) List(ctx context.Context, userID string, input ListTodosInput) ([]models.Todo, error) {
	if input.Status != nil && !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	isDeleted := false
	if input.IsDeleted != nil {
		isDeleted = *input.IsDeleted
	}

	todos, err := s.todoRepo.List(ctx, repository.TodoFilter{
		UserID:     userID,
		Status:     input.Status,
		IsArchived: input.IsArchived,
		IsPinned:   input.IsPinned,
		IsDeleted:  &isDeleted,
		Title:      strings.TrimSpace(input.Title),
		From:       input.From,
		To:         input.To,
		LabelID:    input.LabelID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}

	return todos, nil
}

// Update applies a partial update. The returned todo carries direct columns only.
func (s *TodoService) Update(ctx context.Context, userID, id string, input UpdateTodoInput) (*models.Todo, error) {
	if _, err := s.findTodo(ctx, userID, id); err != nil {
		return nil, err
	}

	fields := map[string]any{}

	if title, ok := input.Title.Get(); ok {
		title = strings.TrimSpace(title)
		if err := validateTitle(title); err != nil {
			return nil, err
		}
		fields["title"] = title
	}
	if description, ok := input.Description.Get(); ok {
		if description == nil {
			description = models.StringList{}
		}
		fields["description"] = description
	}
	if status, ok := input.Status.Get(); ok {
		if !status.Valid() {
			return nil, ErrInvalidStatus
		}
		fields["status"] = status
	}
	if v, ok := input.IsPinned.Get(); ok {
		fields["is_pinned"] = v
	}
	if v, ok := input.IsArchived.Get(); ok {
		fields["is_archived"] = v
	}
	if v, ok := input.IsDeleted.Get(); ok {
		fields["is_deleted"] = v
	}

	var labelIDs *[]string
	if labels, ok := input.Labels.Get(); ok {
		if labels == nil {
			labels = []string{}
		}
		if err := s.ensureLabels(ctx, userID, labels); err != nil {
			return nil, err
		}
		labelIDs = &labels
	}

	todo, err := s.todoRepo.Update(ctx, userID, id, fields, labelIDs)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	return todo, nil
}

// Delete runs the bin lifecycle. An empty action means bin.
//
//	current | bin         | restore      | permanent
//	bin     | hard delete | status=open  | hard delete
//	other   | status=bin  | rejected     | rejected
func (s *TodoService) Delete(ctx context.Context, userID, id string, action DeleteAction) (*DeleteResult, error) {
	if action == "" {
		action = DeleteActionBin
	}
	switch action {
	case DeleteActionBin, DeleteActionRestore, DeleteActionPermanent:
	default:
		return nil, ErrInvalidAction
	}

	todo, err := s.findTodo(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	inBin := todo.Status == models.TodoStatusBin

	switch {
	case action == DeleteActionRestore && !inBin:
		return nil, ErrOnlyBinRestorable
	case action == DeleteActionPermanent && !inBin:
		return nil, ErrTodoNotInBin
	case action == DeleteActionRestore:
		return s.setStatus(ctx, userID, id, models.TodoStatusOpen, "todo restored from bin")
	case !inBin:
		return s.setStatus(ctx, userID, id, models.TodoStatusBin, "todo moved to bin")
	}

	if err := s.todoRepo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to delete todo: %w", err)
	}

	return &DeleteResult{Message: "todo permanently deleted", ID: id, Removed: true}, nil
}

// AddLabel attaches an owned label to an owned todo and returns the refreshed todo
func (s *TodoService) AddLabel(ctx context.Context, userID, todoID, labelID string) (*models.Todo, error) {
	if err := s.ensureTodoAndLabel(ctx, userID, todoID, labelID); err != nil {
		return nil, err
	}

	if err := s.todoRepo.AddLabel(ctx, todoID, labelID); err != nil {
		return nil, fmt.Errorf("failed to add label: %w", err)
	}

	return s.findTodo(ctx, userID, todoID)
}

// RemoveLabel detaches an owned label from an owned todo and returns the refreshed todo
func (s *TodoService) RemoveLabel(ctx context.Context, userID, todoID, labelID string) (*models.Todo, error) {
	if err := s.ensureTodoAndLabel(ctx, userID, todoID, labelID); err != nil {
		return nil, err
	}

	if err := s.todoRepo.RemoveLabel(ctx, todoID, labelID); err != nil {
		return nil, fmt.Errorf("failed to remove label: %w", err)
	}

	return s.findTodo(ctx, userID, todoID)
}

// FilterByLabel returns the caller's non-deleted todos carrying the label
func (s *TodoService) FilterByLabel(ctx context.Context, userID, labelID string) ([]models.Todo, error) {
	notDeleted := false
	todos, err := s.todoRepo.List(ctx, repository.TodoFilter{
		UserID:    userID,
		LabelID:   labelID,
		IsDeleted: &notDeleted,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to filter todos: %w", err)
	}
	return todos, nil
}

func (s *TodoService) setStatus(ctx context.Context, userID, id string, status models.TodoStatus, message string) (*DeleteResult, error) {
	todo, err := s.todoRepo.Update(ctx, userID, id, map[string]any{"status": status}, nil)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to update todo status: %w", err)
	}
	return &DeleteResult{Message: message, ID: todo.ID, Status: todo.Status}, nil
}

func (s *TodoService) findTodo(ctx context.Context, userID, id string) (*models.Todo, error) {
	todo, err := s.todoRepo.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to find todo: %w", err)
	}
	return todo, nil
}

func (s *TodoService) ensureTodoAndLabel(ctx context.Context, userID, todoID, labelID string) error {
	if _, err := s.findTodo(ctx, userID, todoID); err != nil {
		return err
	}

	if _, err := s.labelRepo.FindByID(ctx, userID, labelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLabelNotFound
		}
		return fmt.Errorf("failed to find label: %w", err)
	}
	return nil
}

// ensureLabels verifies every ID names an active label of the user
func (s *TodoService) ensureLabels(ctx context.Context, userID string, labelIDs []string) error {
	ids := uniqueStrings(labelIDs)
	if len(ids) == 0 {
		return nil
	}

	count, err := s.labelRepo.CountActive(ctx, userID, ids)
	if err != nil {
		return fmt.Errorf("failed to verify labels: %w", err)
	}
	if int(count) != len(ids) {
		return ErrLabelNotFound
	}
	return nil
}

func validateTitle(title string) error {
	n := utf8.RuneCountInString(title)
	if n < constants.MinTitleLength || n > constants.MaxTitleLength {
		return ErrInvalidTitle
	}
	return nil
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}
