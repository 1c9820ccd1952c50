package dto

import (
	"time"

	"github.com/yukikurage/note-api/internal/models"
	"github.com/yukikurage/note-api/internal/patch"
)

// CreateTodoRequest is the body of POST /todo/create
type CreateTodoRequest struct {
	Title       string            `json:"title"`
	Description models.StringList `json:"description"`
	Status      models.TodoStatus `json:"status"`
	IsPinned    bool              `json:"isPinned"`
	IsArchived  bool              `json:"isArchived"`
	Labels      []string          `json:"labels"`
}

// UpdateTodoRequest is the body of PUT /todo/update/:id. Absent fields stay unset.
type UpdateTodoRequest struct {
	Title       patch.Field[string]            `json:"title"`
	Description patch.Field[models.StringList] `json:"description"`
	Status      patch.Field[models.TodoStatus] `json:"status"`
	IsPinned    patch.Field[bool]              `json:"isPinned"`
	IsArchived  patch.Field[bool]              `json:"isArchived"`
	IsDeleted   patch.Field[bool]              `json:"isDeleted"`
	Labels      patch.Field[[]string]          `json:"labels"`
}

// TodoLabelRequest is the body of the add-label and remove-label routes
type TodoLabelRequest struct {
	LabelID string `json:"labelId" binding:"required"`
}

// LabelRefDTO is a label inlined into a todo
type LabelRefDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TodoRowDTO holds the direct columns of a todo
type TodoRowDTO struct {
	ID          string            `json:"id"`
	UserID      string            `json:"user_id"`
	Title       string            `json:"title"`
	Description models.StringList `json:"description"`
	Status      models.TodoStatus `json:"status"`
	IsPinned    bool              `json:"is_pinned"`
	IsArchived  bool              `json:"is_archived"`
	IsDeleted   bool              `json:"is_deleted"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// TodoDTO is a todo with its labels resolved
type TodoDTO struct {
	TodoRowDTO
	Labels []LabelRefDTO `json:"labels"`
}

// CreatedTodoDTO is the response of POST /todo/create
type CreatedTodoDTO struct {
	ID     string            `json:"id"`
	Status models.TodoStatus `json:"status"`
}

// TodoLabelsDTO is the response of the add-label and remove-label routes
type TodoLabelsDTO struct {
	ID     string        `json:"id"`
	Labels []LabelRefDTO `json:"labels"`
}

// DeleteTodoDTO is the response of DELETE /todo/delete/:id
type DeleteTodoDTO struct {
	Message string            `json:"message"`
	ID      string            `json:"id,omitempty"`
	Status  models.TodoStatus `json:"status,omitempty"`
}

// Conversion functions

// ToTodoRowDTO converts a Todo model to TodoRowDTO
func ToTodoRowDTO(todo models.Todo) TodoRowDTO {
	description := todo.Description
	if description == nil {
		description = models.StringList{}
	}
	return TodoRowDTO{
		ID:          todo.ID,
		UserID:      todo.UserID,
		Title:       todo.Title,
		Description: description,
		Status:      todo.Status,
		IsPinned:    todo.IsPinned,
		IsArchived:  todo.IsArchived,
		IsDeleted:   todo.IsDeleted,
		CreatedAt:   todo.CreatedAt,
		UpdatedAt:   todo.UpdatedAt,
	}
}

// ToTodoDTO converts a Todo model with preloaded labels to TodoDTO
func ToTodoDTO(todo models.Todo) TodoDTO {
	return TodoDTO{
		TodoRowDTO: ToTodoRowDTO(todo),
		Labels:     ToLabelRefDTOs(todo.Labels()),
	}
}

// ToTodoDTOs converts a slice of todos; an empty input yields an empty slice
func ToTodoDTOs(todos []models.Todo) []TodoDTO {
	dtos := make([]TodoDTO, len(todos))
	for i, todo := range todos {
		dtos[i] = ToTodoDTO(todo)
	}
	return dtos
}

// ToLabelRefDTOs converts labels to their inlined form
func ToLabelRefDTOs(labels []models.Label) []LabelRefDTO {
	refs := make([]LabelRefDTO, len(labels))
	for i, label := range labels {
		refs[i] = LabelRefDTO{ID: label.ID, Name: label.Name}
	}
	return refs
}
