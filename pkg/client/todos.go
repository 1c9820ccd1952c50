package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Todo statuses as sent on the wire
const (
	StatusOpen       = "open"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusBin        = "bin"
)

// Delete actions
const (
	ActionBin       = "bin"
	ActionRestore   = "restore"
	ActionPermanent = "permanent"
)

// LabelRef is a label inlined into a todo
type LabelRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Todo is a todo as returned by the list routes
type Todo struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description []string   `json:"description"`
	Status      string     `json:"status"`
	IsPinned    bool       `json:"is_pinned"`
	IsArchived  bool       `json:"is_archived"`
	IsDeleted   bool       `json:"is_deleted"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Labels      []LabelRef `json:"labels"`
}

type CreateTodoRequest struct {
	Title       string   `json:"title"`
	Description []string `json:"description,omitempty"`
	Status      string   `json:"status,omitempty"`
	IsPinned    bool     `json:"isPinned,omitempty"`
	IsArchived  bool     `json:"isArchived,omitempty"`
	Labels      []string `json:"labels,omitempty"`
}

type CreatedTodo struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// UpdateTodoRequest is a partial update. Nil fields are not sent.
type UpdateTodoRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *[]string `json:"description,omitempty"`
	Status      *string   `json:"status,omitempty"`
	IsPinned    *bool     `json:"isPinned,omitempty"`
	IsArchived  *bool     `json:"isArchived,omitempty"`
	IsDeleted   *bool     `json:"isDeleted,omitempty"`
	Labels      *[]string `json:"labels,omitempty"`
}

// ListOptions filters ListTodos. Zero values are not sent.
type ListOptions struct {
	Status     string
	Title      string
	From       string
	To         string
	LabelID    string
	IsArchived *bool
	IsPinned   *bool
	IsDeleted  *bool
}

func (o ListOptions) query() string {
	q := url.Values{}
	set := func(key, value string) {
		if value != "" {
			q.Set(key, value)
		}
	}
	setBool := func(key string, value *bool) {
		if value != nil {
			q.Set(key, strconv.FormatBool(*value))
		}
	}

	set("status", o.Status)
	set("title", o.Title)
	set("from", o.From)
	set("to", o.To)
	set("label", o.LabelID)
	setBool("isArchived", o.IsArchived)
	setBool("isPinned", o.IsPinned)
	setBool("isDeleted", o.IsDeleted)

	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// DeleteResult is the outcome of a lifecycle transition. ID and Status are
// empty once the todo is removed.
type DeleteResult struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
	Status  string `json:"status,omitempty"`
}

type TodoLabels struct {
	ID     string     `json:"id"`
	Labels []LabelRef `json:"labels"`
}

func (c *Client) CreateTodo(ctx context.Context, req CreateTodoRequest) (*CreatedTodo, error) {
	var result CreatedTodo
	if err := c.call(ctx, http.MethodPost, "/todo/create", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListTodos(ctx context.Context, opts ListOptions) ([]Todo, error) {
	var result []Todo
	if err := c.call(ctx, http.MethodGet, "/todo/list"+opts.query(), nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateTodo applies a partial update. The returned todo carries no labels.
func (c *Client) UpdateTodo(ctx context.Context, id string, req UpdateTodoRequest) (*Todo, error) {
	var result Todo
	if err := c.call(ctx, http.MethodPut, "/todo/update/"+url.PathEscape(id), req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteTodo runs action on the todo. An empty action moves it to bin.
func (c *Client) DeleteTodo(ctx context.Context, id, action string) (*DeleteResult, error) {
	path := "/todo/delete/" + url.PathEscape(id)
	if action != "" {
		path += "?action=" + url.QueryEscape(action)
	}

	var result DeleteResult
	if err := c.call(ctx, http.MethodDelete, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) AddLabel(ctx context.Context, todoID, labelID string) (*TodoLabels, error) {
	return c.changeLabel(ctx, http.MethodPost, "/todo/add-label/", todoID, labelID)
}

func (c *Client) RemoveLabel(ctx context.Context, todoID, labelID string) (*TodoLabels, error) {
	return c.changeLabel(ctx, http.MethodDelete, "/todo/remove-label/", todoID, labelID)
}

func (c *Client) changeLabel(ctx context.Context, method, prefix, todoID, labelID string) (*TodoLabels, error) {
	var result TodoLabels
	body := map[string]string{"labelId": labelID}
	if err := c.call(ctx, method, prefix+url.PathEscape(todoID), body, &result); err != nil {
		return nil, fmt.Errorf("failed to change label %s on todo %s: %w", labelID, todoID, err)
	}
	return &result, nil
}

// FilterTodosByLabel lists the caller's non-deleted todos carrying labelID
func (c *Client) FilterTodosByLabel(ctx context.Context, labelID string) ([]Todo, error) {
	var result []Todo
	if err := c.call(ctx, http.MethodGet, "/todo/filter-todo-by-label/"+url.PathEscape(labelID), nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}
