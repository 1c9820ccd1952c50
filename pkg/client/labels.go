package client

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Label is a label owned by the caller
type Label struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	IsDeleted bool      `json:"is_deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Client) CreateLabel(ctx context.Context, name string) (*Label, error) {
	var result Label
	if err := c.call(ctx, http.MethodPost, "/label/create", map[string]string{"name": name}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListLabels(ctx context.Context) ([]Label, error) {
	var result []Label
	if err := c.call(ctx, http.MethodGet, "/label/list", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) GetLabel(ctx context.Context, id string) (*Label, error) {
	var result Label
	if err := c.call(ctx, http.MethodGet, "/label/get/"+url.PathEscape(id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) UpdateLabel(ctx context.Context, id, name string) (*Label, error) {
	var result Label
	if err := c.call(ctx, http.MethodPut, "/label/update/"+url.PathEscape(id), map[string]string{"name": name}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteLabel soft-deletes a label. With trashTodos the todos carrying it
// are moved to bin as well.
func (c *Client) DeleteLabel(ctx context.Context, id string, trashTodos bool) (*Label, error) {
	path := "/label/delete/" + url.PathEscape(id)
	if trashTodos {
		path += "?trashTodos=true"
	}

	var result Label
	if err := c.call(ctx, http.MethodDelete, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
