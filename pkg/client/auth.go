package client

import (
	"context"
	"fmt"
	"net/http"
)

// OnboardRequest represents a sign-up request
type OnboardRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest represents a sign-in request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Identity is the account registered with the identity provider
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// LoginResponse carries the bearer token with the caller's profile
type LoginResponse struct {
	Token string `json:"token"`
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Profile is the caller's profile
type Profile struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Status string `json:"status,omitempty"`
}

type AccountStatus struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type RemovedAccount struct {
	ID        string `json:"id"`
	IsDeleted bool   `json:"is_deleted"`
}

// Onboard registers a new account. It does not log in.
func (c *Client) Onboard(ctx context.Context, email, password, name string) (*Identity, error) {
	var result Identity
	req := OnboardRequest{Email: email, Password: password, Name: name}
	if err := c.call(ctx, http.MethodPost, "/user/onboard", req, &result); err != nil {
		return nil, fmt.Errorf("onboard request failed: %w", err)
	}
	return &result, nil
}

// Login authenticates and keeps the returned token for later requests
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var result LoginResponse
	req := LoginRequest{Email: email, Password: password}
	if err := c.call(ctx, http.MethodPost, "/user/login", req, &result); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}

	c.SetAuthToken(result.Token)
	return &result, nil
}

// Logout revokes the current token and forgets it
func (c *Client) Logout(ctx context.Context) error {
	if err := c.call(ctx, http.MethodPost, "/user/logout", nil, nil); err != nil {
		return fmt.Errorf("logout request failed: %w", err)
	}

	c.SetAuthToken("")
	return nil
}

func (c *Client) Me(ctx context.Context) (*Profile, error) {
	var result Profile
	if err := c.call(ctx, http.MethodGet, "/user/me", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) UpdateProfile(ctx context.Context, name string) (*Profile, error) {
	var result Profile
	if err := c.call(ctx, http.MethodPut, "/user/update", map[string]string{"name": name}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SetAccountStatus switches the account between "active" and "inactive"
func (c *Client) SetAccountStatus(ctx context.Context, status string) (*AccountStatus, error) {
	var result AccountStatus
	if err := c.call(ctx, http.MethodPut, "/user/account-status", map[string]string{"status": status}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RemoveAccount soft-deletes the caller's account
func (c *Client) RemoveAccount(ctx context.Context) (*RemovedAccount, error) {
	var result RemovedAccount
	if err := c.call(ctx, http.MethodDelete, "/user/remove", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
