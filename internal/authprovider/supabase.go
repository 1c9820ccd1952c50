package authprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Supabase talks to the GoTrue REST API of a Supabase project.
type Supabase struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
}

// NewSupabase creates a provider for the project at baseURL, e.g.
// "https://xyz.supabase.co".
func NewSupabase(baseURL, anonKey string) *Supabase {
	return &Supabase{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type gotrueUser struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

func (u gotrueUser) identity() *Identity {
	name, _ := u.UserMetadata["name"].(string)
	return &Identity{ID: u.ID, Email: u.Email, Name: name}
}

type gotrueSession struct {
	AccessToken string      `json:"access_token"`
	User        *gotrueUser `json:"user"`
}

type gotrueError struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	ErrorCode        string `json:"error_code"`
}

func (e gotrueError) text() string {
	for _, s := range []string{e.Msg, e.Message, e.ErrorDescription, e.Error} {
		if s != "" {
			return s
		}
	}
	return "unknown error"
}

// SignUp registers a new user with name stored in the user metadata.
func (s *Supabase) SignUp(ctx context.Context, email, password, name string) (*Identity, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
		"data":     map[string]string{"name": name},
	}

	resp, err := s.doRequest(ctx, http.MethodPost, "/auth/v1/signup", "", body)
	if err != nil {
		return nil, err
	}

	// With email confirmation enabled GoTrue answers with the bare user,
	// otherwise with a session wrapping it.
	var result struct {
		gotrueUser
		User *gotrueUser `json:"user"`
	}
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	if result.User != nil {
		return result.User.identity(), nil
	}
	return result.gotrueUser.identity(), nil
}

// SignIn exchanges an email and password for an access token.
func (s *Supabase) SignIn(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	resp, err := s.doRequest(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "", body)
	if err != nil {
		return nil, err
	}

	var result gotrueSession
	if err := decodeResponse(resp, &result); err != nil {
		if isStatus(err, http.StatusBadRequest) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if result.User == nil || result.AccessToken == "" {
		return nil, fmt.Errorf("%w: sign-in response without session", ErrUpstream)
	}

	return &Session{AccessToken: result.AccessToken, Identity: *result.User.identity()}, nil
}

// GetUser resolves the user an access token was issued to.
func (s *Supabase) GetUser(ctx context.Context, token string) (*Identity, error) {
	resp, err := s.doRequest(ctx, http.MethodGet, "/auth/v1/user", token, nil)
	if err != nil {
		return nil, err
	}

	var result gotrueUser
	if err := decodeResponse(resp, &result); err != nil {
		if isStatus(err, http.StatusUnauthorized, http.StatusForbidden) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if result.ID == "" {
		return nil, ErrInvalidToken
	}

	return result.identity(), nil
}

// SignOut revokes the session behind token.
func (s *Supabase) SignOut(ctx context.Context, token string) error {
	resp, err := s.doRequest(ctx, http.MethodPost, "/auth/v1/logout", token, nil)
	if err != nil {
		return err
	}

	if err := decodeResponse(resp, nil); err != nil {
		if isStatus(err, http.StatusUnauthorized, http.StatusForbidden) {
			return ErrInvalidToken
		}
		return err
	}
	return nil
}

// doRequest performs a GoTrue request. The bearer defaults to the anon key.
func (s *Supabase) doRequest(ctx context.Context, method, path, token string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if token == "" {
		token = s.anonKey
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", s.anonKey)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return resp, nil
}

// statusError carries a non-2xx GoTrue response.
type statusError struct {
	status  int
	message string
	wrapped error
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s: %s", e.wrapped, e.message)
}

func (e *statusError) Unwrap() error {
	return e.wrapped
}

func isStatus(err error, statuses ...int) bool {
	var se *statusError
	if !errors.As(err, &se) {
		return false
	}
	for _, s := range statuses {
		if se.status == s {
			return true
		}
	}
	return false
}

// decodeResponse decodes the JSON response into target. Client errors map to
// ErrRejected (ErrEmailTaken for a duplicate sign-up), server errors to ErrUpstream.
func decodeResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(resp.Body)
		var ge gotrueError
		_ = json.Unmarshal(data, &ge)

		se := &statusError{status: resp.StatusCode, message: ge.text(), wrapped: ErrRejected}
		switch {
		case resp.StatusCode >= 500:
			se.wrapped = ErrUpstream
		case ge.ErrorCode == "user_already_exists" || strings.Contains(strings.ToLower(ge.text()), "already registered"):
			se.wrapped = ErrEmailTaken
		}
		return se
	}

	if target != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", ErrUpstream, err)
		}
	}

	return nil
}
