package authprovider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGoTrue(t *testing.T, handler http.HandlerFunc) *Supabase {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewSupabase(srv.URL+"/", "anon-key")
}

func TestSupabase_SignIn(t *testing.T) {
	p := newGoTrue(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "secret123" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"tok","user":{"id":"u1","email":"ann@example.com","user_metadata":{"name":"Ann"}}}`))
	})

	session, err := p.SignIn(context.Background(), "ann@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "tok", session.AccessToken)
	assert.Equal(t, Identity{ID: "u1", Email: "ann@example.com", Name: "Ann"}, session.Identity)

	_, err = p.SignIn(context.Background(), "ann@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSupabase_SignUp(t *testing.T) {
	p := newGoTrue(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/signup", r.URL.Path)

		var body struct {
			Email string            `json:"email"`
			Data  map[string]string `json:"data"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		switch body.Email {
		case "taken@example.com":
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"code":422,"error_code":"user_already_exists","msg":"User already registered"}`))
		case "session@example.com":
			_, _ = w.Write([]byte(`{"access_token":"tok","user":{"id":"u2","email":"session@example.com","user_metadata":{"name":"` + body.Data["name"] + `"}}}`))
		default:
			_, _ = w.Write([]byte(`{"id":"u1","email":"` + body.Email + `","user_metadata":{"name":"` + body.Data["name"] + `"}}`))
		}
	})

	identity, err := p.SignUp(context.Background(), "ann@example.com", "secret123", "Ann")
	require.NoError(t, err)
	assert.Equal(t, &Identity{ID: "u1", Email: "ann@example.com", Name: "Ann"}, identity)

	identity, err = p.SignUp(context.Background(), "session@example.com", "secret123", "Bo")
	require.NoError(t, err)
	assert.Equal(t, "u2", identity.ID)
	assert.Equal(t, "Bo", identity.Name)

	_, err = p.SignUp(context.Background(), "taken@example.com", "secret123", "Ann")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestSupabase_GetUser(t *testing.T) {
	p := newGoTrue(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"msg":"invalid JWT"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"u1","email":"ann@example.com","user_metadata":{}}`))
	})

	identity, err := p.GetUser(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "u1", identity.ID)
	assert.Empty(t, identity.Name)

	_, err = p.GetUser(context.Background(), "bad")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestSupabase_UpstreamFailure(t *testing.T) {
	p := newGoTrue(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := p.GetUser(context.Background(), "tok")
	require.ErrorIs(t, err, ErrUpstream)

	err = p.SignOut(context.Background(), "tok")
	require.ErrorIs(t, err, ErrUpstream)
}

func TestSupabase_SignOut(t *testing.T) {
	called := false
	p := newGoTrue(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/v1/logout", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, p.SignOut(context.Background(), "tok"))
	assert.True(t, called)
}
