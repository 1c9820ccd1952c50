// Package authprovider verifies credentials and bearer tokens against an
// identity provider. Two implementations exist: Supabase GoTrue over REST
// and a local provider backed by the application database.
package authprovider

import (
	"context"
	"errors"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrEmailTaken         = errors.New("email already registered")
	ErrRejected           = errors.New("identity provider rejected the request")
	ErrUpstream           = errors.New("identity provider request failed")
)

// Identity is the user as known to the identity provider.
type Identity struct {
	ID    string
	Email string
	// Name comes from the user metadata recorded at sign-up, if any.
	Name string
}

// Session is the result of a successful password sign-in.
type Session struct {
	AccessToken string
	Identity    Identity
}

// Provider issues and verifies access tokens.
type Provider interface {
	SignUp(ctx context.Context, email, password, name string) (*Identity, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	GetUser(ctx context.Context, token string) (*Identity, error)
	SignOut(ctx context.Context, token string) error
}
