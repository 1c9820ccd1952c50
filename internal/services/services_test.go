package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/note-api/internal/authprovider"
	"github.com/yukikurage/note-api/internal/database"
	"github.com/yukikurage/note-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db, zerolog.Nop()))
	return db
}

type serviceEnv struct {
	db       *gorm.DB
	todos    *TodoService
	labels   *LabelService
	profiles *ProfileService
	provider *stubProvider
}

func setupServiceEnv(t *testing.T) serviceEnv {
	t.Helper()

	db := setupTestDB(t)
	todoRepo := repository.NewTodoRepository(db)
	labelRepo := repository.NewLabelRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	provider := newStubProvider()

	return serviceEnv{
		db:       db,
		todos:    NewTodoService(todoRepo, labelRepo),
		labels:   NewLabelService(labelRepo),
		profiles: NewProfileService(profileRepo, provider),
		provider: provider,
	}
}

// stubProvider accepts any password equal to "secret123".
type stubProvider struct {
	users map[string]authprovider.Identity
}

func newStubProvider() *stubProvider {
	return &stubProvider{users: map[string]authprovider.Identity{}}
}

func (p *stubProvider) add(identity authprovider.Identity) {
	p.users[identity.Email] = identity
}

func (p *stubProvider) SignUp(_ context.Context, email, password, name string) (*authprovider.Identity, error) {
	if _, ok := p.users[email]; ok {
		return nil, authprovider.ErrEmailTaken
	}
	identity := authprovider.Identity{ID: "id-" + email, Email: email, Name: name}
	p.users[email] = identity
	return &identity, nil
}

func (p *stubProvider) SignIn(_ context.Context, email, password string) (*authprovider.Session, error) {
	identity, ok := p.users[email]
	if !ok || password != "secret123" {
		return nil, authprovider.ErrInvalidCredentials
	}
	return &authprovider.Session{AccessToken: "token-" + identity.ID, Identity: identity}, nil
}

func (p *stubProvider) GetUser(_ context.Context, token string) (*authprovider.Identity, error) {
	for _, identity := range p.users {
		if "token-"+identity.ID == token {
			return &identity, nil
		}
	}
	return nil, authprovider.ErrInvalidToken
}

func (p *stubProvider) SignOut(ctx context.Context, token string) error {
	_, err := p.GetUser(ctx, token)
	return err
}
