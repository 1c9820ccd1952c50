package authprovider

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/note-api/internal/database"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupLocal(t *testing.T) *Local {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, zerolog.Nop()))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return NewLocal(db, time.Hour)
}

func TestLocal_SignUpSignInGetUser(t *testing.T) {
	p := setupLocal(t)
	ctx := context.Background()

	identity, err := p.SignUp(ctx, " Ann@Example.com ", "secret123", "Ann")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", identity.Email)
	assert.NotEmpty(t, identity.ID)

	_, err = p.SignUp(ctx, "ann@example.com", "another1", "Ann")
	require.ErrorIs(t, err, ErrEmailTaken)

	_, err = p.SignIn(ctx, "ann@example.com", "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = p.SignIn(ctx, "nobody@example.com", "secret123")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	session, err := p.SignIn(ctx, "ANN@example.com", "secret123")
	require.NoError(t, err)
	assert.Len(t, session.AccessToken, 64)
	assert.Equal(t, *identity, session.Identity)

	resolved, err := p.GetUser(ctx, session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, identity, resolved)
}

func TestLocal_ShortPassword(t *testing.T) {
	p := setupLocal(t)

	_, err := p.SignUp(context.Background(), "ann@example.com", "123", "Ann")
	require.ErrorIs(t, err, ErrRejected)
}

func TestLocal_SignOutRevokesToken(t *testing.T) {
	p := setupLocal(t)
	ctx := context.Background()

	_, err := p.SignUp(ctx, "ann@example.com", "secret123", "Ann")
	require.NoError(t, err)
	session, err := p.SignIn(ctx, "ann@example.com", "secret123")
	require.NoError(t, err)

	require.NoError(t, p.SignOut(ctx, session.AccessToken))

	_, err = p.GetUser(ctx, session.AccessToken)
	require.ErrorIs(t, err, ErrInvalidToken)

	require.ErrorIs(t, p.SignOut(ctx, session.AccessToken), ErrInvalidToken)
}

func TestLocal_ExpiredToken(t *testing.T) {
	p := setupLocal(t)
	ctx := context.Background()

	_, err := p.SignUp(ctx, "ann@example.com", "secret123", "Ann")
	require.NoError(t, err)
	session, err := p.SignIn(ctx, "ann@example.com", "secret123")
	require.NoError(t, err)

	p.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err = p.GetUser(ctx, session.AccessToken)
	require.ErrorIs(t, err, ErrInvalidToken)

	purged, err := p.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}
