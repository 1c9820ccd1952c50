package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/note-api/internal/authprovider"
	"github.com/yukikurage/note-api/internal/models"
)

func TestProfileService_Onboard(t *testing.T) {
	env := setupServiceEnv(t)
	ctx := context.Background()

	identity, err := env.profiles.Onboard(ctx, OnboardInput{Email: "ann@example.com", Password: "secret123", Name: "Ann"})
	require.NoError(t, err)
	assert.Equal(t, "Ann", identity.Name)

	_, err = env.profiles.Onboard(ctx, OnboardInput{Email: "ann@example.com", Password: "secret123", Name: "Ann"})
	require.ErrorIs(t, err, authprovider.ErrEmailTaken)

	_, err = env.profiles.Onboard(ctx, OnboardInput{Email: "bo@example.com", Password: "secret123"})
	require.ErrorIs(t, err, ErrNameRequired)
}

func TestProfileService_LoginCreatesMissingProfile(t *testing.T) {
	env := setupServiceEnv(t)
	ctx := context.Background()
	env.provider.add(authprovider.Identity{ID: "u1", Email: "ann@example.com"})

	result, err := env.profiles.Login(ctx, LoginInput{Email: "ann@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "token-u1", result.Token)
	assert.Equal(t, models.AccountStatusActive, result.Profile.Status)
	assert.Equal(t, "User", result.Profile.Name)

	again, err := env.profiles.Login(ctx, LoginInput{Email: "ann@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, result.Profile.ID, again.Profile.ID)

	var count int64
	require.NoError(t, env.db.Model(&models.Profile{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestProfileService_ConcurrentLogins(t *testing.T) {
	env := setupServiceEnv(t)
	env.provider.add(authprovider.Identity{ID: "u1", Email: "ann@example.com", Name: "Ann"})

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.profiles.Login(context.Background(), LoginInput{Email: "ann@example.com", Password: "secret123"})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
}

func TestProfileService_LoginFailures(t *testing.T) {
	env := setupServiceEnv(t)
	ctx := context.Background()
	env.provider.add(authprovider.Identity{ID: "u1", Email: "ann@example.com", Name: "Ann"})

	_, err := env.profiles.Login(ctx, LoginInput{Email: "ann@example.com", Password: "nope"})
	require.ErrorIs(t, err, authprovider.ErrInvalidCredentials)

	_, err = env.profiles.Login(ctx, LoginInput{Email: "ann@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = env.profiles.UpdateAccountStatus(ctx, "u1", models.AccountStatusInactive)
	require.NoError(t, err)
	_, err = env.profiles.Login(ctx, LoginInput{Email: "ann@example.com", Password: "secret123"})
	require.ErrorIs(t, err, ErrAccountInactive)

	_, err = env.profiles.SoftDeleteAccount(ctx, "u1")
	require.NoError(t, err)
	_, err = env.profiles.Login(ctx, LoginInput{Email: "ann@example.com", Password: "secret123"})
	require.ErrorIs(t, err, ErrAccountDeleted)
}

func TestProfileService_Updates(t *testing.T) {
	env := setupServiceEnv(t)
	ctx := context.Background()
	env.provider.add(authprovider.Identity{ID: "u1", Email: "ann@example.com", Name: "Ann"})

	_, err := env.profiles.GetProfile(ctx, "u1")
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = env.profiles.Login(ctx, LoginInput{Email: "ann@example.com", Password: "secret123"})
	require.NoError(t, err)

	profile, err := env.profiles.UpdateProfile(ctx, "u1", "Annie")
	require.NoError(t, err)
	assert.Equal(t, "Annie", profile.Name)

	_, err = env.profiles.UpdateProfile(ctx, "u1", " ")
	require.ErrorIs(t, err, ErrNameRequired)

	_, err = env.profiles.UpdateAccountStatus(ctx, "u1", models.AccountStatusActive)
	require.ErrorIs(t, err, ErrStatusUnchanged)

	_, err = env.profiles.UpdateAccountStatus(ctx, "u1", "suspended")
	require.ErrorIs(t, err, ErrInvalidAccountStatus)

	deleted, err := env.profiles.SoftDeleteAccount(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted)

	_, err = env.profiles.SoftDeleteAccount(ctx, "u1")
	require.ErrorIs(t, err, ErrAccountAlreadyDeleted)
}

func TestProfileService_Logout(t *testing.T) {
	env := setupServiceEnv(t)
	ctx := context.Background()
	env.provider.add(authprovider.Identity{ID: "u1", Email: "ann@example.com"})

	require.NoError(t, env.profiles.Logout(ctx, "token-u1"))
	require.ErrorIs(t, env.profiles.Logout(ctx, "bogus"), authprovider.ErrInvalidToken)
}
