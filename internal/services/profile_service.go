package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/note-api/internal/authprovider"
	"github.com/yukikurage/note-api/internal/constants"
	"github.com/yukikurage/note-api/internal/models"
	"github.com/yukikurage/note-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrProfileUnavailable    = errors.New("user profile not found and could not be created")
	ErrAccountDeleted        = errors.New("account has been deleted")
	ErrAccountInactive       = errors.New("account is inactive")
	ErrAccountAlreadyDeleted = errors.New("account already deleted")
	ErrStatusUnchanged       = errors.New("account is already in the requested status")
	ErrInvalidAccountStatus  = errors.New("status must be active or inactive")
	ErrNameRequired          = errors.New("name is required")
)

// ProfileService handles sign-up, sign-in and the profile record.
type ProfileService struct {
	profileRepo repository.ProfileRepository
	provider    authprovider.Provider
}

// NewProfileService creates a new ProfileService.
func NewProfileService(profileRepo repository.ProfileRepository, provider authprovider.Provider) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		provider:    provider,
	}
}

// OnboardInput represents the information needed to register.
type OnboardInput struct {
	Email    string
	Password string
	Name     string
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is the session token with the profile it belongs to.
type LoginResult struct {
	Token   string
	Profile *models.Profile
}

// Onboard registers the credentials with the identity provider. The profile
// row is created on first login.
func (s *ProfileService) Onboard(ctx context.Context, input OnboardInput) (*authprovider.Identity, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	identity, err := s.provider.SignUp(ctx, strings.TrimSpace(input.Email), input.Password, name)
	if err != nil {
		return nil, fmt.Errorf("failed to sign up: %w", err)
	}
	if identity.Name == "" {
		identity.Name = name
	}
	return identity, nil
}

// Login signs in with the identity provider and loads the profile, creating
// it when missing. Concurrent logins for the same new identity both succeed.
func (s *ProfileService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	session, err := s.provider.SignIn(ctx, strings.TrimSpace(input.Email), input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to sign in: %w", err)
	}

	profile, err := s.ensureProfile(ctx, session.Identity)
	if err != nil {
		return nil, err
	}

	if profile.IsDeleted {
		return nil, ErrAccountDeleted
	}
	if profile.Status == models.AccountStatusInactive {
		return nil, ErrAccountInactive
	}

	return &LoginResult{Token: session.AccessToken, Profile: profile}, nil
}

// Logout revokes the access token.
func (s *ProfileService) Logout(ctx context.Context, token string) error {
	if err := s.provider.SignOut(ctx, token); err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}
	return nil
}

// GetProfile returns the profile of a user.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	return profile, nil
}

// UpdateProfile renames the user.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID, name string) (*models.Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	profile, err := s.profileRepo.Update(ctx, userID, map[string]any{"name": name})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}

// UpdateAccountStatus switches the account between active and inactive.
func (s *ProfileService) UpdateAccountStatus(ctx context.Context, userID string, status models.AccountStatus) (*models.Profile, error) {
	if status != models.AccountStatusActive && status != models.AccountStatusInactive {
		return nil, ErrInvalidAccountStatus
	}

	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile.Status == status {
		return nil, ErrStatusUnchanged
	}

	profile, err = s.profileRepo.Update(ctx, userID, map[string]any{"status": status})
	if err != nil {
		return nil, fmt.Errorf("failed to update account status: %w", err)
	}
	return profile, nil
}

// SoftDeleteAccount flags the profile deleted. Later logins are refused.
func (s *ProfileService) SoftDeleteAccount(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	if err != nil || profile.IsDeleted {
		return nil, ErrAccountAlreadyDeleted
	}

	profile, err = s.profileRepo.Update(ctx, userID, map[string]any{"is_deleted": true})
	if err != nil {
		return nil, fmt.Errorf("failed to delete account: %w", err)
	}
	return profile, nil
}

// ensureProfile loads the profile for identity, inserting a default one when
// absent. The insert ignores a duplicate written by a concurrent login.
func (s *ProfileService) ensureProfile(ctx context.Context, identity authprovider.Identity) (*models.Profile, error) {
	profile, err := s.profileRepo.FindByID(ctx, identity.ID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}

	name := identity.Name
	if name == "" {
		name = constants.DefaultProfileName
	}

	if err := s.profileRepo.CreateIfMissing(ctx, &models.Profile{
		ID:     identity.ID,
		Name:   name,
		Email:  identity.Email,
		Status: models.AccountStatusActive,
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileUnavailable, err)
	}

	profile, err = s.profileRepo.FindByID(ctx, identity.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileUnavailable, err)
	}
	return profile, nil
}
