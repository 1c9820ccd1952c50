package authprovider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/note-api/internal/constants"
	"github.com/yukikurage/note-api/internal/models"
	"github.com/yukikurage/note-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Local keeps credentials and access tokens in the application database.
// Tokens are random and stored only as SHA-256 digests.
type Local struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// NewLocal creates a local provider issuing tokens valid for ttl.
func NewLocal(db *gorm.DB, ttl time.Duration) *Local {
	if ttl <= 0 {
		ttl = constants.DefaultTokenTTL
	}
	return &Local{db: db, ttl: ttl, now: time.Now}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp stores a bcrypt hash of password for email.
func (l *Local) SignUp(ctx context.Context, email, password, name string) (*Identity, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrRejected)
	}
	if len(password) < constants.MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrRejected, constants.MinPasswordLength)
	}

	db := l.db.WithContext(ctx)

	var existing models.Credential
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	credential := &models.Credential{
		Email:        email,
		PasswordHash: string(hashedPassword),
		Name:         strings.TrimSpace(name),
	}
	if err := db.Create(credential).Error; err != nil {
		return nil, fmt.Errorf("failed to create credential: %w", err)
	}

	return &Identity{ID: credential.ID, Email: credential.Email, Name: credential.Name}, nil
}

// SignIn verifies the password and issues a new access token.
func (l *Local) SignIn(ctx context.Context, email, password string) (*Session, error) {
	db := l.db.WithContext(ctx)

	var credential models.Credential
	if err := db.Where("email = ?", normalizeEmail(email)).First(&credential).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find credential: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(credential.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken()
	if err != nil {
		return nil, err
	}

	accessToken := &models.AccessToken{
		Digest:       utils.TokenDigest(token),
		CredentialID: credential.ID,
		ExpiresAt:    l.now().Add(l.ttl),
	}
	if err := db.Create(accessToken).Error; err != nil {
		return nil, fmt.Errorf("failed to store access token: %w", err)
	}

	return &Session{
		AccessToken: token,
		Identity:    Identity{ID: credential.ID, Email: credential.Email, Name: credential.Name},
	}, nil
}

// GetUser resolves an unexpired token.
func (l *Local) GetUser(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	var accessToken models.AccessToken
	err := l.db.WithContext(ctx).
		Preload("Credential").
		Where("digest = ? AND expires_at > ?", utils.TokenDigest(token), l.now()).
		First(&accessToken).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to find access token: %w", err)
	}

	c := accessToken.Credential
	return &Identity{ID: c.ID, Email: c.Email, Name: c.Name}, nil
}

// SignOut deletes the token. Signing out an unknown token fails with ErrInvalidToken.
func (l *Local) SignOut(ctx context.Context, token string) error {
	res := l.db.WithContext(ctx).
		Where("digest = ?", utils.TokenDigest(token)).
		Delete(&models.AccessToken{})
	if res.Error != nil {
		return fmt.Errorf("failed to revoke access token: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrInvalidToken
	}
	return nil
}

// PurgeExpired removes tokens that expired before now.
func (l *Local) PurgeExpired(ctx context.Context) (int64, error) {
	res := l.db.WithContext(ctx).
		Where("expires_at <= ?", l.now()).
		Delete(&models.AccessToken{})
	return res.RowsAffected, res.Error
}
