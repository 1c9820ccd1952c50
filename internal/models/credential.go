package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Credential is an identity held by the built-in local auth provider.
type Credential struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Name         string    `gorm:"type:varchar(255)" json:"name"`
	CreatedAt    time.Time `json:"created_at"`
}

// BeforeCreate hook to generate ID if not set
func (c *Credential) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// AccessToken stores the SHA-256 digest of an issued bearer token.
type AccessToken struct {
	Digest       string    `gorm:"type:varchar(64);primaryKey" json:"-"`
	CredentialID string    `gorm:"type:varchar(36);not null;index" json:"credential_id"`
	ExpiresAt    time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`

	Credential Credential `gorm:"foreignKey:CredentialID" json:"-"`
}
