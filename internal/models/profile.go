package models

import "time"

type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "active"
	AccountStatusInactive AccountStatus = "inactive"
)

// Profile is keyed by the identity provider's user ID.
type Profile struct {
	ID        string        `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string        `gorm:"type:varchar(255);not null" json:"name"`
	Email     string        `gorm:"type:varchar(255);not null" json:"email"`
	Status    AccountStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	IsDeleted bool          `gorm:"not null;default:false" json:"is_deleted"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
