package models

import "time"

// TodoLabel links a todo to a label. It has no identity of its own.
type TodoLabel struct {
	TodoID    string    `gorm:"type:varchar(36);primaryKey" json:"todo_id"`
	LabelID   string    `gorm:"type:varchar(36);primaryKey;index" json:"label_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Label *Label `gorm:"foreignKey:LabelID" json:"label,omitempty"`
}
