package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TodoStatus string

const (
	TodoStatusOpen       TodoStatus = "open"
	TodoStatusInProgress TodoStatus = "in-progress"
	TodoStatusCompleted  TodoStatus = "completed"
	TodoStatusBin        TodoStatus = "bin"
)

// Valid reports whether s is one of the known statuses.
func (s TodoStatus) Valid() bool {
	switch s {
	case TodoStatusOpen, TodoStatusInProgress, TodoStatusCompleted, TodoStatusBin:
		return true
	}
	return false
}

type Todo struct {
	ID          string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID      string     `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Title       string     `gorm:"type:varchar(500);not null" json:"title"`
	Description StringList `gorm:"type:text" json:"description"`
	Status      TodoStatus `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`
	IsPinned    bool       `gorm:"not null;default:false" json:"is_pinned"`
	IsArchived  bool       `gorm:"not null;default:false" json:"is_archived"`
	IsDeleted   bool       `gorm:"not null;default:false" json:"is_deleted"`
	CreatedAt   time.Time  `gorm:"autoCreateTime;<-:create" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations
	TodoLabels []TodoLabel `gorm:"foreignKey:TodoID" json:"-"`
}

// BeforeCreate hook to generate ID if not set
func (t *Todo) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = TodoStatusOpen
	}
	if t.Description == nil {
		t.Description = StringList{}
	}
	return nil
}

// Labels returns the labels resolved through the join rows ordered by name,
// skipping rows whose label was not preloaded.
func (t *Todo) Labels() []Label {
	labels := make([]Label, 0, len(t.TodoLabels))
	for _, tl := range t.TodoLabels {
		if tl.Label == nil || tl.Label.IsDeleted {
			continue
		}
		labels = append(labels, *tl.Label)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i].Name < labels[j].Name })
	return labels
}
