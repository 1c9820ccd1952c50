package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yukikurage/note-api/internal/constants"
	"github.com/yukikurage/note-api/internal/models"
	"github.com/yukikurage/note-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrLabelNameRequired = errors.New("label name is required")
	ErrLabelNameTooLong  = fmt.Errorf("label name cannot exceed %d characters", constants.MaxLabelNameLength)
	ErrLabelExists       = errors.New("label already exists")
)

// LabelService handles label business logic
type LabelService struct {
	labelRepo repository.LabelRepository
}

// NewLabelService creates a new LabelService
func NewLabelService(labelRepo repository.LabelRepository) *LabelService {
	return &LabelService{labelRepo: labelRepo}
}

// Create adds a label. Creating a name that was soft-deleted brings the old label back.
func (s *LabelService) Create(ctx context.Context, userID, name string) (*models.Label, error) {
	name, err := normalizeLabelName(name)
	if err != nil {
		return nil, err
	}

	existing, err := s.labelRepo.FindByNameIncludingDeleted(ctx, userID, name)
	switch {
	case err == nil && !existing.IsDeleted:
		return nil, ErrLabelExists
	case err == nil:
		label, err := s.labelRepo.Restore(ctx, userID, existing.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to restore label: %w", err)
		}
		return label, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("failed to check label name: %w", err)
	}

	label := &models.Label{UserID: userID, Name: name}
	if err := s.labelRepo.Create(ctx, label); err != nil {
		return nil, fmt.Errorf("failed to create label: %w", err)
	}
	return label, nil
}

// Get returns an active label
func (s *LabelService) Get(ctx context.Context, userID, id string) (*models.Label, error) {
	label, err := s.labelRepo.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLabelNotFound
		}
		return nil, fmt.Errorf("failed to find label: %w", err)
	}
	return label, nil
}

// List returns the active labels ordered by name
func (s *LabelService) List(ctx context.Context, userID string) ([]models.Label, error) {
	labels, err := s.labelRepo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}
	return labels, nil
}

// Update renames a label. A missing or foreign label yields nil without error.
func (s *LabelService) Update(ctx context.Context, userID, id, name string) (*models.Label, error) {
	name, err := normalizeLabelName(name)
	if err != nil {
		return nil, err
	}

	existing, err := s.labelRepo.FindByNameIncludingDeleted(ctx, userID, name)
	if err == nil && existing.ID != id {
		return nil, ErrLabelExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check label name: %w", err)
	}

	label, err := s.labelRepo.Update(ctx, userID, id, map[string]any{"name": name})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update label: %w", err)
	}
	return label, nil
}

// Delete soft-deletes a label and unlinks it from every todo. With trashTodos
// the todos that carried it move to bin.
func (s *LabelService) Delete(ctx context.Context, userID, id string, trashTodos bool) (*models.Label, error) {
	label, err := s.labelRepo.SoftDelete(ctx, userID, id, trashTodos)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLabelNotFound
		}
		return nil, fmt.Errorf("failed to delete label: %w", err)
	}
	return label, nil
}

// FindIncludingDeleted looks a label up by name regardless of its deleted flag
func (s *LabelService) FindIncludingDeleted(ctx context.Context, userID, name string) (*models.Label, error) {
	label, err := s.labelRepo.FindByNameIncludingDeleted(ctx, userID, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLabelNotFound
		}
		return nil, fmt.Errorf("failed to find label: %w", err)
	}
	return label, nil
}

func normalizeLabelName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrLabelNameRequired
	}
	if utf8.RuneCountInString(name) > constants.MaxLabelNameLength {
		return "", ErrLabelNameTooLong
	}
	return name, nil
}
