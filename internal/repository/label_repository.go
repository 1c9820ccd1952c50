package repository

import (
	"context"
	"fmt"

	"github.com/yukikurage/note-api/internal/database"
	"github.com/yukikurage/note-api/internal/models"
	"gorm.io/gorm"
)

// GormLabelRepository is a GORM implementation of LabelRepository
type GormLabelRepository struct {
	db *gorm.DB
}

// NewLabelRepository creates a new LabelRepository
func NewLabelRepository(db *gorm.DB) LabelRepository {
	return &GormLabelRepository{db: db}
}

// Create inserts a label
func (r *GormLabelRepository) Create(ctx context.Context, label *models.Label) error {
	return r.db.WithContext(ctx).Create(label).Error
}

// FindByID finds an active label owned by userID
func (r *GormLabelRepository) FindByID(ctx context.Context, userID, id string) (*models.Label, error) {
	var label models.Label
	if err := r.db.WithContext(ctx).
		Scopes(database.OwnedBy("labels", userID), database.Active("labels")).
		Where("labels.id = ?", id).
		First(&label).Error; err != nil {
		return nil, err
	}
	return &label, nil
}

// FindByNameIncludingDeleted finds a label by name regardless of its deleted flag
func (r *GormLabelRepository) FindByNameIncludingDeleted(ctx context.Context, userID, name string) (*models.Label, error) {
	var label models.Label
	if err := r.db.WithContext(ctx).
		Scopes(database.OwnedBy("labels", userID)).
		Where("labels.name = ?", name).
		First(&label).Error; err != nil {
		return nil, err
	}
	return &label, nil
}

// List lists the active labels of a user
func (r *GormLabelRepository) List(ctx context.Context, userID string) ([]models.Label, error) {
	var labels []models.Label
	if err := r.db.WithContext(ctx).
		Scopes(database.OwnedBy("labels", userID), database.Active("labels")).
		Order("labels.name ASC").
		Find(&labels).Error; err != nil {
		return nil, err
	}
	return labels, nil
}

// Update writes the given columns of an active label owned by userID
func (r *GormLabelRepository) Update(ctx context.Context, userID, id string, fields map[string]any) (*models.Label, error) {
	db := r.db.WithContext(ctx)

	res := db.Model(&models.Label{}).
		Where("id = ? AND user_id = ? AND is_deleted = ?", id, userID, false).
		Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var label models.Label
	if err := db.Where("id = ? AND user_id = ?", id, userID).First(&label).Error; err != nil {
		return nil, err
	}
	return &label, nil
}

// Restore clears the deleted flag of a label owned by userID
func (r *GormLabelRepository) Restore(ctx context.Context, userID, id string) (*models.Label, error) {
	db := r.db.WithContext(ctx)

	res := db.Model(&models.Label{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_deleted", false)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var label models.Label
	if err := db.Where("id = ? AND user_id = ?", id, userID).First(&label).Error; err != nil {
		return nil, err
	}
	return &label, nil
}

// SoftDelete flags the label deleted and removes its todo links in one transaction
func (r *GormLabelRepository) SoftDelete(ctx context.Context, userID, id string, trashTodos bool) (*models.Label, error) {
	var label models.Label
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(database.OwnedBy("labels", userID), database.Active("labels")).
			Where("labels.id = ?", id).
			First(&label).Error; err != nil {
			return err
		}

		ownedTodos := tx.Model(&models.Todo{}).Select("id").Where("user_id = ?", userID)

		if trashTodos {
			linked := tx.Model(&models.TodoLabel{}).Select("todo_id").Where("label_id = ?", id)
			if err := tx.Model(&models.Todo{}).
				Where("user_id = ? AND id IN (?)", userID, linked).
				Update("status", models.TodoStatusBin).Error; err != nil {
				return fmt.Errorf("failed to trash labelled todos: %w", err)
			}
		}

		if err := tx.Where("label_id = ? AND todo_id IN (?)", id, ownedTodos).
			Delete(&models.TodoLabel{}).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrUnlinkLabels, err)
		}

		if err := tx.Model(&label).Update("is_deleted", true).Error; err != nil {
			return err
		}
		label.IsDeleted = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &label, nil
}

// CountActive counts how many of the given IDs are active labels owned by userID
func (r *GormLabelRepository) CountActive(ctx context.Context, userID string, ids []string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Label{}).
		Scopes(database.OwnedBy("labels", userID), database.Active("labels")).
		Where("labels.id IN ?", ids).
		Count(&count).Error
	return count, err
}
