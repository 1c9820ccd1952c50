package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/yukikurage/note-api/internal/database"
	"github.com/yukikurage/note-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTodoRepository is a GORM implementation of TodoRepository
type GormTodoRepository struct {
	db *gorm.DB
}

// NewTodoRepository creates a new TodoRepository
func NewTodoRepository(db *gorm.DB) TodoRepository {
	return &GormTodoRepository{db: db}
}

// Create inserts a todo and its label links in one transaction
func (r *GormTodoRepository) Create(ctx context.Context, todo *models.Todo, labelIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(todo).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateTodo, err)
		}

		if err := linkLabels(tx, todo.ID, labelIDs); err != nil {
			return err
		}

		return nil
	})
}

// FindByID finds a todo owned by userID with its labels resolved
func (r *GormTodoRepository) FindByID(ctx context.Context, userID, id string) (*models.Todo, error) {
	var todo models.Todo
	if err := r.db.WithContext(ctx).
		Preload("TodoLabels.Label").
		Scopes(database.OwnedBy("todos", userID)).
		Where("todos.id = ?", id).
		First(&todo).Error; err != nil {
		return nil, err
	}
	return &todo, nil
}

// List retrieves todos with filtering, newest first
func (r *GormTodoRepository) List(ctx context.Context, filter TodoFilter) ([]models.Todo, error) {
	var todos []models.Todo

	query := r.db.WithContext(ctx).
		Model(&models.Todo{}).
		Scopes(
			database.OwnedBy("todos", filter.UserID),
			database.CreatedBetween("todos", filter.From, filter.To),
		)

	// Apply filters
	if filter.Status != nil {
		query = query.Where("todos.status = ?", *filter.Status)
	}
	if filter.IsArchived != nil {
		query = query.Where("todos.is_archived = ?", *filter.IsArchived)
	}
	if filter.IsPinned != nil {
		query = query.Where("todos.is_pinned = ?", *filter.IsPinned)
	}
	if filter.IsDeleted != nil {
		query = query.Where("todos.is_deleted = ?", *filter.IsDeleted)
	}
	if filter.Title != "" {
		query = query.Where("LOWER(todos.title) LIKE ?", "%"+strings.ToLower(filter.Title)+"%")
	}
	if filter.LabelID != "" {
		labelSubQuery := r.db.Model(&models.TodoLabel{}).
			Select("1").
			Where("todo_labels.todo_id = todos.id").
			Where("todo_labels.label_id = ?", filter.LabelID)
		query = query.Where("EXISTS (?)", labelSubQuery)
	}

	if err := query.
		Order("todos.created_at DESC").
		Preload("TodoLabels.Label").
		Find(&todos).Error; err != nil {
		return nil, err
	}

	return todos, nil
}

// Update writes columns and optionally replaces the label set atomically
func (r *GormTodoRepository) Update(ctx context.Context, userID, id string, fields map[string]any, labelIDs *[]string) (*models.Todo, error) {
	var todo models.Todo
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(fields) > 0 {
			res := tx.Model(&models.Todo{}).
				Where("id = ? AND user_id = ?", id, userID).
				Updates(fields)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}

		// A soft-deleted todo keeps no label links.
		trashed := fields["is_deleted"] == true
		if labelIDs != nil || trashed {
			if err := tx.Where("todo_id = ?", id).Delete(&models.TodoLabel{}).Error; err != nil {
				return fmt.Errorf("%w: %v", ErrUnlinkLabels, err)
			}
		}
		if labelIDs != nil && !trashed {
			if err := linkLabels(tx, id, *labelIDs); err != nil {
				return err
			}
		}

		return tx.Where("id = ? AND user_id = ?", id, userID).First(&todo).Error
	})
	if err != nil {
		return nil, err
	}
	return &todo, nil
}

// Delete hard deletes a todo and its label links
func (r *GormTodoRepository) Delete(ctx context.Context, userID, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("todo_id = ?", id).Delete(&models.TodoLabel{}).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrUnlinkLabels, err)
		}

		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Todo{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// AddLabel links a label to a todo
func (r *GormTodoRepository) AddLabel(ctx context.Context, todoID, labelID string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.TodoLabel{TodoID: todoID, LabelID: labelID}).Error
}

// RemoveLabel unlinks a label from a todo
func (r *GormTodoRepository) RemoveLabel(ctx context.Context, todoID, labelID string) error {
	return r.db.WithContext(ctx).
		Where("todo_id = ? AND label_id = ?", todoID, labelID).
		Delete(&models.TodoLabel{}).Error
}

func linkLabels(tx *gorm.DB, todoID string, labelIDs []string) error {
	labelIDs = uniqueStrings(labelIDs)
	if len(labelIDs) == 0 {
		return nil
	}

	links := make([]models.TodoLabel, len(labelIDs))
	for i, labelID := range labelIDs {
		links[i] = models.TodoLabel{
			TodoID:  todoID,
			LabelID: labelID,
		}
	}

	if err := tx.Create(&links).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrLinkLabels, err)
	}
	return nil
}

// uniqueStrings removes duplicates while keeping first-seen order
func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
