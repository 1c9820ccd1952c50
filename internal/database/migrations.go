package database

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yukikurage/note-api/internal/models"
	"gorm.io/gorm"
)

// AddIndexes adds the composite indexes used by the list queries.
func AddIndexes(db *gorm.DB, log zerolog.Logger) error {
	indexes := []struct {
		model   any
		table   string
		name    string
		columns string
	}{
		// Newest-first listing per owner
		{&models.Todo{}, "todos", "idx_todos_user_created", "user_id, created_at"},
		// Default list filter
		{&models.Todo{}, "todos", "idx_todos_user_deleted_status", "user_id, is_deleted, status"},
		// Active label listing
		{&models.Label{}, "labels", "idx_labels_user_deleted", "user_id, is_deleted"},
		// Token expiry sweep
		{&models.AccessToken{}, "access_tokens", "idx_access_tokens_expires_at", "expires_at"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.model, idx.name) {
			log.Debug().Str("index", idx.name).Msg("index already exists, skipping")
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info().Str("index", idx.name).Str("table", idx.table).Msg("created index")
	}

	return nil
}
