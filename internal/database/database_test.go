package database

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/note-api/internal/config"
	"github.com/yukikurage/note-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db
}

func TestMigrate_IsIdempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db, zerolog.Nop()))
	require.NoError(t, Migrate(db, zerolog.Nop()))

	assert.True(t, db.Migrator().HasIndex(&models.Todo{}, "idx_todos_user_created"))
	assert.True(t, db.Migrator().HasIndex(&models.Label{}, "idx_labels_user_name"))
}

func TestScopes(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db, zerolog.Nop()))

	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, db.Create(&models.Todo{ID: "t1", UserID: "u1", Title: "old one", CreatedAt: old}).Error)
	require.NoError(t, db.Create(&models.Todo{ID: "t2", UserID: "u1", Title: "new one"}).Error)
	require.NoError(t, db.Create(&models.Todo{ID: "t3", UserID: "u2", Title: "other owner"}).Error)
	require.NoError(t, db.Create(&models.Todo{ID: "t4", UserID: "u1", Title: "deleted", IsDeleted: true}).Error)

	var ids []string
	from := time.Now().Add(-time.Hour)
	err := db.Model(&models.Todo{}).
		Scopes(OwnedBy("todos", "u1"), Active("todos"), CreatedBetween("todos", &from, nil)).
		Order("id").
		Pluck("id", &ids).Error
	require.NoError(t, err)
	assert.Equal(t, []string{"t2"}, ids)
}

func TestDialector(t *testing.T) {
	d, err := Dialector(&config.Config{DBDriver: config.DriverPostgres, DatabaseURL: "postgres://localhost/notes"})
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	d, err = Dialector(&config.Config{DBDriver: config.DriverMySQL, DBUser: "u", DBHost: "h", DBPort: "3306", DBName: "n"})
	require.NoError(t, err)
	assert.Equal(t, "mysql", d.Name())

	_, err = Dialector(&config.Config{DBDriver: "oracle"})
	require.Error(t, err)
}
