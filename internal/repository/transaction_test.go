package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/note-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func TestTodoRepository_CreatePropagatesBeginFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTodoRepository(db)

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	err := repo.Create(context.Background(), &models.Todo{UserID: "u1", Title: "Buy milk"}, []string{"l1"})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoRepository_UpdateRollsBackOnFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTodoRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "todos" SET`).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	labels := []string{"l1"}
	_, err := repo.Update(context.Background(), "u1", "t1", map[string]any{"title": "Buy bread"}, &labels)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTodoRepository_DeleteRollsBackWhenUnlinkFails(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTodoRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "todo_labels"`).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), "u1", "t1")
	require.ErrorIs(t, err, ErrUnlinkLabels)
	require.NoError(t, mock.ExpectationsWereMet())
}
