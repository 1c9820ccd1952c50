package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/note-api/internal/models"
)

func TestLabelService_CreateRejectsDuplicate(t *testing.T) {
	env := setupServiceEnv(t)
	ctx := context.Background()

	label, err := env.labels.Create(ctx, "u1", "  work ")
	require.NoError(t, err)
	assert.Equal(t, "work", label.Name)

	_, err = env.labels.Create(ctx, "u1", "work")
	require.ErrorIs(t, err, ErrLabelExists)

	other, err := env.labels.Create(ctx, "u2", "work")
	require.NoError(t, err)
	assert.NotEqual(t, label.ID, other.ID)
}

func TestLabelService_CreateValidatesName(t *testing.T) {
	env := setupServiceEnv(t)
	ctx := context.Background()

	_, err := env.labels.Create(ctx, "u1", "   ")
	require.ErrorIs(t, err, ErrLabelNameRequired)

	_, err = env.labels.Create(ctx, "u1", strings.Repeat("x", 51))
	require.ErrorIs(t, err, ErrLabelNameTooLong)
}

func TestLabelService_DeleteIsSoft(t *testing.T) {
	env := setupServiceEnv(t)
	ctx := context.Background()

	work, err := env.labels.Create(ctx, "u1", "work")
	require.NoError(t, err)
	_, err = env.labels.Create(ctx, "u1", "home")
	require.NoError(t, err)

	deleted, err := env.labels.Delete(ctx, "u1", work.ID, false)
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted)

	labels, err := env.labels.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, labels, 1)
	assert.Equal(t, "home", labels[0].Name)

	_, err = env.labels.Get(ctx, "u1", work.ID)
	require.ErrorIs(t, err, ErrLabelNotFound)

	found, err := env.labels.FindIncludingDeleted(ctx, "u1", "work")
	require.NoError(t, err)
	assert.Equal(t, work.ID, found.ID)
	assert.True(t, found.IsDeleted)

	_, err = env.labels.Delete(ctx, "u1", work.ID, false)
	require.ErrorIs(t, err, ErrLabelNotFound)

	revived, err := env.labels.Create(ctx, "u1", "work")
	require.NoError(t, err)
	assert.Equal(t, work.ID, revived.ID)
	assert.False(t, revived.IsDeleted)
}

func TestLabelService_DeleteTrashesTodos(t *testing.T) {
	env := setupServiceEnv(t)
	ctx := context.Background()

	work, err := env.labels.Create(ctx, "u1", "work")
	require.NoError(t, err)
	todo, err := env.todos.Create(ctx, "u1", CreateTodoInput{Title: "Report", Labels: []string{work.ID}})
	require.NoError(t, err)

	_, err = env.labels.Delete(ctx, "u1", work.ID, true)
	require.NoError(t, err)

	bin := models.TodoStatusBin
	todos, err := env.todos.List(ctx, "u1", ListTodosInput{Status: &bin})
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, todo.ID, todos[0].ID)
	assert.Empty(t, todos[0].Labels())
}

func TestLabelService_Update(t *testing.T) {
	env := setupServiceEnv(t)
	ctx := context.Background()

	work, err := env.labels.Create(ctx, "u1", "work")
	require.NoError(t, err)
	_, err = env.labels.Create(ctx, "u1", "home")
	require.NoError(t, err)

	renamed, err := env.labels.Update(ctx, "u1", work.ID, "office")
	require.NoError(t, err)
	require.NotNil(t, renamed)
	assert.Equal(t, "office", renamed.Name)

	_, err = env.labels.Update(ctx, "u1", work.ID, "home")
	require.ErrorIs(t, err, ErrLabelExists)

	missing, err := env.labels.Update(ctx, "u2", work.ID, "stolen")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
