package notestore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/note-api/internal/authprovider"
	"github.com/yukikurage/note-api/internal/config"
	"github.com/yukikurage/note-api/internal/database"
	"github.com/yukikurage/note-api/internal/server"
	"github.com/yukikurage/note-api/pkg/client"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func startServer(t *testing.T) *client.Client {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db, zerolog.Nop()))

	router, err := server.NewRouter(server.Deps{
		Config:   &config.Config{Env: "test"},
		DB:       db,
		Provider: authprovider.NewLocal(db, time.Hour),
		Sessions: cookie.NewStore([]byte("test-secret")),
		Logger:   zerolog.Nop(),
	})
	require.NoError(t, err)

	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		srv.Close()
		sqlDB.Close()
	})

	return client.NewClient(srv.URL)
}

func TestEndToEnd_NoteLifecycle(t *testing.T) {
	c := startServer(t)
	ctx := context.Background()

	_, err := c.Onboard(ctx, "e2e@example.com", "secret123", "Eve")
	require.NoError(t, err)

	store := New(c, zerolog.Nop())
	err = store.Refresh(ctx)
	require.ErrorIs(t, err, ErrUnauthorized)

	login, err := c.Login(ctx, "e2e@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "Eve", login.Name)

	require.NoError(t, store.Refresh(ctx))
	assert.Empty(t, store.Notes())

	_, err = store.Create(ctx, NoteInput{Title: "Buy milk", Content: "2%\n1 gal"})
	require.NoError(t, err)

	notes := store.Notes()
	require.Len(t, notes, 1)
	assert.Equal(t, "2%\n1 gal", notes[0].Content)
	assert.Empty(t, notes[0].Labels)

	note := notes[0]
	note.Labels = []string{"errands"}
	note.Status = StatusInProgress
	require.NoError(t, store.Update(ctx, note))

	note = store.Notes()[0]
	assert.Equal(t, []string{"errands"}, note.Labels)
	assert.Equal(t, StatusInProgress, note.Status)

	labels := store.Labels()
	require.Len(t, labels, 1)
	require.NotEmpty(t, labels[0].ID)

	require.NoError(t, store.DeleteLabel(ctx, labels[0]))
	assert.Empty(t, store.Labels())
	assert.Empty(t, store.Notes()[0].Labels)

	require.NoError(t, store.Delete(ctx, note.ID, client.ActionBin))
	assert.Len(t, store.Filter(ViewTrash, "", ""), 1)

	err = store.Delete(ctx, note.ID, client.ActionBin)
	require.NoError(t, err)
	assert.Empty(t, store.Notes())

	err = store.Delete(ctx, note.ID, client.ActionBin)
	assert.True(t, client.IsStatus(err, http.StatusNotFound))
}
