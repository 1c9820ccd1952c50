package validation

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const todoID = "0b5c6f3e-9a34-4d1c-8f0e-2c1b7d9a6e41"

func newValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := New()
	require.NoError(t, err)
	return v
}

func TestValidate_TodoCreate(t *testing.T) {
	v := newValidator(t)

	errs, err := v.Validate(TodoCreate, map[string]any{
		"title":       "Buy milk",
		"description": []any{"2%", "1 gal"},
		"labels":      []any{todoID},
	})
	require.NoError(t, err)
	assert.Empty(t, errs)

	errs, err = v.Validate(TodoCreate, map[string]any{"description": "no title"})
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, FieldError{Field: "title", Message: "is required"}, errs[0])

	errs, err = v.Validate(TodoCreate, map[string]any{"title": "ok title", "status": "bin"})
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "status", errs[0].Field)
}

func TestValidate_ItemizesEveryViolation(t *testing.T) {
	v := newValidator(t)

	errs, err := v.Validate(TodoUpdate, map[string]any{
		"id":       "not-an-id",
		"title":    "no",
		"isPinned": "yes",
	})
	require.NoError(t, err)

	fields := map[string]string{}
	for _, e := range errs {
		fields[e.Field] = e.Message
	}
	assert.Equal(t, "must be a valid 24-character hex or 36-character UUID", fields["id"])
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "isPinned")
}

func TestValidate_NullIsRejected(t *testing.T) {
	v := newValidator(t)

	errs, err := v.Validate(TodoUpdate, map[string]any{"id": todoID, "title": nil})
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "title", errs[0].Field)
}

func TestValidate_ListQuery(t *testing.T) {
	v := newValidator(t)

	errs, err := v.Validate(TodoList, map[string]any{
		"status":    "bin",
		"from":      "2025-01-01",
		"to":        "2025-01-31T23:59:59Z",
		"isPinned":  "true",
		"isDeleted": "false",
	})
	require.NoError(t, err)
	assert.Empty(t, errs)

	errs, err = v.Validate(TodoList, map[string]any{"from": "last week"})
	require.NoError(t, err)
	assert.NotEmpty(t, errs)
}

func TestValidate_UnknownSchema(t *testing.T) {
	v := newValidator(t)

	_, err := v.Validate("nope", map[string]any{})
	require.Error(t, err)
}

func TestMiddleware_MergesParamsAndRestoresBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	v := newValidator(t)

	var seen map[string]any
	r := gin.New()
	r.POST("/todo/add-label/:id", v.Middleware(TodoLabel), func(c *gin.Context) {
		data, err := io.ReadAll(c.Request.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(data, &seen))
		c.Status(http.StatusOK)
	})

	body := []byte(`{"labelId":"` + todoID + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/todo/add-label/"+todoID, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, todoID, seen["labelId"])
}

func TestMiddleware_RejectsInvalidRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	v := newValidator(t)

	r := gin.New()
	r.DELETE("/todo/delete/:id", v.Middleware(TodoDelete), func(c *gin.Context) {
		t.Fatal("handler must not run")
	})

	req := httptest.NewRequest(http.MethodDelete, "/todo/delete/123?action=shred", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var response struct {
		Success bool         `json:"success"`
		Code    string       `json:"code"`
		Details []FieldError `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.False(t, response.Success)
	assert.Equal(t, "VALIDATION_ERROR", response.Code)
	require.Len(t, response.Details, 2)
	assert.Equal(t, "action", response.Details[0].Field)
	assert.Equal(t, "id", response.Details[1].Field)
}

func TestMiddleware_RejectsNonObjectBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	v := newValidator(t)

	r := gin.New()
	r.POST("/label/create", v.Middleware(LabelCreate), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/label/create", bytes.NewReader([]byte(`["work"]`)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
