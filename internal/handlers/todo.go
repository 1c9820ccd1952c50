package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/note-api/internal/dto"
	apierrors "github.com/yukikurage/note-api/internal/errors"
	"github.com/yukikurage/note-api/internal/models"
	"github.com/yukikurage/note-api/internal/services"
	"github.com/yukikurage/note-api/internal/utils"
)

// TodoHandler serves the /todo routes.
type TodoHandler struct {
	todoService *services.TodoService
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(todoService *services.TodoService) *TodoHandler {
	return &TodoHandler{todoService: todoService}
}

// CreateTodo creates a todo and answers with its id and status
func (h *TodoHandler) CreateTodo(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	todo, err := h.todoService.Create(c.Request.Context(), userID, services.CreateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		IsPinned:    req.IsPinned,
		IsArchived:  req.IsArchived,
		Labels:      req.Labels,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	apierrors.RespondWithData(c, http.StatusCreated, dto.CreatedTodoDTO{ID: todo.ID, Status: todo.Status})
}

// ListTodos returns the caller's todos
// Filters: status, title, from, to, label, isArchived, isPinned, isDeleted
func (h *TodoHandler) ListTodos(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	input := services.ListTodosInput{
		Title:   c.Query("title"),
		LabelID: c.Query("label"),
	}

	if status := c.Query("status"); status != "" {
		s := models.TodoStatus(status)
		input.Status = &s
	}

	var err error
	if input.From, err = utils.QueryTime(c, "from", false); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	if input.To, err = utils.QueryTime(c, "to", true); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	if input.IsArchived, err = utils.QueryBool(c, "isArchived"); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	if input.IsPinned, err = utils.QueryBool(c, "isPinned"); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	if input.IsDeleted, err = utils.QueryBool(c, "isDeleted"); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	todos, err := h.todoService.List(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	apierrors.RespondWithData(c, http.StatusOK, dto.ToTodoDTOs(todos))
}

// UpdateTodo applies a partial update
func (h *TodoHandler) UpdateTodo(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	todo, err := h.todoService.Update(c.Request.Context(), userID, c.Param("id"), services.UpdateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		IsPinned:    req.IsPinned,
		IsArchived:  req.IsArchived,
		IsDeleted:   req.IsDeleted,
		Labels:      req.Labels,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	apierrors.RespondWithData(c, http.StatusOK, dto.ToTodoRowDTO(*todo))
}

// DeleteTodo moves a todo to bin, restores it, or removes it
func (h *TodoHandler) DeleteTodo(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	action := services.DeleteAction(c.Query("action"))
	result, err := h.todoService.Delete(c.Request.Context(), userID, c.Param("id"), action)
	if err != nil {
		respondError(c, err)
		return
	}

	response := dto.DeleteTodoDTO{Message: result.Message}
	if !result.Removed {
		response.ID = result.ID
		response.Status = result.Status
	}
	apierrors.RespondWithData(c, http.StatusOK, response)
}

// AddLabel attaches a label to a todo
func (h *TodoHandler) AddLabel(c *gin.Context) {
	h.changeLabel(c, h.todoService.AddLabel)
}

// RemoveLabel detaches a label from a todo
func (h *TodoHandler) RemoveLabel(c *gin.Context) {
	h.changeLabel(c, h.todoService.RemoveLabel)
}

type labelChange func(ctx context.Context, userID, todoID, labelID string) (*models.Todo, error)

func (h *TodoHandler) changeLabel(c *gin.Context, change labelChange) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.TodoLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	todo, err := change(c.Request.Context(), userID, c.Param("id"), req.LabelID)
	if err != nil {
		respondError(c, err)
		return
	}

	apierrors.RespondWithData(c, http.StatusOK, dto.TodoLabelsDTO{
		ID:     todo.ID,
		Labels: dto.ToLabelRefDTOs(todo.Labels()),
	})
}

// FilterTodosByLabel returns the caller's todos carrying the label in the path
func (h *TodoHandler) FilterTodosByLabel(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	todos, err := h.todoService.FilterByLabel(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	apierrors.RespondWithData(c, http.StatusOK, dto.ToTodoDTOs(todos))
}
