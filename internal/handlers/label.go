package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/note-api/internal/dto"
	apierrors "github.com/yukikurage/note-api/internal/errors"
	"github.com/yukikurage/note-api/internal/services"
	"github.com/yukikurage/note-api/internal/utils"
)

type LabelHandler struct {
	labelService *services.LabelService
}

func NewLabelHandler(labelService *services.LabelService) *LabelHandler {
	return &LabelHandler{labelService: labelService}
}

// CreateLabel creates a label, reviving a deleted one with the same name
func (h *LabelHandler) CreateLabel(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.LabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	label, err := h.labelService.Create(c.Request.Context(), userID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	apierrors.RespondWithData(c, http.StatusCreated, dto.ToLabelDTO(*label))
}

func (h *LabelHandler) ListLabels(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	labels, err := h.labelService.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	apierrors.RespondWithData(c, http.StatusOK, dto.ToLabelDTOs(labels))
}

func (h *LabelHandler) GetLabel(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	label, err := h.labelService.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	apierrors.RespondWithData(c, http.StatusOK, dto.ToLabelDTO(*label))
}

// UpdateLabel renames a label
func (h *LabelHandler) UpdateLabel(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.LabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	label, err := h.labelService.Update(c.Request.Context(), userID, c.Param("id"), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	if label == nil {
		apierrors.NotFound(c, "label not found")
		return
	}

	apierrors.RespondWithData(c, http.StatusOK, dto.ToLabelDTO(*label))
}

// DeleteLabel soft-deletes a label and unlinks it from every todo.
// With trashTodos=true the todos carrying it are moved to bin first.
func (h *LabelHandler) DeleteLabel(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	trash, err := utils.QueryBool(c, "trashTodos")
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	label, err := h.labelService.Delete(c.Request.Context(), userID, c.Param("id"), trash != nil && *trash)
	if err != nil {
		respondError(c, err)
		return
	}

	apierrors.RespondWithData(c, http.StatusOK, dto.ToLabelDTO(*label))
}
