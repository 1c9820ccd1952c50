package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/note-api/internal/dto"
	apierrors "github.com/yukikurage/note-api/internal/errors"
)

// Health answers the liveness probe.
func Health(env string) gin.HandlerFunc {
	return func(c *gin.Context) {
		apierrors.RespondWithData(c, http.StatusOK, dto.HealthDTO{
			Status:  "ok",
			Message: "Server is running",
			Env:     env,
		})
	}
}
