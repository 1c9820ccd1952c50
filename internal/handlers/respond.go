package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/note-api/internal/authprovider"
	apierrors "github.com/yukikurage/note-api/internal/errors"
	"github.com/yukikurage/note-api/internal/middleware"
	"github.com/yukikurage/note-api/internal/patch"
	"github.com/yukikurage/note-api/internal/services"
)

// respondError maps service and identity provider errors to the error envelope.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTodoNotFound),
		errors.Is(err, services.ErrLabelNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidTitle),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidAction),
		errors.Is(err, services.ErrLabelNameRequired),
		errors.Is(err, services.ErrLabelNameTooLong),
		errors.Is(err, services.ErrInvalidAccountStatus),
		errors.Is(err, services.ErrNameRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrOnlyBinRestorable),
		errors.Is(err, services.ErrTodoNotInBin):
		apierrors.InvalidOperation(c, err.Error())
	case errors.Is(err, services.ErrLabelExists),
		errors.Is(err, services.ErrStatusUnchanged),
		errors.Is(err, services.ErrAccountAlreadyDeleted),
		errors.Is(err, authprovider.ErrEmailTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrAccountDeleted),
		errors.Is(err, services.ErrAccountInactive):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, authprovider.ErrInvalidCredentials):
		apierrors.RespondWithError(c, http.StatusUnauthorized,
			apierrors.NewAPIError(apierrors.ErrCodeInvalidCredentials, authprovider.ErrInvalidCredentials.Error()))
	case errors.Is(err, authprovider.ErrInvalidToken):
		apierrors.Unauthorized(c, "Invalid or expired token")
	case errors.Is(err, authprovider.ErrRejected):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, authprovider.ErrUpstream):
		apierrors.UpstreamFailure(c, err.Error())
	default:
		apierrors.InternalError(c, err.Error())
	}
}

// respondBindError reports a body that could not be decoded.
func respondBindError(c *gin.Context, err error) {
	if errors.Is(err, patch.ErrNull) {
		apierrors.BadRequest(c, "Fields cannot be null")
		return
	}
	apierrors.BadRequest(c, "Invalid request body")
}

// requireUserID reads the authenticated user, answering 401 when absent.
func requireUserID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return "", false
	}
	return userID, true
}
