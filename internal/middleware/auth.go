package middleware

import (
	"errors"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/note-api/internal/authprovider"
	"github.com/yukikurage/note-api/internal/constants"
	apierrors "github.com/yukikurage/note-api/internal/errors"
)

// RequireAuth resolves the bearer token, or the token saved in the session
// at login, with the identity provider.
func RequireAuth(provider authprovider.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			session := sessions.Default(c)
			if v, ok := session.Get(constants.SessionKeyAccessToken).(string); ok {
				token = v
			}
		}

		if token == "" {
			apierrors.Unauthorized(c, "Token missing")
			return
		}

		identity, err := provider.GetUser(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, authprovider.ErrInvalidToken) {
				apierrors.Unauthorized(c, "Invalid or expired token")
				return
			}
			apierrors.UpstreamFailure(c, err.Error())
			return
		}

		// Store identity in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, identity.ID)
		c.Set(constants.ContextKeyUserEmail, identity.Email)
		c.Set(constants.ContextKeyAccessToken, token)
		c.Next()
	}
}

// BearerToken returns the token of an "Authorization: Bearer" header.
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok && id != ""
}

// GetAccessToken retrieves the token the request was authenticated with
func GetAccessToken(c *gin.Context) string {
	return c.GetString(constants.ContextKeyAccessToken)
}
