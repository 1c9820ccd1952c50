package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows every origin when allowAll is set or the list contains "*",
// otherwise only the listed origins. An empty list blocks cross-origin calls.
func CORS(allowAll bool, origins []string) gin.HandlerFunc {
	config := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	wildcard := allowAll
	for _, o := range origins {
		if o == "*" {
			wildcard = true
		}
	}

	switch {
	case wildcard:
		// echo the origin; a literal "*" is invalid with credentials
		config.AllowOriginFunc = func(string) bool { return true }
	case len(origins) == 0:
		config.AllowOriginFunc = func(string) bool { return false }
	default:
		config.AllowOrigins = origins
	}

	return cors.New(config)
}
