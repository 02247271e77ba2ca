package middleware

import (
	"github.com/gin-gonic/gin"

	"plik-backend/internal/shared/response"
	"plik-backend/pkg/jwt"
)

// AdminMiddleware checks if user has admin role. Run after AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextKeyRole)
		if !exists {
			response.Forbidden(c, "Access denied: admin role required")
			c.Abort()
			return
		}

		if r, ok := role.(string); !ok || r != jwt.RoleAdmin {
			response.Forbidden(c, "Access denied: admin role required")
			c.Abort()
			return
		}

		c.Next()
	}
}

// SubscriberMiddleware rejects admin tokens on subscriber-only routes.
func SubscriberMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetRole(c) == "" || GetRole(c) == jwt.RoleAdmin {
			response.Forbidden(c, "Access denied: subscriber token required")
			c.Abort()
			return
		}
		c.Next()
	}
}
