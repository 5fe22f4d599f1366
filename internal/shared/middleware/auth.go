package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pagecraft-backend/internal/shared"
	"pagecraft-backend/internal/shared/response"
	"pagecraft-backend/pkg/jwt"
)

// AuthMiddleware verifies the Bearer access token and attaches the
// Principal to the request context.
func AuthMiddleware(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := manager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			response.Unauthorized(c, "invalid user ID in token")
			c.Abort()
			return
		}

		shared.SetPrincipal(c, shared.Principal{
			ID:       userID,
			Username: claims.Username,
			Role:     claims.Role,
		})

		c.Next()
	}
}

// AdminMiddleware rejects requests whose principal is not an admin.
// Must run after AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := shared.GetPrincipal(c)
		if !ok || !p.IsAdmin() {
			response.ErrorResponse(c, http.StatusForbidden, "FORBIDDEN", "Access denied: admin role required")
			c.Abort()
			return
		}

		c.Next()
	}
}
