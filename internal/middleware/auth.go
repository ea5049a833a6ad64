package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rihla/internal/domain"
	"rihla/internal/pkg/jwt"
	"rihla/internal/pkg/response"
)

// AuthMiddleware validates the bearer token and stores the caller's
// identity on the gin context.
func AuthMiddleware(tokens *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			// WebSocket clients cannot set headers; fall back to query param.
			if t := c.Query("token"); t != "" {
				header = "Bearer " + t
			}
		}
		if header == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Set("provider_id", claims.ProviderID)
		c.Next()
	}
}

// ActorFrom reconstructs the authenticated caller from context values set
// by AuthMiddleware.
func ActorFrom(c *gin.Context) domain.Actor {
	return domain.Actor{
		UserID:     c.GetInt64("user_id"),
		Role:       domain.UserRole(c.GetString("role")),
		ProviderID: c.GetInt64("provider_id"),
	}
}
