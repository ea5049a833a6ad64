package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rihla/internal/pkg/response"
)

// RequireRole allows the request through only when the authenticated
// caller holds one of the given roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions")
		c.Abort()
	}
}

func AdminOnly() gin.HandlerFunc {
	return RequireRole("admin")
}

func ProviderOnly() gin.HandlerFunc {
	return RequireRole("provider", "admin")
}
