package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/realtyflow/api/internal/auth"
)

// RequirePermission runs after RequireAuth and consults the explicit
// policy function. It sits before any body binding, so authorization
// failures always win over validation failures.
func (m *AuthMiddleware) RequirePermission(action auth.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := RoleFromContext(c)

		if !ok || role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "unauthorized",
					"message": "Missing identity context",
				},
			})
			return
		}
		if !auth.CanPerform(role, action) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{
					"code":    "forbidden",
					"message": "Admin role required",
				},
			})
			return
		}
		c.Next()
	}
}
