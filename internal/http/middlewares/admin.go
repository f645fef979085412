package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireAdmin gates the admin mutation surface on the adm token claim. The
// controller re-checks on every mutation; this just fails fast.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserIDFromContext(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "unauthorized",
					"message": "Missing identity context",
				},
			})
			return
		}

		if !IsAdminFromContext(c) {
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
