package middleware

import (
	"net/http"

	"github.com/onegreenvn/retail-backoffice-services/internal/models"

	"github.com/gin-gonic/gin"
)

// RequirePrivilege rejects users whose roles do not grant the privilege.
// It must run after BearerTokenAuthMiddleware.
func RequirePrivilege(code string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("user")
		user, ok := value.(*models.User)
		if !exists || !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		if !user.HasPrivilege(code) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient privileges", "details": "requires " + code})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireAdmin only lets administrators through
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isAdmin, _ := c.Get("is_admin"); isAdmin != true {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin privileges required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
