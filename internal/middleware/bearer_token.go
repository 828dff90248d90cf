package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/onegreenvn/retail-backoffice-services/internal/models"
	"github.com/onegreenvn/retail-backoffice-services/internal/services"

	"github.com/gin-gonic/gin"
)

// TokenValidator resolves an access token to its user
type TokenValidator interface {
	ValidateToken(ctx context.Context, tokenString string) (*models.User, *models.TokenInfo, error)
}

type BearerTokenMiddleware struct {
	validator TokenValidator
}

func NewBearerTokenMiddleware(validator TokenValidator) *BearerTokenMiddleware {
	return &BearerTokenMiddleware{validator: validator}
}

// BearerTokenAuthMiddleware validates JWT token and sets user info in context
func (m *BearerTokenMiddleware) BearerTokenAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// If user_id is already set, skip authentication
		if _, exists := c.Get("user_id"); exists {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		user, tokenInfo, err := m.validator.ValidateToken(c.Request.Context(), tokenString)
		if err != nil {
			if errors.Is(err, services.ErrForbidden) {
				c.JSON(http.StatusForbidden, gin.H{"error": "Account is deactivated"})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			}
			c.Abort()
			return
		}

		// Set user info in context
		c.Set("user_id", user.ID)
		c.Set("user", user)
		c.Set("is_admin", user.IsAdmin)
		c.Set("token_info", tokenInfo)

		c.Next()
	}
}
