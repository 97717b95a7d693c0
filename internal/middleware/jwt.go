package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/formdesk-api/internal/models"
	"github.com/noah-isme/formdesk-api/internal/service"
	appErrors "github.com/noah-isme/formdesk-api/pkg/errors"
	"github.com/noah-isme/formdesk-api/pkg/logger"
	"github.com/noah-isme/formdesk-api/pkg/response"
)

// ContextUserKey is the gin context key storing the admin's token claims.
const ContextUserKey = "currentUser"

// JWT protects routes by requiring a valid bearer token.
func JWT(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(raw)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Set(logger.ContextAdminIDKey, claims.UserID)
		c.Next()
	}
}

// CurrentAdmin returns the claims attached by JWT.
func CurrentAdmin(c *gin.Context) (*models.AdminClaims, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*models.AdminClaims)
	return claims, ok && claims != nil
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	raw := strings.TrimSpace(parts[1])
	return raw, raw != ""
}
