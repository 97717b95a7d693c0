package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/formdesk-api/internal/models"
	appErrors "github.com/noah-isme/formdesk-api/pkg/errors"
	"github.com/noah-isme/formdesk-api/pkg/response"
)

// RequireRoles only lets admins with one of the given roles through. It must run after JWT.
func RequireRoles(roles ...models.AdminRole) gin.HandlerFunc {
	allowed := make(map[models.AdminRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		claims, ok := CurrentAdmin(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
