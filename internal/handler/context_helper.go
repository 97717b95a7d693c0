package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/formdesk-api/internal/middleware"
	"github.com/noah-isme/formdesk-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.AdminClaims {
	claims, ok := middleware.CurrentAdmin(c)
	if !ok {
		return nil
	}
	return claims
}
