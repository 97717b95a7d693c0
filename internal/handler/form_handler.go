package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/formdesk-api/internal/dto"
	"github.com/noah-isme/formdesk-api/internal/models"
	"github.com/noah-isme/formdesk-api/pkg/response"
)

// FormHandler publishes the static form catalog.
type FormHandler struct {
	catalog []models.FormDefinition
}

// NewFormHandler constructs a FormHandler over the built-in catalog.
func NewFormHandler() *FormHandler {
	return &FormHandler{catalog: models.FormCatalog()}
}

// Catalog godoc
// @Summary List forms
// @Description Lists the customer forms with their field rules
// @Tags Forms
// @Produce json
// @Success 200 {object} dto.FormCatalogResponse
// @Router /forms [get]
func (h *FormHandler) Catalog(c *gin.Context) {
	response.JSON(c, http.StatusOK, dto.FormCatalogResponse{Forms: h.catalog, Total: len(h.catalog)})
}
