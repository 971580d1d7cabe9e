package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domain "lomba-pmr/internal/domain/competition"
)

// CatalogHandler serves the static competition catalog that registration
// forms are built from.
type CatalogHandler struct{}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// GetCatalog handles GET /api/v1/catalog
func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"categories": domain.Categories(),
			"events":     domain.Events(),
		},
	})
}
