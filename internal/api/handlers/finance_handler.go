package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lomba-pmr/internal/service"
)

// FinanceHandler serves the payment ledger summary.
type FinanceHandler struct {
	financeService *service.FinanceService
}

// NewFinanceHandler creates a new finance handler
func NewFinanceHandler(financeService *service.FinanceService) *FinanceHandler {
	return &FinanceHandler{financeService: financeService}
}

// GetSummary handles GET /api/v1/finance/summary
func (h *FinanceHandler) GetSummary(c *gin.Context) {
	summary, err := h.financeService.Summary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, APIResponse{
			Success: false,
			Message: "Failed to aggregate payments",
			Errors:  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, APIResponse{Success: true, Data: summary})
}
