package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domain "lomba-pmr/internal/domain/competition"
	"lomba-pmr/internal/service"
	"lomba-pmr/pkg/validator"
)

// RegistrationHandler handles school-registration HTTP requests
type RegistrationHandler struct {
	registrationService *service.RegistrationService
}

// NewRegistrationHandler creates a new registration handler
func NewRegistrationHandler(registrationService *service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registrationService}
}

// CreateRegistration handles POST /api/v1/registrations
func (h *RegistrationHandler) CreateRegistration(c *gin.Context) {
	var req domain.CreateRegistrationRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid request format",
			Errors:  err.Error(),
		})
		return
	}

	if err := validator.ValidateStruct(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Validation failed",
			Errors:  validator.FormatValidationError(err),
		})
		return
	}

	reg, err := h.registrationService.CreateRegistration(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Registration failed",
			Errors:  err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Message: "School registered successfully",
		Data:    reg,
	})
}

// ListRegistrations handles GET /api/v1/registrations
func (h *RegistrationHandler) ListRegistrations(c *gin.Context) {
	filter := domain.RegistrationFilter{
		Category:    domain.Category(c.Query("category")),
		Status:      domain.RegistrationStatus(c.Query("status")),
		SchoolQuery: c.Query("school"),
	}

	regs, err := h.registrationService.ListRegistrations(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, APIResponse{
			Success: false,
			Message: "Failed to list registrations",
			Errors:  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    map[string]interface{}{"registrations": regs},
	})
}

// GetRegistration handles GET /api/v1/registrations/:id
func (h *RegistrationHandler) GetRegistration(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid registration ID format",
		})
		return
	}

	reg, err := h.registrationService.GetRegistration(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, APIResponse{
				Success: false,
				Message: "Registration not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, APIResponse{
			Success: false,
			Message: "Failed to retrieve registration",
			Errors:  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, APIResponse{Success: true, Data: reg})
}

// UpdateStatus handles PATCH /api/v1/registrations/:id/status
func (h *RegistrationHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid registration ID format",
		})
		return
	}

	var req struct {
		Status string `json:"status" validate:"required,oneof=pending verified rejected"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid request format",
			Errors:  err.Error(),
		})
		return
	}
	if err := validator.ValidateStruct(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Validation failed",
			Errors:  validator.FormatValidationError(err),
		})
		return
	}

	reg, err := h.registrationService.UpdateStatus(c.Request.Context(), id, domain.RegistrationStatus(req.Status))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, APIResponse{
				Success: false,
				Message: "Registration not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, APIResponse{
			Success: false,
			Message: "Failed to update registration status",
			Errors:  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Registration status updated",
		Data:    reg,
	})
}

// UpdateEventCounts handles PUT /api/v1/registrations/:id/events
func (h *RegistrationHandler) UpdateEventCounts(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid registration ID format",
		})
		return
	}

	var req domain.UpdateEventCountsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid request format",
			Errors:  err.Error(),
		})
		return
	}

	reg, err := h.registrationService.UpdateEventCounts(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, APIResponse{
				Success: false,
				Message: "Registration not found",
			})
			return
		}
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Failed to update event counts",
			Errors:  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Event counts updated",
		Data:    reg,
	})
}

// AddPayment handles POST /api/v1/payments
func (h *RegistrationHandler) AddPayment(c *gin.Context) {
	var req domain.CreatePaymentRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid request format",
			Errors:  err.Error(),
		})
		return
	}
	if err := validator.ValidateStruct(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Validation failed",
			Errors:  validator.FormatValidationError(err),
		})
		return
	}

	payment, err := h.registrationService.AddPayment(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, APIResponse{
				Success: false,
				Message: "Registration not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, APIResponse{
			Success: false,
			Message: "Failed to record payment",
			Errors:  err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Message: "Payment recorded",
		Data:    payment,
	})
}

// ListPayments handles GET /api/v1/registrations/:id/payments
func (h *RegistrationHandler) ListPayments(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid registration ID format",
		})
		return
	}

	payments, err := h.registrationService.ListPayments(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, APIResponse{
			Success: false,
			Message: "Failed to list payments",
			Errors:  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    map[string]interface{}{"payments": payments},
	})
}

// ReviewPayment handles PATCH /api/v1/payments/:id/review
func (h *RegistrationHandler) ReviewPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid payment ID format",
		})
		return
	}

	var req struct {
		Approve bool   `json:"approve"`
		Note    string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid request format",
			Errors:  err.Error(),
		})
		return
	}

	payment, err := h.registrationService.ReviewPayment(c.Request.Context(), id, req.Approve, req.Note)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, APIResponse{
				Success: false,
				Message: "Payment not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, APIResponse{
			Success: false,
			Message: "Failed to review payment",
			Errors:  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Payment reviewed",
		Data:    payment,
	})
}
