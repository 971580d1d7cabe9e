package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"lomba-pmr/internal/domain/numbering"
	"lomba-pmr/internal/service"
)

// NumberingHandler handles re-registration numbering board requests.
type NumberingHandler struct {
	numberingService *service.NumberingService
}

// NewNumberingHandler creates a new numbering handler
func NewNumberingHandler(numberingService *service.NumberingService) *NumberingHandler {
	return &NumberingHandler{numberingService: numberingService}
}

func (h *NumberingHandler) boardID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("board_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid board ID format",
		})
		return uuid.Nil, false
	}
	return id, true
}

// OpenBoard handles POST /api/v1/numbering/boards
func (h *NumberingHandler) OpenBoard(c *gin.Context) {
	board, err := h.numberingService.OpenBoard(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, APIResponse{
			Success: false,
			Message: "Failed to load roster",
			Errors:  err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Message: "Numbering board opened",
		Data:    board,
	})
}

// GetBoard handles GET /api/v1/numbering/boards/:board_id
func (h *NumberingHandler) GetBoard(c *gin.Context) {
	id, ok := h.boardID(c)
	if !ok {
		return
	}

	var filter numbering.Filter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid filter parameters",
			Errors:  err.Error(),
		})
		return
	}

	board, err := h.numberingService.GetBoard(id, filter)
	if err != nil {
		if errors.Is(err, service.ErrBoardNotFound) {
			c.JSON(http.StatusNotFound, APIResponse{
				Success: false,
				Message: "Board not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, APIResponse{
			Success: false,
			Message: "Failed to retrieve board",
			Errors:  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, APIResponse{Success: true, Data: board})
}

// AssignNumber handles PUT /api/v1/numbering/boards/:board_id/slots/:slot_id
func (h *NumberingHandler) AssignNumber(c *gin.Context) {
	id, ok := h.boardID(c)
	if !ok {
		return
	}

	var req struct {
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid request format",
			Errors:  err.Error(),
		})
		return
	}

	slot, err := h.numberingService.Assign(id, c.Param("slot_id"), req.Value)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBoardNotFound):
			c.JSON(http.StatusNotFound, APIResponse{
				Success: false,
				Message: "Board not found",
			})
		case errors.Is(err, numbering.ErrSlotNotFound):
			c.JSON(http.StatusNotFound, APIResponse{
				Success: false,
				Message: "Team slot not found",
			})
		case numbering.IsConflict(err):
			c.JSON(http.StatusConflict, APIResponse{
				Success: false,
				Message: err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, APIResponse{
				Success: false,
				Message: "Failed to assign number",
				Errors:  err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, APIResponse{Success: true, Data: slot})
}

// SaveBoard handles POST /api/v1/numbering/boards/:board_id/save
func (h *NumberingHandler) SaveBoard(c *gin.Context) {
	id, ok := h.boardID(c)
	if !ok {
		return
	}

	result, err := h.numberingService.Save(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrBoardNotFound) {
			c.JSON(http.StatusNotFound, APIResponse{
				Success: false,
				Message: "Board not found",
			})
			return
		}
		// Dirty flags are preserved; the client can retry the save.
		c.JSON(http.StatusBadGateway, APIResponse{
			Success: false,
			Message: "Failed to save number entries",
			Errors:  err.Error(),
		})
		return
	}

	message := "Number entries saved"
	if result.Saved == 0 {
		message = "Nothing to save"
	}
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: message,
		Data:    result,
	})
}

// RefreshBoard handles POST /api/v1/numbering/boards/:board_id/refresh
func (h *NumberingHandler) RefreshBoard(c *gin.Context) {
	id, ok := h.boardID(c)
	if !ok {
		return
	}

	board, err := h.numberingService.Refresh(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrBoardNotFound) {
			c.JSON(http.StatusNotFound, APIResponse{
				Success: false,
				Message: "Board not found",
			})
			return
		}
		c.JSON(http.StatusBadGateway, APIResponse{
			Success: false,
			Message: "Failed to refresh board",
			Errors:  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, APIResponse{Success: true, Data: board})
}

// CloseBoard handles DELETE /api/v1/numbering/boards/:board_id
func (h *NumberingHandler) CloseBoard(c *gin.Context) {
	id, ok := h.boardID(c)
	if !ok {
		return
	}

	if err := h.numberingService.CloseBoard(id); err != nil {
		c.JSON(http.StatusNotFound, APIResponse{
			Success: false,
			Message: "Board not found",
		})
		return
	}

	c.JSON(http.StatusOK, APIResponse{Success: true, Message: "Board closed"})
}
