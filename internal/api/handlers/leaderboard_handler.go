package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domain "lomba-pmr/internal/domain/competition"
	"lomba-pmr/internal/service"
	"lomba-pmr/pkg/validator"
)

// LeaderboardHandler handles score submission and standings requests.
type LeaderboardHandler struct {
	leaderboardService *service.LeaderboardService
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(leaderboardService *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: leaderboardService}
}

// SubmitScore handles POST /api/v1/scores
func (h *LeaderboardHandler) SubmitScore(c *gin.Context) {
	var req domain.SubmitScoreRequest

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

	score, err := h.leaderboardService.SubmitScore(c.Request.Context(), &req)
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
			Message: "Failed to record score",
			Errors:  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Score recorded",
		Data:    score,
	})
}

// GetStandings handles GET /api/v1/leaderboard/:event
func (h *LeaderboardHandler) GetStandings(c *gin.Context) {
	category, err := domain.ParseCategory(c.Query("category"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid or missing category",
			Errors:  err.Error(),
		})
		return
	}

	eventKey := c.Param("event")
	standings, err := h.leaderboardService.Standings(c.Request.Context(), eventKey, category)
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Failed to compute standings",
			Errors:  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"event":      eventKey,
			"event_name": domain.EventDisplayName(eventKey),
			"standings":  standings,
		},
	})
}

// GetOverallStandings handles GET /api/v1/leaderboard
func (h *LeaderboardHandler) GetOverallStandings(c *gin.Context) {
	category, err := domain.ParseCategory(c.Query("category"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid or missing category",
			Errors:  err.Error(),
		})
		return
	}

	standings, err := h.leaderboardService.OverallStandings(c.Request.Context(), category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, APIResponse{
			Success: false,
			Message: "Failed to compute overall standings",
			Errors:  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    map[string]interface{}{"standings": standings},
	})
}
