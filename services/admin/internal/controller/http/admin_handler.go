package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"streamboom/pkg/logger"
	"streamboom/services/admin/internal/usecase"
)

type AdminHandler struct {
	adminUseCase usecase.AdminUseCase
	logger       *logger.Logger
}

func NewAdminHandler(adminUseCase usecase.AdminUseCase, logger *logger.Logger) *AdminHandler {
	return &AdminHandler{
		adminUseCase: adminUseCase,
		logger:       logger,
	}
}

// ListWithdrawals godoc
// @Summary Withdrawal requests for manual processing
// @Tags admin
// @Produce json
// @Param status query string false "pending, processing, completed or rejected"
// @Param limit query int false "Max results" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /api/v1/admin/withdrawals [get]
func (h *AdminHandler) ListWithdrawals(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	withdrawals, err := h.adminUseCase.ListWithdrawals(c.Query("status"), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list withdrawals: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list withdrawals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"withdrawals": withdrawals})
}

type processWithdrawalRequest struct {
	Action string `json:"action" binding:"required,oneof=process complete reject"`
}

// ProcessWithdrawal godoc
// @Summary Advance a withdrawal request
// @Description process: pending to processing, complete: pay out, reject: refund the user
// @Tags admin
// @Accept json
// @Produce json
// @Param withdrawal_id path string true "Withdrawal ID"
// @Param request body processWithdrawalRequest true "Action"
// @Success 200 {object} entity.WithdrawalRequest
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/admin/withdrawals/{withdrawal_id} [put]
func (h *AdminHandler) ProcessWithdrawal(c *gin.Context) {
	var req processWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "action must be process, complete or reject"})
		return
	}

	withdrawal, err := h.adminUseCase.ProcessWithdrawal(c.Param("withdrawal_id"), req.Action)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrWithdrawalNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "withdrawal not found"})
		case errors.Is(err, usecase.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": "withdrawal is not in the required state"})
		case errors.Is(err, usecase.ErrUnknownAction):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("Failed to process withdrawal: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process withdrawal"})
		}
		return
	}

	c.JSON(http.StatusOK, withdrawal)
}

// GetStats godoc
// @Summary Platform dashboard summary
// @Tags admin
// @Produce json
// @Success 200 {object} entity.PlatformStats
// @Security BearerAuth
// @Router /api/v1/admin/stats [get]
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.adminUseCase.GetStats()
	if err != nil {
		h.logger.Error("Failed to collect stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to collect stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
