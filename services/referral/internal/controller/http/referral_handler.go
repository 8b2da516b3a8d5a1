package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"streamboom/pkg/logger"
	"streamboom/services/referral/internal/usecase"
)

type ReferralHandler struct {
	referralUseCase usecase.ReferralUseCase
	logger          *logger.Logger
}

func NewReferralHandler(referralUseCase usecase.ReferralUseCase, logger *logger.Logger) *ReferralHandler {
	return &ReferralHandler{
		referralUseCase: referralUseCase,
		logger:          logger,
	}
}

type createReferralRequest struct {
	Code string `json:"code" binding:"required"`
}

// CreateReferral godoc
// @Summary Link the current user to a referrer
// @Description Records that the current user signed up with someone's referral code
// @Tags referrals
// @Accept json
// @Produce json
// @Param request body createReferralRequest true "Referral code"
// @Success 201 {object} entity.Referral
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/referrals [post]
func (h *ReferralHandler) CreateReferral(c *gin.Context) {
	userID := c.GetString("user_id")

	var req createReferralRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
		return
	}

	referral, err := h.referralUseCase.CreateReferral(req.Code, userID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUnknownCode),
			errors.Is(err, usecase.ErrSelfReferral),
			errors.Is(err, usecase.ErrAlreadyReferred):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("Failed to create referral: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create referral"})
		}
		return
	}

	c.JSON(http.StatusCreated, referral)
}

// GetReferrals godoc
// @Summary List the current user's referrals
// @Description Returns everyone the user referred plus their own referral code
// @Tags referrals
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /api/v1/referrals [get]
func (h *ReferralHandler) GetReferrals(c *gin.Context) {
	userID := c.GetString("user_id")

	referrals, code, err := h.referralUseCase.GetReferrals(userID)
	if err != nil {
		h.logger.Error("Failed to list referrals: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list referrals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"referrals":     referrals,
		"referral_code": code,
	})
}
