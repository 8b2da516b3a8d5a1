package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"streamboom/pkg/logger"
	"streamboom/services/ads/internal/entity"
	"streamboom/services/ads/internal/usecase"
)

type AdsHandler struct {
	adsUseCase usecase.AdsUseCase
	logger     *logger.Logger
}

func NewAdsHandler(adsUseCase usecase.AdsUseCase, logger *logger.Logger) *AdsHandler {
	return &AdsHandler{
		adsUseCase: adsUseCase,
		logger:     logger,
	}
}

// ListCreators godoc
// @Summary Creators accepting ads
// @Tags ads
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/ads/creators [get]
func (h *AdsHandler) ListCreators(c *gin.Context) {
	creators, err := h.adsUseCase.ListCreators()
	if err != nil {
		h.logger.Error("Failed to list creators: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list creators"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"creators": creators})
}

type adProfileRequest struct {
	Category   string `json:"category" binding:"required"`
	AdPrice    int    `json:"ad_price" binding:"required"`
	AcceptsAds *bool  `json:"accepts_ads"`
	Followers  int    `json:"followers"`
	AvgViews   int    `json:"avg_views"`
}

// UpdateAdProfile godoc
// @Summary Create or update the caller's marketplace listing
// @Tags ads
// @Accept json
// @Produce json
// @Param request body adProfileRequest true "Listing"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/ads/profile [put]
func (h *AdsHandler) UpdateAdProfile(c *gin.Context) {
	userID := c.GetString("user_id")

	var req adProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category and ad_price are required"})
		return
	}

	acceptsAds := true
	if req.AcceptsAds != nil {
		acceptsAds = *req.AcceptsAds
	}

	err := h.adsUseCase.UpdateAdProfile(&entity.AdProfile{
		UserID:     userID,
		Category:   req.Category,
		AdPrice:    req.AdPrice,
		AcceptsAds: acceptsAds,
		Followers:  req.Followers,
		AvgViews:   req.AvgViews,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidPrice) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to update ad profile: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update ad profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type orderAdRequest struct {
	BrandName string `json:"brand_name" binding:"required"`
	CreatorID string `json:"creator_id" binding:"required"`
	AdContent string `json:"ad_content" binding:"required"`
	Duration  int    `json:"duration" binding:"required"`
	Price     int    `json:"price" binding:"required"`
}

// OrderAd godoc
// @Summary Order an ad from a creator
// @Description Debits the price immediately and holds it until the campaign resolves
// @Tags ads
// @Accept json
// @Produce json
// @Param request body orderAdRequest true "Order"
// @Success 201 {object} entity.Campaign
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/ads/campaigns [post]
func (h *AdsHandler) OrderAd(c *gin.Context) {
	userID := c.GetString("user_id")

	var req orderAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "brand_name, creator_id, ad_content, duration and price are required"})
		return
	}

	campaign, err := h.adsUseCase.OrderAd(usecase.OrderAdInput{
		BrandID:   userID,
		BrandName: req.BrandName,
		CreatorID: req.CreatorID,
		AdContent: req.AdContent,
		Duration:  req.Duration,
		Price:     req.Price,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidPrice),
			errors.Is(err, usecase.ErrSelfOrder),
			errors.Is(err, usecase.ErrInsufficientBalance):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("Failed to order ad: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to order ad"})
		}
		return
	}

	c.JSON(http.StatusCreated, campaign)
}

// GetCampaigns godoc
// @Summary The caller's campaigns
// @Description role=brand lists campaigns ordered by the caller, role=creator lists campaigns ordered from them
// @Tags ads
// @Produce json
// @Param role query string false "brand or creator" default(brand)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /api/v1/ads/campaigns [get]
func (h *AdsHandler) GetCampaigns(c *gin.Context) {
	userID := c.GetString("user_id")

	var (
		campaigns []*entity.Campaign
		err       error
	)
	if c.DefaultQuery("role", "brand") == "creator" {
		campaigns, err = h.adsUseCase.GetCreatorCampaigns(userID)
	} else {
		campaigns, err = h.adsUseCase.GetBrandCampaigns(userID)
	}
	if err != nil {
		h.logger.Error("Failed to list campaigns: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list campaigns"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"campaigns": campaigns})
}

type transitionRequest struct {
	Action string `json:"action" binding:"required,oneof=approve reject live"`
	Reason string `json:"reason"`
}

// TransitionCampaign godoc
// @Summary Approve, reject or start a campaign
// @Tags ads
// @Accept json
// @Produce json
// @Param campaign_id path string true "Campaign ID"
// @Param request body transitionRequest true "approve, reject or live"
// @Success 200 {object} entity.Campaign
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/ads/campaigns/{campaign_id} [put]
func (h *AdsHandler) TransitionCampaign(c *gin.Context) {
	userID := c.GetString("user_id")
	campaignID := c.Param("campaign_id")

	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "action must be approve, reject or live"})
		return
	}

	var (
		campaign *entity.Campaign
		err      error
	)
	switch req.Action {
	case "approve":
		campaign, err = h.adsUseCase.Approve(campaignID, userID)
	case "reject":
		campaign, err = h.adsUseCase.Reject(campaignID, userID, req.Reason)
	case "live":
		campaign, err = h.adsUseCase.GoLive(campaignID, userID)
	}
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrCampaignNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "campaign not found"})
		case errors.Is(err, usecase.ErrNotCreator):
			c.JSON(http.StatusForbidden, gin.H{"error": "not the campaign creator"})
		case errors.Is(err, usecase.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": "campaign is not in the required state"})
		case errors.Is(err, usecase.ErrReasonRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("Failed to transition campaign: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update campaign"})
		}
		return
	}

	c.JSON(http.StatusOK, campaign)
}
