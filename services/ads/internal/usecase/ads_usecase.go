package usecase

import (
	"errors"
	"fmt"

	"streamboom/pkg/logger"
	"streamboom/pkg/queue"
	"streamboom/services/ads/internal/entity"
	"streamboom/services/ads/internal/repo/persistent"
)

var (
	ErrCampaignNotFound    = errors.New("campaign not found")
	ErrNotCreator          = errors.New("not the campaign creator")
	ErrInvalidTransition   = errors.New("campaign is not in the required state")
	ErrReasonRequired      = errors.New("rejection reason is required")
	ErrInvalidPrice        = errors.New("price must be positive")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrSelfOrder           = errors.New("cannot order an ad from yourself")
)

type NotificationPublisher interface {
	PublishNotificationTask(task *queue.NotificationTask) error
}

type OrderAdInput struct {
	BrandID   string
	BrandName string
	CreatorID string
	AdContent string
	Duration  int
	Price     int
}

type AdsUseCase interface {
	ListCreators() ([]*entity.AdProfile, error)
	UpdateAdProfile(profile *entity.AdProfile) error
	OrderAd(input OrderAdInput) (*entity.Campaign, error)
	GetBrandCampaigns(brandID string) ([]*entity.Campaign, error)
	GetCreatorCampaigns(creatorID string) ([]*entity.Campaign, error)
	Approve(campaignID, userID string) (*entity.Campaign, error)
	Reject(campaignID, userID, reason string) (*entity.Campaign, error)
	GoLive(campaignID, userID string) (*entity.Campaign, error)
}

type adsUseCase struct {
	campaignRepo persistent.CampaignRepository
	publisher    NotificationPublisher
	logger       *logger.Logger
}

func NewAdsUseCase(campaignRepo persistent.CampaignRepository, publisher NotificationPublisher, logger *logger.Logger) AdsUseCase {
	return &adsUseCase{
		campaignRepo: campaignRepo,
		publisher:    publisher,
		logger:       logger,
	}
}

func (uc *adsUseCase) ListCreators() ([]*entity.AdProfile, error) {
	return uc.campaignRepo.ListCreators()
}

func (uc *adsUseCase) UpdateAdProfile(profile *entity.AdProfile) error {
	if profile.AdPrice <= 0 {
		return ErrInvalidPrice
	}
	return uc.campaignRepo.UpsertAdProfile(profile)
}

// OrderAd charges the brand the full price up front. The money stays
// escrowed until the campaign is rejected (refund) or goes live
// (creator payout).
func (uc *adsUseCase) OrderAd(input OrderAdInput) (*entity.Campaign, error) {
	if input.Price <= 0 {
		return nil, ErrInvalidPrice
	}
	if input.BrandID == input.CreatorID {
		return nil, ErrSelfOrder
	}

	campaign := &entity.Campaign{
		BrandID:   input.BrandID,
		BrandName: input.BrandName,
		CreatorID: input.CreatorID,
		AdContent: input.AdContent,
		Duration:  input.Duration,
		Price:     input.Price,
		Status:    entity.CampaignPending,
	}

	if err := uc.campaignRepo.CreateWithCharge(campaign); err != nil {
		if errors.Is(err, persistent.ErrInsufficientFunds) {
			return nil, ErrInsufficientBalance
		}
		return nil, fmt.Errorf("failed to order ad: %w", err)
	}

	uc.notify(campaign.CreatorID, "ad_request", "New ad request",
		fmt.Sprintf("%s ordered an ad for %d BB", campaign.BrandName, campaign.Price), campaign.ID)

	uc.logger.Info("Campaign %s created: brand %s -> creator %s, %d BB escrowed",
		campaign.ID, campaign.BrandID, campaign.CreatorID, campaign.Price)
	return campaign, nil
}

func (uc *adsUseCase) GetBrandCampaigns(brandID string) ([]*entity.Campaign, error) {
	return uc.campaignRepo.ListByBrand(brandID)
}

func (uc *adsUseCase) GetCreatorCampaigns(creatorID string) ([]*entity.Campaign, error) {
	return uc.campaignRepo.ListByCreator(creatorID)
}

func (uc *adsUseCase) Approve(campaignID, userID string) (*entity.Campaign, error) {
	campaign, err := uc.requireCreator(campaignID, userID)
	if err != nil {
		return nil, err
	}

	approved, err := uc.campaignRepo.Approve(campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to approve campaign: %w", err)
	}
	if !approved {
		return nil, ErrInvalidTransition
	}

	campaign.Status = entity.CampaignApproved
	uc.notify(campaign.BrandID, "ad_approved", "Ad approved",
		"Your ad was approved by the creator", campaign.ID)
	return campaign, nil
}

func (uc *adsUseCase) Reject(campaignID, userID, reason string) (*entity.Campaign, error) {
	if reason == "" {
		return nil, ErrReasonRequired
	}

	campaign, err := uc.requireCreator(campaignID, userID)
	if err != nil {
		return nil, err
	}

	rejected, err := uc.campaignRepo.Reject(campaignID, reason)
	if err != nil {
		return nil, fmt.Errorf("failed to reject campaign: %w", err)
	}
	if !rejected {
		return nil, ErrInvalidTransition
	}

	campaign.Status = entity.CampaignRejected
	campaign.RejectionReason = reason
	uc.notify(campaign.BrandID, "ad_rejected", "Ad rejected",
		fmt.Sprintf("Your ad was rejected: %s. %d BB refunded.", reason, campaign.Price), campaign.ID)

	uc.logger.Info("Campaign %s rejected, %d BB refunded to brand %s", campaign.ID, campaign.Price, campaign.BrandID)
	return campaign, nil
}

// GoLive releases the escrow to the creator. This is the payout step:
// approval alone never moves money.
func (uc *adsUseCase) GoLive(campaignID, userID string) (*entity.Campaign, error) {
	campaign, err := uc.requireCreator(campaignID, userID)
	if err != nil {
		return nil, err
	}

	live, err := uc.campaignRepo.GoLive(campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to put campaign live: %w", err)
	}
	if !live {
		return nil, ErrInvalidTransition
	}

	campaign.Status = entity.CampaignLive
	uc.notify(campaign.BrandID, "ad_live", "Ad live",
		"Your ad is now running", campaign.ID)
	uc.notify(campaign.CreatorID, "payment_received", "Ad payment",
		fmt.Sprintf("You received %d BB for running an ad", campaign.Price), campaign.ID)

	uc.logger.Info("Campaign %s live, %d BB paid to creator %s", campaign.ID, campaign.Price, campaign.CreatorID)
	return campaign, nil
}

func (uc *adsUseCase) requireCreator(campaignID, userID string) (*entity.Campaign, error) {
	campaign, err := uc.campaignRepo.GetByID(campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, ErrCampaignNotFound
	}
	if campaign.CreatorID != userID {
		return nil, ErrNotCreator
	}
	return campaign, nil
}

func (uc *adsUseCase) notify(userID, notifType, title, message, campaignID string) {
	task := &queue.NotificationTask{
		UserID:     userID,
		Type:       notifType,
		Title:      title,
		Message:    message,
		CampaignID: campaignID,
	}
	if err := uc.publisher.PublishNotificationTask(task); err != nil {
		uc.logger.Error("Failed to publish %s notification: %v", notifType, err)
	}
}
