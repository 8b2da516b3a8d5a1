package usecase

import (
	"errors"
	"fmt"

	"streamboom/pkg/logger"
	"streamboom/pkg/queue"
	"streamboom/services/referral/internal/entity"
	"streamboom/services/referral/internal/repo/persistent"
)

var (
	ErrAlreadyReferred = errors.New("user already has a referrer")
	ErrSelfReferral    = errors.New("cannot refer yourself")
	ErrUnknownCode     = errors.New("unknown referral code")
)

type NotificationPublisher interface {
	PublishNotificationTask(task *queue.NotificationTask) error
}

type ReferralUseCase interface {
	// CreateReferral links a newly registered user to the owner of the
	// given referral code.
	CreateReferral(code, referredUserID string) (*entity.Referral, error)
	// RecordPurchase accumulates a referred user's purchase toward the
	// qualification threshold and credits the referrer's reward exactly
	// once. Safe to call with redelivered events.
	RecordPurchase(eventKey, referredUserID string, amountBB int) (*entity.Referral, error)
	GetReferrals(referrerID string) ([]*entity.Referral, string, error)
}

type referralUseCase struct {
	referralRepo persistent.ReferralRepository
	publisher    NotificationPublisher
	logger       *logger.Logger
}

func NewReferralUseCase(referralRepo persistent.ReferralRepository, publisher NotificationPublisher, logger *logger.Logger) ReferralUseCase {
	return &referralUseCase{
		referralRepo: referralRepo,
		publisher:    publisher,
		logger:       logger,
	}
}

func (uc *referralUseCase) CreateReferral(code, referredUserID string) (*entity.Referral, error) {
	referrerID, err := uc.referralRepo.ResolveReferralCode(code)
	if err != nil || referrerID == "" {
		return nil, ErrUnknownCode
	}
	if referrerID == referredUserID {
		return nil, ErrSelfReferral
	}

	existing, err := uc.referralRepo.GetByReferred(referredUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up referral: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyReferred
	}

	referral := &entity.Referral{
		ReferrerID:     referrerID,
		ReferredUserID: referredUserID,
		Status:         entity.StatusPending,
	}
	if err := uc.referralRepo.Create(referral); err != nil {
		return nil, fmt.Errorf("failed to create referral: %w", err)
	}

	return referral, nil
}

func (uc *referralUseCase) RecordPurchase(eventKey, referredUserID string, amountBB int) (*entity.Referral, error) {
	if amountBB <= 0 {
		return nil, nil
	}

	referral, rewarded, err := uc.referralRepo.ApplyPurchase(eventKey, referredUserID, amountBB)
	if errors.Is(err, persistent.ErrDuplicateEvent) {
		uc.logger.Info("Skipping duplicate purchase event %s", eventKey)
		return nil, nil
	}
	if err != nil {
		// The dedup marker rolled back with the rest, so the broker
		// redelivery will be processed, not skipped.
		return nil, fmt.Errorf("failed to apply purchase event: %w", err)
	}
	if referral == nil {
		// Purchaser was not referred by anyone
		return nil, nil
	}

	if rewarded {
		task := &queue.NotificationTask{
			UserID:  referral.ReferrerID,
			Type:    "referral_reward",
			Title:   "Referral reward",
			Message: fmt.Sprintf("Your referral qualified, you earned %d BB", entity.RewardBB),
			Data:    map[string]interface{}{"referral_id": referral.ID},
		}
		if err := uc.publisher.PublishNotificationTask(task); err != nil {
			uc.logger.Error("Failed to publish referral reward notification: %v", err)
		}
	}

	return referral, nil
}

func (uc *referralUseCase) GetReferrals(referrerID string) ([]*entity.Referral, string, error) {
	referrals, err := uc.referralRepo.ListByReferrer(referrerID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list referrals: %w", err)
	}

	code, err := uc.referralRepo.GetReferralCode(referrerID)
	if err != nil {
		uc.logger.Error("Failed to get referral code: %v", err)
	}

	return referrals, code, nil
}
