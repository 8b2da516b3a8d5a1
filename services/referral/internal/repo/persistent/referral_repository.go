package persistent

import (
	"errors"
	"time"

	"streamboom/services/referral/internal/entity"
	"streamboom/services/referral/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDuplicateEvent marks a purchase event whose key was already
// processed by a committed handler run.
var ErrDuplicateEvent = errors.New("purchase event already processed")

type ReferralRepository interface {
	Create(referral *entity.Referral) error
	GetByReferred(referredUserID string) (*entity.Referral, error)
	ListByReferrer(referrerID string) ([]*entity.Referral, error)
	// ApplyPurchase folds a purchase event into the purchaser's
	// referral in one transaction: the dedup marker, the accumulated
	// amount and the reward commit or roll back together, so a
	// redelivery after a failed run is not mistaken for a duplicate.
	// Returns ErrDuplicateEvent for an already-committed key and a nil
	// referral when the purchaser was never referred. The rewarded
	// flag reports whether this call credited the referrer.
	ApplyPurchase(eventKey, referredUserID string, amountBB int) (*entity.Referral, bool, error)
	GetReferralCode(userID string) (string, error)
	ResolveReferralCode(code string) (string, error)
}

type referralRepository struct {
	db *gorm.DB
}

func NewReferralRepository(db *gorm.DB) ReferralRepository {
	return &referralRepository{db: db}
}

func (r *referralRepository) Create(referral *entity.Referral) error {
	referralModel := ToReferralModel(referral)
	if referralModel.ID == "" {
		referralModel.ID = uuid.New().String()
	}
	if referralModel.Status == "" {
		referralModel.Status = string(entity.StatusPending)
	}
	if err := r.db.Create(referralModel).Error; err != nil {
		return err
	}
	referral.ID = referralModel.ID
	referral.Status = entity.ReferralStatus(referralModel.Status)
	return nil
}

func (r *referralRepository) GetByReferred(referredUserID string) (*entity.Referral, error) {
	var referralModel model.ReferralModel
	err := r.db.Where("referred_user_id = ?", referredUserID).First(&referralModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return ToReferralEntity(&referralModel), nil
}

func (r *referralRepository) ListByReferrer(referrerID string) ([]*entity.Referral, error) {
	var referralModels []model.ReferralModel
	err := r.db.
		Where("referrer_id = ?", referrerID).
		Order("created_at DESC").
		Find(&referralModels).Error
	if err != nil {
		return nil, err
	}

	referrals := make([]*entity.Referral, len(referralModels))
	for i := range referralModels {
		referrals[i] = ToReferralEntity(&referralModels[i])
	}

	// Attach usernames for display
	for _, ref := range referrals {
		var username string
		if err := r.db.Table("users").Select("username").Where("id = ?", ref.ReferredUserID).Scan(&username).Error; err == nil {
			ref.ReferredUsername = username
		}
	}

	return referrals, nil
}

func (r *referralRepository) ApplyPurchase(eventKey, referredUserID string, amountBB int) (*entity.Referral, bool, error) {
	var (
		referral *entity.Referral
		rewarded bool
	)
	err := r.db.Transaction(func(tx *gorm.DB) error {
		marker := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&model.ProcessedPurchaseEventModel{
			EventKey:    eventKey,
			ProcessedAt: time.Now(),
		})
		if marker.Error != nil {
			return marker.Error
		}
		if marker.RowsAffected == 0 {
			return ErrDuplicateEvent
		}

		var referralModel model.ReferralModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("referred_user_id = ?", referredUserID).
			First(&referralModel).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Purchaser was not referred; keep the marker anyway
			return nil
		}
		if err != nil {
			return err
		}

		referralModel.PurchaseAmount += amountBB
		if referralModel.Status == string(entity.StatusPending) && referralModel.PurchaseAmount >= entity.QualifyThresholdBB {
			referralModel.Status = string(entity.StatusQualified)
		}
		if err := tx.Save(&referralModel).Error; err != nil {
			return err
		}

		referral = ToReferralEntity(&referralModel)
		if referral.Status != entity.StatusQualified {
			return nil
		}
		rewarded, err = rewardTx(tx, referral)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return referral, rewarded, nil
}

// rewardTx flips a qualified referral to rewarded and credits the
// referrer's wallet. The status guard keeps the credit at most once.
func rewardTx(tx *gorm.DB, referral *entity.Referral) (bool, error) {
	result := tx.Model(&model.ReferralModel{}).
		Where("id = ? AND status = ? AND reward_earned = 0", referral.ID, string(entity.StatusQualified)).
		Updates(map[string]interface{}{
			"status":        string(entity.StatusRewarded),
			"reward_earned": entity.RewardBB,
		})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		// Already rewarded
		return false, nil
	}

	if err := tx.Exec(
		"UPDATE wallets SET balance = balance + ?, updated_at = NOW() WHERE user_id = ?",
		entity.RewardBB, referral.ReferrerID,
	).Error; err != nil {
		return false, err
	}

	if err := tx.Exec(
		"INSERT INTO transactions (id, user_id, type, amount, description, status, reference_id, created_at) VALUES (?, ?, 'referral_reward', ?, 'Referral reward', 'completed', ?, NOW())",
		uuid.New().String(), referral.ReferrerID, entity.RewardBB, referral.ID,
	).Error; err != nil {
		return false, err
	}

	referral.Status = entity.StatusRewarded
	referral.RewardEarned = entity.RewardBB
	return true, nil
}

func (r *referralRepository) GetReferralCode(userID string) (string, error) {
	var code string
	err := r.db.Table("users").Select("referral_code").Where("id = ?", userID).Scan(&code).Error
	return code, err
}

func (r *referralRepository) ResolveReferralCode(code string) (string, error) {
	var userID string
	err := r.db.Table("users").Select("id").Where("referral_code = ?", code).Scan(&userID).Error
	if err != nil {
		return "", err
	}
	return userID, nil
}
