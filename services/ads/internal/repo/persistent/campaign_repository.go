package persistent

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"streamboom/services/ads/internal/entity"
	"streamboom/services/ads/internal/model"
)

var ErrInsufficientFunds = errors.New("insufficient funds")

type CampaignRepository interface {
	// CreateWithCharge debits the brand's wallet by the campaign price
	// and creates the campaign plus its escrow transaction atomically.
	CreateWithCharge(campaign *entity.Campaign) error
	GetByID(campaignID string) (*entity.Campaign, error)
	ListByBrand(brandID string) ([]*entity.Campaign, error)
	ListByCreator(creatorID string) ([]*entity.Campaign, error)
	// Approve moves pending to approved. Returns false when the
	// campaign is not pending anymore.
	Approve(campaignID string) (bool, error)
	// Reject moves pending to rejected and refunds the brand the full
	// price in the same transaction. Returns false when not pending.
	Reject(campaignID, reason string) (bool, error)
	// GoLive moves approved to live and pays the creator the escrowed
	// price in the same transaction. Returns false when not approved.
	GoLive(campaignID string) (bool, error)
	ListCreators() ([]*entity.AdProfile, error)
	UpsertAdProfile(profile *entity.AdProfile) error
}

type campaignRepository struct {
	db *gorm.DB
}

func NewCampaignRepository(db *gorm.DB) CampaignRepository {
	return &campaignRepository{db: db}
}

func (r *campaignRepository) CreateWithCharge(campaign *entity.Campaign) error {
	campaignModel := ToCampaignModel(campaign)
	if campaignModel.ID == "" {
		campaignModel.ID = uuid.New().String()
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Exec(
			"UPDATE wallets SET balance = balance - ?, updated_at = NOW() WHERE user_id = ? AND balance >= ?",
			campaign.Price, campaign.BrandID, campaign.Price,
		)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrInsufficientFunds
		}

		if err := tx.Exec(
			"INSERT INTO transactions (id, user_id, type, amount, description, status, reference_id, created_at) VALUES (?, ?, 'ad_purchase', ?, ?, 'completed', ?, NOW())",
			uuid.New().String(), campaign.BrandID, campaign.Price,
			fmt.Sprintf("Ad order for creator %s", campaign.CreatorID), campaignModel.ID,
		).Error; err != nil {
			return err
		}

		return tx.Create(campaignModel).Error
	})
	if err != nil {
		return err
	}

	campaign.ID = campaignModel.ID
	campaign.Status = entity.CampaignPending
	return nil
}

func (r *campaignRepository) GetByID(campaignID string) (*entity.Campaign, error) {
	var campaignModel model.CampaignModel
	err := r.db.Where("id = ?", campaignID).First(&campaignModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	return ToCampaignEntity(&campaignModel), nil
}

func (r *campaignRepository) ListByBrand(brandID string) ([]*entity.Campaign, error) {
	return r.list("brand_id = ?", brandID)
}

func (r *campaignRepository) ListByCreator(creatorID string) ([]*entity.Campaign, error) {
	return r.list("creator_id = ?", creatorID)
}

func (r *campaignRepository) list(query string, arg interface{}) ([]*entity.Campaign, error) {
	var campaignModels []model.CampaignModel
	err := r.db.Where(query, arg).Order("created_at DESC").Find(&campaignModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}

	campaigns := make([]*entity.Campaign, 0, len(campaignModels))
	for i := range campaignModels {
		campaigns = append(campaigns, ToCampaignEntity(&campaignModels[i]))
	}
	return campaigns, nil
}

func (r *campaignRepository) Approve(campaignID string) (bool, error) {
	result := r.db.Model(&model.CampaignModel{}).
		Where("id = ? AND status = ?", campaignID, string(entity.CampaignPending)).
		Update("status", string(entity.CampaignApproved))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *campaignRepository) Reject(campaignID, reason string) (bool, error) {
	rejected := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var campaign model.CampaignModel
		if err := tx.Where("id = ?", campaignID).First(&campaign).Error; err != nil {
			return err
		}

		result := tx.Model(&model.CampaignModel{}).
			Where("id = ? AND status = ?", campaignID, string(entity.CampaignPending)).
			Updates(map[string]interface{}{
				"status":           string(entity.CampaignRejected),
				"rejection_reason": reason,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		if err := tx.Exec(
			"UPDATE wallets SET balance = balance + ?, updated_at = NOW() WHERE user_id = ?",
			campaign.Price, campaign.BrandID,
		).Error; err != nil {
			return err
		}

		if err := tx.Exec(
			"INSERT INTO transactions (id, user_id, type, amount, description, status, reference_id, created_at) VALUES (?, ?, 'ad_refund', ?, ?, 'completed', ?, NOW())",
			uuid.New().String(), campaign.BrandID, campaign.Price,
			fmt.Sprintf("Refund for rejected ad: %s", reason), campaignID,
		).Error; err != nil {
			return err
		}

		rejected = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return rejected, nil
}

func (r *campaignRepository) GoLive(campaignID string) (bool, error) {
	live := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var campaign model.CampaignModel
		if err := tx.Where("id = ?", campaignID).First(&campaign).Error; err != nil {
			return err
		}

		result := tx.Model(&model.CampaignModel{}).
			Where("id = ? AND status = ?", campaignID, string(entity.CampaignApproved)).
			Update("status", string(entity.CampaignLive))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		if err := tx.Exec(
			"UPDATE wallets SET balance = balance + ?, updated_at = NOW() WHERE user_id = ?",
			campaign.Price, campaign.CreatorID,
		).Error; err != nil {
			return err
		}

		if err := tx.Exec(
			"INSERT INTO transactions (id, user_id, type, amount, description, status, reference_id, created_at) VALUES (?, ?, 'ad_revenue', ?, ?, 'completed', ?, NOW())",
			uuid.New().String(), campaign.CreatorID, campaign.Price,
			fmt.Sprintf("Ad revenue from %s", campaign.BrandName), campaignID,
		).Error; err != nil {
			return err
		}

		live = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return live, nil
}

func (r *campaignRepository) ListCreators() ([]*entity.AdProfile, error) {
	type row struct {
		model.AdProfileModel
		Username string
	}
	var rows []row
	err := r.db.Table("ad_profiles").
		Select("ad_profiles.*, users.username").
		Joins("JOIN users ON users.id = ad_profiles.user_id").
		Where("ad_profiles.accepts_ads = ?", true).
		Order("ad_profiles.followers DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list creators: %w", err)
	}

	profiles := make([]*entity.AdProfile, 0, len(rows))
	for i := range rows {
		profile := ToAdProfileEntity(&rows[i].AdProfileModel)
		profile.Username = rows[i].Username
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

func (r *campaignRepository) UpsertAdProfile(profile *entity.AdProfile) error {
	profileModel := ToAdProfileModel(profile)
	err := r.db.Save(profileModel).Error
	if err != nil {
		return fmt.Errorf("failed to save ad profile: %w", err)
	}
	return nil
}
