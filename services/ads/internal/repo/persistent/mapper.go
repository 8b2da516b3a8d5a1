package persistent

import (
	"streamboom/services/ads/internal/entity"
	"streamboom/services/ads/internal/model"
)

func ToCampaignEntity(m *model.CampaignModel) *entity.Campaign {
	return &entity.Campaign{
		ID:              m.ID,
		BrandID:         m.BrandID,
		BrandName:       m.BrandName,
		CreatorID:       m.CreatorID,
		AdContent:       m.AdContent,
		Duration:        m.Duration,
		Price:           m.Price,
		Status:          entity.CampaignStatus(m.Status),
		RejectionReason: m.RejectionReason,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func ToCampaignModel(e *entity.Campaign) *model.CampaignModel {
	return &model.CampaignModel{
		ID:              e.ID,
		BrandID:         e.BrandID,
		BrandName:       e.BrandName,
		CreatorID:       e.CreatorID,
		AdContent:       e.AdContent,
		Duration:        e.Duration,
		Price:           e.Price,
		Status:          string(e.Status),
		RejectionReason: e.RejectionReason,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

func ToAdProfileEntity(m *model.AdProfileModel) *entity.AdProfile {
	return &entity.AdProfile{
		UserID:     m.UserID,
		Category:   m.Category,
		AdPrice:    m.AdPrice,
		AcceptsAds: m.AcceptsAds,
		Followers:  m.Followers,
		AvgViews:   m.AvgViews,
		UpdatedAt:  m.UpdatedAt,
	}
}

func ToAdProfileModel(e *entity.AdProfile) *model.AdProfileModel {
	return &model.AdProfileModel{
		UserID:     e.UserID,
		Category:   e.Category,
		AdPrice:    e.AdPrice,
		AcceptsAds: e.AcceptsAds,
		Followers:  e.Followers,
		AvgViews:   e.AvgViews,
		UpdatedAt:  e.UpdatedAt,
	}
}
