package persistent

import (
	"streamboom/services/referral/internal/entity"
	"streamboom/services/referral/internal/model"
)

func ToReferralEntity(m *model.ReferralModel) *entity.Referral {
	if m == nil {
		return nil
	}

	return &entity.Referral{
		ID:             m.ID,
		ReferrerID:     m.ReferrerID,
		ReferredUserID: m.ReferredUserID,
		PurchaseAmount: m.PurchaseAmount,
		RewardEarned:   m.RewardEarned,
		Status:         entity.ReferralStatus(m.Status),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func ToReferralModel(e *entity.Referral) *model.ReferralModel {
	if e == nil {
		return nil
	}

	return &model.ReferralModel{
		ID:             e.ID,
		ReferrerID:     e.ReferrerID,
		ReferredUserID: e.ReferredUserID,
		PurchaseAmount: e.PurchaseAmount,
		RewardEarned:   e.RewardEarned,
		Status:         string(e.Status),
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}
