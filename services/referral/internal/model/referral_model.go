package model

import "time"

type ReferralModel struct {
	ID             string `gorm:"type:uuid;primary_key"`
	ReferrerID     string `gorm:"type:uuid;not null;index"`
	ReferredUserID string `gorm:"type:uuid;not null;index"`
	PurchaseAmount int    `gorm:"default:0"`
	RewardEarned   int    `gorm:"default:0"`
	Status         string `gorm:"type:varchar(16);not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (ReferralModel) TableName() string { return "referrals" }

// ProcessedPurchaseEventModel dedupes purchase events redelivered by
// the broker.
type ProcessedPurchaseEventModel struct {
	EventKey    string `gorm:"primary_key"`
	ProcessedAt time.Time
}

func (ProcessedPurchaseEventModel) TableName() string { return "processed_purchase_events" }
