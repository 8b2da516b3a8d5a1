package model

import "time"

type CampaignModel struct {
	ID              string `gorm:"type:uuid;primary_key"`
	BrandID         string `gorm:"type:uuid;not null;index"`
	BrandName       string `gorm:"type:varchar(128);not null"`
	CreatorID       string `gorm:"type:uuid;not null;index"`
	AdContent       string `gorm:"not null"`
	Duration        int    `gorm:"not null"`
	Price           int    `gorm:"not null"`
	Status          string `gorm:"type:varchar(16);not null;default:'pending'"`
	RejectionReason string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (CampaignModel) TableName() string { return "ad_campaigns" }

type AdProfileModel struct {
	UserID     string `gorm:"type:uuid;primary_key"`
	Category   string `gorm:"type:varchar(64);not null"`
	AdPrice    int    `gorm:"not null"`
	AcceptsAds bool   `gorm:"not null;default:true"`
	Followers  int    `gorm:"not null;default:0"`
	AvgViews   int    `gorm:"not null;default:0"`
	UpdatedAt  time.Time
}

func (AdProfileModel) TableName() string { return "ad_profiles" }
