package entity

import "time"

type CampaignStatus string

const (
	// CampaignPending: the brand has paid, price is held in escrow.
	CampaignPending CampaignStatus = "pending"
	// CampaignApproved: creator accepted, funds remain escrowed.
	CampaignApproved CampaignStatus = "approved"
	// CampaignLive: the ad is running, creator has been paid. Terminal.
	CampaignLive CampaignStatus = "live"
	// CampaignRejected: creator declined, brand was refunded. Terminal.
	CampaignRejected CampaignStatus = "rejected"
)

type Campaign struct {
	ID              string         `json:"id"`
	BrandID         string         `json:"brand_id"`
	BrandName       string         `json:"brand_name"`
	CreatorID       string         `json:"creator_id"`
	AdContent       string         `json:"ad_content"`
	Duration        int            `json:"duration"`
	Price           int            `json:"price"`
	Status          CampaignStatus `json:"status"`
	RejectionReason string         `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// AdProfile is a creator's listing on the ad marketplace.
type AdProfile struct {
	UserID     string    `json:"user_id"`
	Username   string    `json:"username"`
	Category   string    `json:"category"`
	AdPrice    int       `json:"ad_price"`
	AcceptsAds bool      `json:"accepts_ads"`
	Followers  int       `json:"followers"`
	AvgViews   int       `json:"avg_views"`
	UpdatedAt  time.Time `json:"updated_at"`
}
