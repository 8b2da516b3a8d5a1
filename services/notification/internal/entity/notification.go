package entity

import "time"

type Notification struct {
	ID         string                 `json:"id"`
	UserID     string                 `json:"user_id"`
	Type       string                 `json:"type"`
	Title      string                 `json:"title"`
	Message    string                 `json:"message"`
	CampaignID string                 `json:"campaign_id,omitempty"`
	Data       map[string]interface{} `json:"data,omitempty"`
	Read       bool                   `json:"read"`
	CreatedAt  time.Time              `json:"created_at"`
}
