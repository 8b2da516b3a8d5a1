package entity

import "time"

type ReferralStatus string

const (
	// StatusPending: the referred user has not yet purchased enough.
	StatusPending ReferralStatus = "pending"
	// StatusQualified: the purchase threshold is met, reward not yet credited.
	StatusQualified ReferralStatus = "qualified"
	// StatusRewarded: the referrer has been credited. Terminal.
	StatusRewarded ReferralStatus = "rewarded"
)

// QualifyThresholdBB is the cumulative Boombuck purchase amount a
// referred user must reach before the referral qualifies.
const QualifyThresholdBB = 3

// RewardBB is credited to the referrer exactly once per referral.
const RewardBB = 1

type Referral struct {
	ID               string         `json:"id"`
	ReferrerID       string         `json:"referrer_id"`
	ReferredUserID   string         `json:"referred_user_id"`
	ReferredUsername string         `json:"referred_username,omitempty"`
	PurchaseAmount   int            `json:"purchase_amount"`
	RewardEarned     int            `json:"reward_earned"`
	Status           ReferralStatus `json:"status"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}
