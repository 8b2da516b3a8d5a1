package entity

import "time"

type TransactionType string

const (
	TransactionTypeBuy              TransactionType = "buy"
	TransactionTypeWithdraw         TransactionType = "withdraw"
	TransactionTypeDonationSent     TransactionType = "donation_sent"
	TransactionTypeDonationReceived TransactionType = "donation_received"
	TransactionTypeAdPurchase       TransactionType = "ad_purchase"
	TransactionTypeAdRefund         TransactionType = "ad_refund"
	TransactionTypeAdRevenue        TransactionType = "ad_revenue"
	TransactionTypeReferralReward   TransactionType = "referral_reward"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusRejected  TransactionStatus = "rejected"
)

type Wallet struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Balance   int       `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Transaction is an immutable ledger record. Only Status may change
// after creation (pending -> completed/rejected).
type Transaction struct {
	ID          string            `json:"id"`
	UserID      string            `json:"user_id"`
	Type        TransactionType   `json:"type"`
	Amount      int               `json:"amount"`
	Currency    string            `json:"currency,omitempty"`
	Description string            `json:"description"`
	Status      TransactionStatus `json:"status"`
	ReferenceID string            `json:"reference_id,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

type WithdrawalStatus string

const (
	WithdrawalStatusPending    WithdrawalStatus = "pending"
	WithdrawalStatusProcessing WithdrawalStatus = "processing"
	WithdrawalStatusCompleted  WithdrawalStatus = "completed"
	WithdrawalStatusRejected   WithdrawalStatus = "rejected"
)

// WithdrawalRequest holds a payout awaiting manual processing. The
// Boombuck amount is debited when the request is created, not when it
// completes.
type WithdrawalRequest struct {
	ID            string           `json:"id"`
	UserID        string           `json:"user_id"`
	Amount        int              `json:"amount"`
	NetRubles     int              `json:"net_rubles"`
	FeeRubles     int              `json:"fee_rubles"`
	Method        string           `json:"method"`
	MethodDetails string           `json:"method_details"`
	Status        WithdrawalStatus `json:"status"`
	TransactionID string           `json:"transaction_id"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// Donation is a stream donation record kept alongside the ledger
// transactions it produces.
type Donation struct {
	ID         string    `json:"id"`
	StreamID   string    `json:"stream_id"`
	FromUserID string    `json:"from_user_id"`
	Amount     int       `json:"amount"`
	Message    string    `json:"message,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
