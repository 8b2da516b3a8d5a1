package entity

import "time"

type WithdrawalStatus string

const (
	WithdrawalPending    WithdrawalStatus = "pending"
	WithdrawalProcessing WithdrawalStatus = "processing"
	WithdrawalCompleted  WithdrawalStatus = "completed"
	WithdrawalRejected   WithdrawalStatus = "rejected"
)

// WithdrawalRequest as the admin panel sees it. Amount is in
// Boombucks and was already debited when the user filed the request.
type WithdrawalRequest struct {
	ID            string           `json:"id"`
	UserID        string           `json:"user_id"`
	Username      string           `json:"username"`
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

// PlatformStats is the admin dashboard summary.
type PlatformStats struct {
	TotalUsers          int64 `json:"total_users"`
	LiveStreams         int64 `json:"live_streams"`
	PendingWithdrawals  int64 `json:"pending_withdrawals"`
	CompletedFeesRubles int64 `json:"completed_fees_rubles"`
	TotalTransactions   int64 `json:"total_transactions"`
}
