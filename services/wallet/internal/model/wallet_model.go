package model

import "time"

type WalletModel struct {
	ID        string `gorm:"type:uuid;primary_key"`
	UserID    string `gorm:"type:uuid;uniqueIndex;not null"`
	Balance   int    `gorm:"default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (WalletModel) TableName() string { return "wallets" }

type TransactionModel struct {
	ID          string `gorm:"type:uuid;primary_key"`
	UserID      string `gorm:"type:uuid;not null;index"`
	Type        string `gorm:"type:varchar(24);not null"`
	Amount      int    `gorm:"not null"`
	Currency    string `gorm:"type:varchar(10)"`
	Description string
	Status      string `gorm:"type:varchar(16);not null"`
	ReferenceID string `gorm:"type:uuid"`
	CreatedAt   time.Time
}

func (TransactionModel) TableName() string { return "transactions" }

type WithdrawalRequestModel struct {
	ID            string `gorm:"type:uuid;primary_key"`
	UserID        string `gorm:"type:uuid;not null;index"`
	Amount        int    `gorm:"not null"`
	NetRubles     int    `gorm:"not null"`
	FeeRubles     int    `gorm:"not null"`
	Method        string `gorm:"type:varchar(32);not null"`
	MethodDetails string `gorm:"not null"`
	Status        string `gorm:"type:varchar(16);not null"`
	TransactionID string `gorm:"type:uuid;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (WithdrawalRequestModel) TableName() string { return "withdrawal_requests" }

type DonationModel struct {
	ID         string `gorm:"type:uuid;primary_key"`
	StreamID   string `gorm:"type:uuid;not null;index"`
	FromUserID string `gorm:"type:uuid;not null"`
	Amount     int    `gorm:"not null"`
	Message    string
	CreatedAt  time.Time
}

func (DonationModel) TableName() string { return "donations" }
