package model

import "time"

type UserModel struct {
	ID           string `gorm:"type:uuid;primary_key"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null"`
	Username     string `gorm:"type:varchar(64);uniqueIndex;not null"`
	Password     string `gorm:"type:varchar(255);not null"`
	Role         string `gorm:"type:varchar(20);not null;default:'viewer'"`
	Avatar       string
	Bio          string
	ReferralCode string `gorm:"type:varchar(16);uniqueIndex;not null"`
	IsActive     bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (UserModel) TableName() string { return "users" }
