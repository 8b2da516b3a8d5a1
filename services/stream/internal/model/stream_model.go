package model

import "time"

type StreamModel struct {
	ID           string `gorm:"type:uuid;primary_key"`
	OwnerID      string `gorm:"type:uuid;not null;index"`
	Title        string `gorm:"type:varchar(255);not null"`
	Description  string
	Thumbnail    string
	Category     string `gorm:"type:varchar(64);not null;default:'Other'"`
	IsLive       bool   `gorm:"not null;default:true"`
	ViewersCount int    `gorm:"not null;default:0"`
	TTSEnabled   bool   `gorm:"column:tts_enabled;not null;default:false"`
	TTSVoice     string `gorm:"column:tts_voice;type:varchar(16)"`
	StreamKey    string `gorm:"type:varchar(64);uniqueIndex;not null"`
	StartedAt    time.Time
	EndedAt      *time.Time
}

func (StreamModel) TableName() string { return "streams" }

type ChatMessageModel struct {
	ID        string `gorm:"type:uuid;primary_key"`
	StreamID  string `gorm:"type:uuid;not null;index"`
	UserID    string `gorm:"type:uuid;not null"`
	Username  string `gorm:"type:varchar(64);not null"`
	Message   string `gorm:"not null"`
	CreatedAt time.Time
}

func (ChatMessageModel) TableName() string { return "chat_messages" }
