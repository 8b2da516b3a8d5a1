package entity

import "time"

type Stream struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Thumbnail   string     `json:"thumbnail,omitempty"`
	Category    string     `json:"category"`
	IsLive      bool       `json:"is_live"`
	ViewerCount int        `json:"viewers_count"`
	TTSEnabled  bool       `json:"tts_enabled"`
	TTSVoice    string     `json:"tts_voice,omitempty"`
	StreamKey   string     `json:"stream_key,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
}

type ChatMessage struct {
	ID        string    `json:"id"`
	StreamID  string    `json:"stream_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
