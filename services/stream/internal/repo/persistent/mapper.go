package persistent

import (
	"streamboom/services/stream/internal/entity"
	"streamboom/services/stream/internal/model"
)

func ToStreamEntity(m *model.StreamModel) *entity.Stream {
	return &entity.Stream{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		Title:       m.Title,
		Description: m.Description,
		Thumbnail:   m.Thumbnail,
		Category:    m.Category,
		IsLive:      m.IsLive,
		ViewerCount: m.ViewersCount,
		TTSEnabled:  m.TTSEnabled,
		TTSVoice:    m.TTSVoice,
		StreamKey:   m.StreamKey,
		StartedAt:   m.StartedAt,
		EndedAt:     m.EndedAt,
	}
}

func ToStreamModel(e *entity.Stream) *model.StreamModel {
	return &model.StreamModel{
		ID:           e.ID,
		OwnerID:      e.OwnerID,
		Title:        e.Title,
		Description:  e.Description,
		Thumbnail:    e.Thumbnail,
		Category:     e.Category,
		IsLive:       e.IsLive,
		ViewersCount: e.ViewerCount,
		TTSEnabled:   e.TTSEnabled,
		TTSVoice:     e.TTSVoice,
		StreamKey:    e.StreamKey,
		StartedAt:    e.StartedAt,
		EndedAt:      e.EndedAt,
	}
}

func ToChatMessageEntity(m *model.ChatMessageModel) *entity.ChatMessage {
	return &entity.ChatMessage{
		ID:        m.ID,
		StreamID:  m.StreamID,
		UserID:    m.UserID,
		Username:  m.Username,
		Message:   m.Message,
		CreatedAt: m.CreatedAt,
	}
}

func ToChatMessageModel(e *entity.ChatMessage) *model.ChatMessageModel {
	return &model.ChatMessageModel{
		ID:        e.ID,
		StreamID:  e.StreamID,
		UserID:    e.UserID,
		Username:  e.Username,
		Message:   e.Message,
		CreatedAt: e.CreatedAt,
	}
}
