package persistent

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"streamboom/services/stream/internal/entity"
	"streamboom/services/stream/internal/model"
)

type StreamRepository interface {
	Create(stream *entity.Stream) error
	GetByID(streamID string) (*entity.Stream, error)
	ListLive(limit int) ([]*entity.Stream, error)
	Update(stream *entity.Stream) error
	UpdateViewers(streamID string, viewers int) error
	CreateChatMessage(message *entity.ChatMessage) error
	ListChatMessages(streamID string, limit int) ([]*entity.ChatMessage, error)
}

type streamRepository struct {
	db *gorm.DB
}

func NewStreamRepository(db *gorm.DB) StreamRepository {
	return &streamRepository{db: db}
}

func (r *streamRepository) Create(stream *entity.Stream) error {
	streamModel := ToStreamModel(stream)
	if streamModel.ID == "" {
		streamModel.ID = uuid.New().String()
	}

	if err := r.db.Create(streamModel).Error; err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}

	stream.ID = streamModel.ID
	return nil
}

func (r *streamRepository) GetByID(streamID string) (*entity.Stream, error) {
	var streamModel model.StreamModel
	err := r.db.Where("id = ?", streamID).First(&streamModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stream: %w", err)
	}

	return ToStreamEntity(&streamModel), nil
}

func (r *streamRepository) ListLive(limit int) ([]*entity.Stream, error) {
	var streamModels []model.StreamModel
	err := r.db.
		Where("is_live = ?", true).
		Order("viewers_count DESC").
		Limit(limit).
		Find(&streamModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list live streams: %w", err)
	}

	streams := make([]*entity.Stream, 0, len(streamModels))
	for i := range streamModels {
		stream := ToStreamEntity(&streamModels[i])
		// Keys never leave the owner's own responses
		stream.StreamKey = ""
		streams = append(streams, stream)
	}

	return streams, nil
}

func (r *streamRepository) Update(stream *entity.Stream) error {
	if err := r.db.Save(ToStreamModel(stream)).Error; err != nil {
		return fmt.Errorf("failed to update stream: %w", err)
	}
	return nil
}

func (r *streamRepository) UpdateViewers(streamID string, viewers int) error {
	err := r.db.Model(&model.StreamModel{}).
		Where("id = ? AND is_live = ?", streamID, true).
		Update("viewers_count", viewers).Error
	if err != nil {
		return fmt.Errorf("failed to update viewer count: %w", err)
	}
	return nil
}

func (r *streamRepository) CreateChatMessage(message *entity.ChatMessage) error {
	messageModel := ToChatMessageModel(message)
	if messageModel.ID == "" {
		messageModel.ID = uuid.New().String()
	}

	if err := r.db.Create(messageModel).Error; err != nil {
		return fmt.Errorf("failed to create chat message: %w", err)
	}

	message.ID = messageModel.ID
	message.CreatedAt = messageModel.CreatedAt
	return nil
}

func (r *streamRepository) ListChatMessages(streamID string, limit int) ([]*entity.ChatMessage, error) {
	var messageModels []model.ChatMessageModel
	err := r.db.
		Where("stream_id = ?", streamID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messageModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}

	// Oldest first for display
	messages := make([]*entity.ChatMessage, 0, len(messageModels))
	for i := len(messageModels) - 1; i >= 0; i-- {
		messages = append(messages, ToChatMessageEntity(&messageModels[i]))
	}

	return messages, nil
}
