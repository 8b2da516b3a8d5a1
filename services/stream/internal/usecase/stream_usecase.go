package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"streamboom/pkg/logger"
	"streamboom/services/stream/internal/entity"
	"streamboom/services/stream/internal/repo/persistent"
)

const liveStreamsLimit = 50

var (
	ErrStreamNotFound = errors.New("stream not found")
	ErrStreamEnded    = errors.New("stream already ended")
	ErrNotOwner       = errors.New("not the stream owner")
	ErrEmptyMessage   = errors.New("message cannot be empty")
)

// Directory mirrors live stream ownership into redis so other services
// can resolve a stream's owner without a cross-service call.
type Directory interface {
	Register(streamID, ownerID string) error
	SetViewers(streamID string, viewers int) error
	Unregister(streamID string) error
}

type redisDirectory struct {
	client *redis.Client
}

func NewRedisDirectory(client *redis.Client) Directory {
	return &redisDirectory{client: client}
}

func (d *redisDirectory) Register(streamID, ownerID string) error {
	return d.client.HSet(context.Background(), "stream:"+streamID, "owner_id", ownerID).Err()
}

func (d *redisDirectory) SetViewers(streamID string, viewers int) error {
	return d.client.HSet(context.Background(), "stream:"+streamID, "viewers", strconv.Itoa(viewers)).Err()
}

func (d *redisDirectory) Unregister(streamID string) error {
	return d.client.Del(context.Background(), "stream:"+streamID).Err()
}

type StartStreamInput struct {
	OwnerID     string
	Title       string
	Description string
	Category    string
	TTSEnabled  bool
	TTSVoice    string
}

type StreamUseCase interface {
	StartStream(input StartStreamInput) (*entity.Stream, error)
	GetStream(streamID string) (*entity.Stream, error)
	ListLive() ([]*entity.Stream, error)
	StopStream(streamID, userID string) (*entity.Stream, error)
	ReportViewers(streamID, userID string, viewers int) error
	PostChatMessage(streamID, userID, username, text string) (*entity.ChatMessage, error)
	GetChatMessages(streamID string, limit int) ([]*entity.ChatMessage, error)
}

type streamUseCase struct {
	streamRepo persistent.StreamRepository
	directory  Directory
	logger     *logger.Logger
}

func NewStreamUseCase(streamRepo persistent.StreamRepository, directory Directory, logger *logger.Logger) StreamUseCase {
	return &streamUseCase{
		streamRepo: streamRepo,
		directory:  directory,
		logger:     logger,
	}
}

func newStreamKey() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate stream key: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func (uc *streamUseCase) StartStream(input StartStreamInput) (*entity.Stream, error) {
	key, err := newStreamKey()
	if err != nil {
		return nil, err
	}

	category := input.Category
	if category == "" {
		category = "Other"
	}

	stream := &entity.Stream{
		OwnerID:     input.OwnerID,
		Title:       input.Title,
		Description: input.Description,
		Category:    category,
		IsLive:      true,
		TTSEnabled:  input.TTSEnabled,
		TTSVoice:    input.TTSVoice,
		StreamKey:   key,
		StartedAt:   time.Now(),
	}

	if err := uc.streamRepo.Create(stream); err != nil {
		return nil, err
	}

	if err := uc.directory.Register(stream.ID, stream.OwnerID); err != nil {
		uc.logger.Error("Failed to register stream %s in directory: %v", stream.ID, err)
	}

	uc.logger.Info("Stream %s started by user %s", stream.ID, stream.OwnerID)
	return stream, nil
}

func (uc *streamUseCase) GetStream(streamID string) (*entity.Stream, error) {
	stream, err := uc.streamRepo.GetByID(streamID)
	if err != nil {
		return nil, err
	}
	if stream == nil {
		return nil, ErrStreamNotFound
	}
	stream.StreamKey = ""
	return stream, nil
}

func (uc *streamUseCase) ListLive() ([]*entity.Stream, error) {
	return uc.streamRepo.ListLive(liveStreamsLimit)
}

func (uc *streamUseCase) StopStream(streamID, userID string) (*entity.Stream, error) {
	stream, err := uc.streamRepo.GetByID(streamID)
	if err != nil {
		return nil, err
	}
	if stream == nil {
		return nil, ErrStreamNotFound
	}
	if stream.OwnerID != userID {
		return nil, ErrNotOwner
	}
	if !stream.IsLive {
		return nil, ErrStreamEnded
	}

	now := time.Now()
	stream.IsLive = false
	stream.EndedAt = &now
	if err := uc.streamRepo.Update(stream); err != nil {
		return nil, err
	}

	if err := uc.directory.Unregister(stream.ID); err != nil {
		uc.logger.Error("Failed to unregister stream %s from directory: %v", stream.ID, err)
	}

	uc.logger.Info("Stream %s stopped", stream.ID)
	stream.StreamKey = ""
	return stream, nil
}

func (uc *streamUseCase) ReportViewers(streamID, userID string, viewers int) error {
	stream, err := uc.streamRepo.GetByID(streamID)
	if err != nil {
		return err
	}
	if stream == nil {
		return ErrStreamNotFound
	}
	if stream.OwnerID != userID {
		return ErrNotOwner
	}
	if !stream.IsLive {
		return ErrStreamEnded
	}
	if viewers < 0 {
		viewers = 0
	}

	if err := uc.streamRepo.UpdateViewers(streamID, viewers); err != nil {
		return err
	}

	if err := uc.directory.SetViewers(streamID, viewers); err != nil {
		uc.logger.Error("Failed to cache viewer count for stream %s: %v", streamID, err)
	}

	return nil
}

func (uc *streamUseCase) PostChatMessage(streamID, userID, username, text string) (*entity.ChatMessage, error) {
	if text == "" {
		return nil, ErrEmptyMessage
	}

	stream, err := uc.streamRepo.GetByID(streamID)
	if err != nil {
		return nil, err
	}
	if stream == nil {
		return nil, ErrStreamNotFound
	}
	if !stream.IsLive {
		return nil, ErrStreamEnded
	}

	message := &entity.ChatMessage{
		StreamID:  streamID,
		UserID:    userID,
		Username:  username,
		Message:   text,
		CreatedAt: time.Now(),
	}
	if err := uc.streamRepo.CreateChatMessage(message); err != nil {
		return nil, err
	}

	return message, nil
}

func (uc *streamUseCase) GetChatMessages(streamID string, limit int) ([]*entity.ChatMessage, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return uc.streamRepo.ListChatMessages(streamID, limit)
}
