package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"streamboom/pkg/logger"
	"streamboom/pkg/queue"
	"streamboom/services/notification/internal/entity"
	"streamboom/services/notification/internal/repo/cache"
)

type NotificationUseCase interface {
	// HandleTask turns a queued task into a stored notification.
	HandleTask(task *queue.NotificationTask) error
	GetNotifications(ctx context.Context, userID string, limit int) ([]*entity.Notification, int, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) error
}

type notificationUseCase struct {
	store  cache.NotificationStore
	logger *logger.Logger
}

func NewNotificationUseCase(store cache.NotificationStore, logger *logger.Logger) NotificationUseCase {
	return &notificationUseCase{
		store:  store,
		logger: logger,
	}
}

func (uc *notificationUseCase) HandleTask(task *queue.NotificationTask) error {
	if task.UserID == "" {
		uc.logger.Warn("Dropping notification task with no user id (type=%s)", task.Type)
		return nil
	}

	notification := &entity.Notification{
		ID:         uuid.New().String(),
		UserID:     task.UserID,
		Type:       task.Type,
		Title:      task.Title,
		Message:    task.Message,
		CampaignID: task.CampaignID,
		Data:       task.Data,
		CreatedAt:  time.Now(),
	}

	if err := uc.store.Push(context.Background(), notification); err != nil {
		return err
	}

	uc.logger.Info("Stored %s notification for user %s", task.Type, task.UserID)
	return nil
}

func (uc *notificationUseCase) GetNotifications(ctx context.Context, userID string, limit int) ([]*entity.Notification, int, error) {
	notifications, err := uc.store.List(ctx, userID, limit)
	if err != nil {
		return nil, 0, err
	}

	unread := 0
	for _, n := range notifications {
		if !n.Read {
			unread++
		}
	}
	return notifications, unread, nil
}

func (uc *notificationUseCase) MarkRead(ctx context.Context, userID, notificationID string) error {
	return uc.store.MarkRead(ctx, userID, notificationID)
}

func (uc *notificationUseCase) MarkAllRead(ctx context.Context, userID string) error {
	return uc.store.MarkAllRead(ctx, userID)
}
