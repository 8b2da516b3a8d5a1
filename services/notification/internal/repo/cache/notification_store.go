package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"streamboom/services/notification/internal/entity"
)

const (
	maxStoredPerUser = 100
	notificationTTL  = 30 * 24 * time.Hour
)

// NotificationStore keeps each user's recent notifications in a
// capped redis list, with read markers in a companion set.
type NotificationStore interface {
	Push(ctx context.Context, notification *entity.Notification) error
	List(ctx context.Context, userID string, limit int) ([]*entity.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) error
	UnreadCount(ctx context.Context, userID string) (int, error)
}

type notificationStore struct {
	client *redis.Client
}

func NewNotificationStore(client *redis.Client) NotificationStore {
	return &notificationStore{client: client}
}

func listKey(userID string) string { return "notifications:" + userID }
func readKey(userID string) string { return "notifications:read:" + userID }

func (s *notificationStore) Push(ctx context.Context, notification *entity.Notification) error {
	body, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	key := listKey(notification.UserID)
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, body)
	pipe.LTrim(ctx, key, 0, maxStoredPerUser-1)
	pipe.Expire(ctx, key, notificationTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}
	return nil
}

func (s *notificationStore) List(ctx context.Context, userID string, limit int) ([]*entity.Notification, error) {
	if limit <= 0 || limit > maxStoredPerUser {
		limit = maxStoredPerUser
	}

	items, err := s.client.LRange(ctx, listKey(userID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read notifications: %w", err)
	}

	readIDs, err := s.client.SMembers(ctx, readKey(userID)).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to read markers: %w", err)
	}
	read := make(map[string]bool, len(readIDs))
	for _, id := range readIDs {
		read[id] = true
	}

	notifications := make([]*entity.Notification, 0, len(items))
	for _, item := range items {
		var n entity.Notification
		if err := json.Unmarshal([]byte(item), &n); err != nil {
			continue
		}
		n.Read = read[n.ID]
		notifications = append(notifications, &n)
	}
	return notifications, nil
}

func (s *notificationStore) MarkRead(ctx context.Context, userID, notificationID string) error {
	pipe := s.client.TxPipeline()
	pipe.SAdd(ctx, readKey(userID), notificationID)
	pipe.Expire(ctx, readKey(userID), notificationTTL)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *notificationStore) MarkAllRead(ctx context.Context, userID string) error {
	notifications, err := s.List(ctx, userID, maxStoredPerUser)
	if err != nil {
		return err
	}
	if len(notifications) == 0 {
		return nil
	}

	ids := make([]interface{}, 0, len(notifications))
	for _, n := range notifications {
		ids = append(ids, n.ID)
	}

	pipe := s.client.TxPipeline()
	pipe.SAdd(ctx, readKey(userID), ids...)
	pipe.Expire(ctx, readKey(userID), notificationTTL)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *notificationStore) UnreadCount(ctx context.Context, userID string) (int, error) {
	notifications, err := s.List(ctx, userID, maxStoredPerUser)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, n := range notifications {
		if !n.Read {
			count++
		}
	}
	return count, nil
}
