package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamboom/pkg/logger"
	"streamboom/pkg/queue"
	"streamboom/services/notification/internal/entity"
)

type fakeStore struct {
	byUser map[string][]*entity.Notification
	read   map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		byUser: make(map[string][]*entity.Notification),
		read:   make(map[string]bool),
	}
}

func (f *fakeStore) Push(ctx context.Context, n *entity.Notification) error {
	// Newest first, like the redis list
	f.byUser[n.UserID] = append([]*entity.Notification{n}, f.byUser[n.UserID]...)
	return nil
}

func (f *fakeStore) List(ctx context.Context, userID string, limit int) ([]*entity.Notification, error) {
	out := f.byUser[userID]
	if len(out) > limit && limit > 0 {
		out = out[:limit]
	}
	for _, n := range out {
		n.Read = f.read[n.ID]
	}
	return out, nil
}

func (f *fakeStore) MarkRead(ctx context.Context, userID, notificationID string) error {
	f.read[notificationID] = true
	return nil
}

func (f *fakeStore) MarkAllRead(ctx context.Context, userID string) error {
	for _, n := range f.byUser[userID] {
		f.read[n.ID] = true
	}
	return nil
}

func (f *fakeStore) UnreadCount(ctx context.Context, userID string) (int, error) {
	count := 0
	for _, n := range f.byUser[userID] {
		if !f.read[n.ID] {
			count++
		}
	}
	return count, nil
}

func TestHandleTaskStoresNotification(t *testing.T) {
	store := newFakeStore()
	uc := NewNotificationUseCase(store, logger.New())

	err := uc.HandleTask(&queue.NotificationTask{
		UserID:  "alice",
		Type:    "referral_reward",
		Title:   "Referral reward",
		Message: "You earned 1 BB",
	})
	require.NoError(t, err)

	notifications, unread, err := uc.GetNotifications(context.Background(), "alice", 10)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, 1, unread)
	assert.Equal(t, "referral_reward", notifications[0].Type)
	assert.NotEmpty(t, notifications[0].ID)
	assert.False(t, notifications[0].Read)
}

func TestHandleTaskDropsAnonymousTask(t *testing.T) {
	store := newFakeStore()
	uc := NewNotificationUseCase(store, logger.New())

	require.NoError(t, uc.HandleTask(&queue.NotificationTask{Type: "ad_live"}))
	assert.Empty(t, store.byUser)
}

func TestMarkRead(t *testing.T) {
	store := newFakeStore()
	uc := NewNotificationUseCase(store, logger.New())
	ctx := context.Background()

	require.NoError(t, uc.HandleTask(&queue.NotificationTask{UserID: "alice", Type: "a"}))
	require.NoError(t, uc.HandleTask(&queue.NotificationTask{UserID: "alice", Type: "b"}))

	notifications, unread, err := uc.GetNotifications(ctx, "alice", 10)
	require.NoError(t, err)
	assert.Equal(t, 2, unread)

	require.NoError(t, uc.MarkRead(ctx, "alice", notifications[0].ID))
	_, unread, err = uc.GetNotifications(ctx, "alice", 10)
	require.NoError(t, err)
	assert.Equal(t, 1, unread)

	require.NoError(t, uc.MarkAllRead(ctx, "alice"))
	_, unread, err = uc.GetNotifications(ctx, "alice", 10)
	require.NoError(t, err)
	assert.Equal(t, 0, unread)
}
