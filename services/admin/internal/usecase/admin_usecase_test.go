package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamboom/pkg/logger"
	"streamboom/pkg/queue"
	"streamboom/services/admin/internal/entity"
)

type fakeWithdrawalRepository struct {
	withdrawals map[string]*entity.WithdrawalRequest
	balances    map[string]int
	txStatus    map[string]string
}

func newFakeWithdrawalRepository() *fakeWithdrawalRepository {
	return &fakeWithdrawalRepository{
		withdrawals: make(map[string]*entity.WithdrawalRequest),
		balances:    make(map[string]int),
		txStatus:    make(map[string]string),
	}
}

func (f *fakeWithdrawalRepository) List(status string, limit, offset int) ([]*entity.WithdrawalRequest, error) {
	var out []*entity.WithdrawalRequest
	for _, w := range f.withdrawals {
		if status == "" || string(w.Status) == status {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeWithdrawalRepository) GetByID(withdrawalID string) (*entity.WithdrawalRequest, error) {
	w, ok := f.withdrawals[withdrawalID]
	if !ok {
		return nil, nil
	}
	copied := *w
	return &copied, nil
}

func (f *fakeWithdrawalRepository) MarkProcessing(withdrawalID string) (bool, error) {
	w, ok := f.withdrawals[withdrawalID]
	if !ok || w.Status != entity.WithdrawalPending {
		return false, nil
	}
	w.Status = entity.WithdrawalProcessing
	return true, nil
}

func (f *fakeWithdrawalRepository) Complete(withdrawalID string) (bool, error) {
	w, ok := f.withdrawals[withdrawalID]
	if !ok || w.Status != entity.WithdrawalProcessing {
		return false, nil
	}
	w.Status = entity.WithdrawalCompleted
	f.txStatus[w.TransactionID] = "completed"
	return true, nil
}

func (f *fakeWithdrawalRepository) Reject(withdrawalID string) (bool, error) {
	w, ok := f.withdrawals[withdrawalID]
	if !ok || (w.Status != entity.WithdrawalPending && w.Status != entity.WithdrawalProcessing) {
		return false, nil
	}
	w.Status = entity.WithdrawalRejected
	f.balances[w.UserID] += w.Amount
	f.txStatus[w.TransactionID] = "rejected"
	return true, nil
}

func (f *fakeWithdrawalRepository) Stats() (*entity.PlatformStats, error) {
	stats := &entity.PlatformStats{}
	for _, w := range f.withdrawals {
		if w.Status == entity.WithdrawalPending {
			stats.PendingWithdrawals++
		}
		if w.Status == entity.WithdrawalCompleted {
			stats.CompletedFeesRubles += int64(w.FeeRubles)
		}
	}
	return stats, nil
}

type fakePublisher struct {
	tasks []*queue.NotificationTask
}

func (f *fakePublisher) PublishNotificationTask(task *queue.NotificationTask) error {
	f.tasks = append(f.tasks, task)
	return nil
}

func seedWithdrawal(repo *fakeWithdrawalRepository) *entity.WithdrawalRequest {
	w := &entity.WithdrawalRequest{
		ID:            "wd-1",
		UserID:        "alice",
		Amount:        40,
		NetRubles:     2800,
		FeeRubles:     1200,
		Status:        entity.WithdrawalPending,
		TransactionID: "tx-1",
	}
	repo.withdrawals[w.ID] = w
	repo.txStatus[w.TransactionID] = "pending"
	return w
}

func TestWithdrawalLifecycle(t *testing.T) {
	repo := newFakeWithdrawalRepository()
	publisher := &fakePublisher{}
	uc := NewAdminUseCase(repo, publisher, logger.New())
	seedWithdrawal(repo)

	// complete before processing is blocked
	_, err := uc.ProcessWithdrawal("wd-1", "complete")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	processed, err := uc.ProcessWithdrawal("wd-1", "process")
	require.NoError(t, err)
	assert.Equal(t, entity.WithdrawalProcessing, processed.Status)

	completed, err := uc.ProcessWithdrawal("wd-1", "complete")
	require.NoError(t, err)
	assert.Equal(t, entity.WithdrawalCompleted, completed.Status)
	assert.Equal(t, "completed", repo.txStatus["tx-1"])

	require.Len(t, publisher.tasks, 2)
	assert.Equal(t, "withdrawal_process", publisher.tasks[0].Type)
	assert.Equal(t, "withdrawal_complete", publisher.tasks[1].Type)

	// terminal state, nothing more applies
	_, err = uc.ProcessWithdrawal("wd-1", "reject")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestRejectRefundsUser(t *testing.T) {
	repo := newFakeWithdrawalRepository()
	publisher := &fakePublisher{}
	uc := NewAdminUseCase(repo, publisher, logger.New())
	seedWithdrawal(repo)
	repo.balances["alice"] = 60

	rejected, err := uc.ProcessWithdrawal("wd-1", "reject")
	require.NoError(t, err)
	assert.Equal(t, entity.WithdrawalRejected, rejected.Status)
	assert.Equal(t, 100, repo.balances["alice"])
	assert.Equal(t, "rejected", repo.txStatus["tx-1"])
	require.Len(t, publisher.tasks, 1)
	assert.Equal(t, "withdrawal_reject", publisher.tasks[0].Type)
}

func TestProcessWithdrawalErrors(t *testing.T) {
	repo := newFakeWithdrawalRepository()
	uc := NewAdminUseCase(repo, &fakePublisher{}, logger.New())
	seedWithdrawal(repo)

	_, err := uc.ProcessWithdrawal("no-such", "process")
	assert.ErrorIs(t, err, ErrWithdrawalNotFound)

	_, err = uc.ProcessWithdrawal("wd-1", "escalate")
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestStatsCollectFees(t *testing.T) {
	repo := newFakeWithdrawalRepository()
	uc := NewAdminUseCase(repo, &fakePublisher{}, logger.New())
	seedWithdrawal(repo)

	_, err := uc.ProcessWithdrawal("wd-1", "process")
	require.NoError(t, err)
	_, err = uc.ProcessWithdrawal("wd-1", "complete")
	require.NoError(t, err)

	stats, err := uc.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(1200), stats.CompletedFeesRubles)
	assert.Equal(t, int64(0), stats.PendingWithdrawals)
}
