package usecase

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamboom/pkg/logger"
	"streamboom/pkg/queue"
	"streamboom/services/referral/internal/entity"
	"streamboom/services/referral/internal/repo/persistent"
)

type fakeReferralRepository struct {
	byReferred map[string]*entity.Referral
	codes      map[string]string // user id -> code
	seenEvents map[string]bool
	rewards    int
	// applyErr fails the next ApplyPurchase before anything commits,
	// the way a rolled-back transaction would.
	applyErr error
}

func newFakeReferralRepository() *fakeReferralRepository {
	return &fakeReferralRepository{
		byReferred: make(map[string]*entity.Referral),
		codes:      make(map[string]string),
		seenEvents: make(map[string]bool),
	}
}

func (f *fakeReferralRepository) Create(referral *entity.Referral) error {
	referral.ID = fmt.Sprintf("ref-%d", len(f.byReferred)+1)
	f.byReferred[referral.ReferredUserID] = referral
	return nil
}

func (f *fakeReferralRepository) GetByReferred(referredUserID string) (*entity.Referral, error) {
	return f.byReferred[referredUserID], nil
}

func (f *fakeReferralRepository) ListByReferrer(referrerID string) ([]*entity.Referral, error) {
	var out []*entity.Referral
	for _, r := range f.byReferred {
		if r.ReferrerID == referrerID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReferralRepository) ApplyPurchase(eventKey, referredUserID string, amountBB int) (*entity.Referral, bool, error) {
	if f.seenEvents[eventKey] {
		return nil, false, persistent.ErrDuplicateEvent
	}
	if f.applyErr != nil {
		// Nothing committed: the marker rolls back with the rest
		err := f.applyErr
		f.applyErr = nil
		return nil, false, err
	}
	f.seenEvents[eventKey] = true

	referral := f.byReferred[referredUserID]
	if referral == nil {
		return nil, false, nil
	}

	referral.PurchaseAmount += amountBB
	if referral.Status == entity.StatusPending && referral.PurchaseAmount >= entity.QualifyThresholdBB {
		referral.Status = entity.StatusQualified
	}

	rewarded := false
	if referral.Status == entity.StatusQualified && referral.RewardEarned == 0 {
		referral.Status = entity.StatusRewarded
		referral.RewardEarned = entity.RewardBB
		f.rewards++
		rewarded = true
	}
	return referral, rewarded, nil
}

func (f *fakeReferralRepository) GetReferralCode(userID string) (string, error) {
	return f.codes[userID], nil
}

func (f *fakeReferralRepository) ResolveReferralCode(code string) (string, error) {
	for userID, c := range f.codes {
		if c == code {
			return userID, nil
		}
	}
	return "", nil
}

type fakePublisher struct {
	tasks []*queue.NotificationTask
}

func (f *fakePublisher) PublishNotificationTask(task *queue.NotificationTask) error {
	f.tasks = append(f.tasks, task)
	return nil
}

func TestCreateReferral(t *testing.T) {
	repo := newFakeReferralRepository()
	repo.codes["alice"] = "ALICE1"
	publisher := &fakePublisher{}
	uc := NewReferralUseCase(repo, publisher, logger.New())

	referral, err := uc.CreateReferral("ALICE1", "bob")
	require.NoError(t, err)
	assert.Equal(t, "alice", referral.ReferrerID)
	assert.Equal(t, "bob", referral.ReferredUserID)
	assert.Equal(t, entity.StatusPending, referral.Status)

	_, err = uc.CreateReferral("ALICE1", "bob")
	assert.ErrorIs(t, err, ErrAlreadyReferred)

	_, err = uc.CreateReferral("ALICE1", "alice")
	assert.ErrorIs(t, err, ErrSelfReferral)

	_, err = uc.CreateReferral("NOSUCH", "carol")
	assert.ErrorIs(t, err, ErrUnknownCode)
}

func TestRecordPurchaseQualifiesAndRewardsOnce(t *testing.T) {
	repo := newFakeReferralRepository()
	repo.codes["alice"] = "ALICE1"
	publisher := &fakePublisher{}
	uc := NewReferralUseCase(repo, publisher, logger.New())

	_, err := uc.CreateReferral("ALICE1", "bob")
	require.NoError(t, err)

	referral, err := uc.RecordPurchase("evt-1", "bob", 1)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, referral.Status)
	assert.Equal(t, 1, referral.PurchaseAmount)

	referral, err = uc.RecordPurchase("evt-2", "bob", 2)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusRewarded, referral.Status)
	assert.Equal(t, 3, referral.PurchaseAmount)
	assert.Equal(t, entity.RewardBB, referral.RewardEarned)
	require.Len(t, publisher.tasks, 1)
	assert.Equal(t, "alice", publisher.tasks[0].UserID)
	assert.Equal(t, "referral_reward", publisher.tasks[0].Type)

	// Further purchases keep accumulating but never credit again
	referral, err = uc.RecordPurchase("evt-3", "bob", 1)
	require.NoError(t, err)
	assert.Equal(t, 4, referral.PurchaseAmount)
	assert.Equal(t, entity.RewardBB, referral.RewardEarned)
	assert.Equal(t, 1, repo.rewards)
	assert.Len(t, publisher.tasks, 1)
}

func TestRecordPurchaseIgnoresDuplicateEvents(t *testing.T) {
	repo := newFakeReferralRepository()
	repo.codes["alice"] = "ALICE1"
	publisher := &fakePublisher{}
	uc := NewReferralUseCase(repo, publisher, logger.New())

	_, err := uc.CreateReferral("ALICE1", "bob")
	require.NoError(t, err)

	_, err = uc.RecordPurchase("evt-1", "bob", 2)
	require.NoError(t, err)

	// Redelivered event must not count twice
	referral, err := uc.RecordPurchase("evt-1", "bob", 2)
	require.NoError(t, err)
	assert.Nil(t, referral)

	stored, _ := repo.GetByReferred("bob")
	assert.Equal(t, 2, stored.PurchaseAmount)
	assert.Equal(t, entity.StatusPending, stored.Status)
}

func TestRecordPurchaseRedeliveryAfterFailureStillCounts(t *testing.T) {
	repo := newFakeReferralRepository()
	repo.codes["alice"] = "ALICE1"
	publisher := &fakePublisher{}
	uc := NewReferralUseCase(repo, publisher, logger.New())

	_, err := uc.CreateReferral("ALICE1", "bob")
	require.NoError(t, err)

	// First delivery dies mid-handler. The broker requeues the event,
	// and because the dedup marker rolled back with everything else
	// the redelivery must be processed, not skipped as a duplicate.
	repo.applyErr = errors.New("connection reset")
	_, err = uc.RecordPurchase("evt-1", "bob", 5)
	require.Error(t, err)

	referral, err := uc.RecordPurchase("evt-1", "bob", 5)
	require.NoError(t, err)
	require.NotNil(t, referral)
	assert.Equal(t, 5, referral.PurchaseAmount)

	stored, _ := repo.GetByReferred("bob")
	assert.Equal(t, 5, stored.PurchaseAmount)
}

func TestRecordPurchaseForUnreferredUser(t *testing.T) {
	repo := newFakeReferralRepository()
	publisher := &fakePublisher{}
	uc := NewReferralUseCase(repo, publisher, logger.New())

	referral, err := uc.RecordPurchase("evt-1", "loner", 5)
	require.NoError(t, err)
	assert.Nil(t, referral)
	assert.Empty(t, publisher.tasks)
}
