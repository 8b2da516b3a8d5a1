package usecase

import (
	"errors"
	"fmt"

	"streamboom/pkg/logger"
	"streamboom/pkg/queue"
	"streamboom/services/admin/internal/entity"
	"streamboom/services/admin/internal/repo/persistent"
)

var (
	ErrWithdrawalNotFound = errors.New("withdrawal not found")
	ErrInvalidTransition  = errors.New("withdrawal is not in the required state")
	ErrUnknownAction      = errors.New("action must be process, complete or reject")
)

type NotificationPublisher interface {
	PublishNotificationTask(task *queue.NotificationTask) error
}

type AdminUseCase interface {
	ListWithdrawals(status string, limit, offset int) ([]*entity.WithdrawalRequest, error)
	// ProcessWithdrawal applies an admin action: "process" moves
	// pending to processing, "complete" settles a processing request,
	// "reject" refunds the user.
	ProcessWithdrawal(withdrawalID, action string) (*entity.WithdrawalRequest, error)
	GetStats() (*entity.PlatformStats, error)
}

type adminUseCase struct {
	withdrawalRepo persistent.WithdrawalRepository
	publisher      NotificationPublisher
	logger         *logger.Logger
}

func NewAdminUseCase(withdrawalRepo persistent.WithdrawalRepository, publisher NotificationPublisher, logger *logger.Logger) AdminUseCase {
	return &adminUseCase{
		withdrawalRepo: withdrawalRepo,
		publisher:      publisher,
		logger:         logger,
	}
}

func (uc *adminUseCase) ListWithdrawals(status string, limit, offset int) ([]*entity.WithdrawalRequest, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return uc.withdrawalRepo.List(status, limit, offset)
}

func (uc *adminUseCase) ProcessWithdrawal(withdrawalID, action string) (*entity.WithdrawalRequest, error) {
	withdrawal, err := uc.withdrawalRepo.GetByID(withdrawalID)
	if err != nil {
		return nil, err
	}
	if withdrawal == nil {
		return nil, ErrWithdrawalNotFound
	}

	var ok bool
	switch action {
	case "process":
		ok, err = uc.withdrawalRepo.MarkProcessing(withdrawalID)
		withdrawal.Status = entity.WithdrawalProcessing
	case "complete":
		ok, err = uc.withdrawalRepo.Complete(withdrawalID)
		withdrawal.Status = entity.WithdrawalCompleted
	case "reject":
		ok, err = uc.withdrawalRepo.Reject(withdrawalID)
		withdrawal.Status = entity.WithdrawalRejected
	default:
		return nil, ErrUnknownAction
	}
	if err != nil {
		return nil, fmt.Errorf("failed to %s withdrawal: %w", action, err)
	}
	if !ok {
		return nil, ErrInvalidTransition
	}

	uc.notifyUser(withdrawal, action)
	uc.logger.Info("Withdrawal %s: %s (%d BB, user %s)", withdrawal.ID, action, withdrawal.Amount, withdrawal.UserID)
	return withdrawal, nil
}

func (uc *adminUseCase) notifyUser(withdrawal *entity.WithdrawalRequest, action string) {
	var title, message string
	switch action {
	case "process":
		title = "Withdrawal in progress"
		message = fmt.Sprintf("Your %d BB withdrawal is being processed", withdrawal.Amount)
	case "complete":
		title = "Withdrawal completed"
		message = fmt.Sprintf("Your withdrawal was paid out: %d rubles", withdrawal.NetRubles)
	case "reject":
		title = "Withdrawal rejected"
		message = fmt.Sprintf("Your %d BB withdrawal was rejected, the amount is back on your balance", withdrawal.Amount)
	}

	task := &queue.NotificationTask{
		UserID:  withdrawal.UserID,
		Type:    "withdrawal_" + action,
		Title:   title,
		Message: message,
		Data:    map[string]interface{}{"withdrawal_id": withdrawal.ID},
	}
	if err := uc.publisher.PublishNotificationTask(task); err != nil {
		uc.logger.Error("Failed to publish withdrawal notification: %v", err)
	}
}

func (uc *adminUseCase) GetStats() (*entity.PlatformStats, error) {
	return uc.withdrawalRepo.Stats()
}
