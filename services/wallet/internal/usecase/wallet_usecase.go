package usecase

import (
	"context"
	"errors"
	"fmt"

	"streamboom/pkg/boombucks"
	"streamboom/pkg/logger"
	"streamboom/pkg/queue"
	"streamboom/services/wallet/internal/entity"
	"streamboom/services/wallet/internal/repo/persistent"

	"github.com/redis/go-redis/v9"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNothingToCredit     = errors.New("amount converts to zero boombucks")
	ErrInvalidCurrency     = errors.New("unsupported currency")
	ErrStreamNotFound      = errors.New("stream not found")
	ErrSelfDonation        = errors.New("cannot donate to your own stream")
)

// EventPublisher decouples the ledger from the message broker.
type EventPublisher interface {
	PublishPurchaseEvent(event *queue.PurchaseEvent) error
	PublishNotificationTask(task *queue.NotificationTask) error
}

// StreamDirectory resolves a stream to its owner. The stream service
// maintains the mapping in redis while a stream is live.
type StreamDirectory interface {
	OwnerOf(ctx context.Context, streamID string) (string, error)
}

type redisStreamDirectory struct {
	client *redis.Client
}

func NewRedisStreamDirectory(client *redis.Client) StreamDirectory {
	return &redisStreamDirectory{client: client}
}

func (d *redisStreamDirectory) OwnerOf(ctx context.Context, streamID string) (string, error) {
	return d.client.HGet(ctx, fmt.Sprintf("stream:%s", streamID), "owner_id").Result()
}

type WalletUseCase interface {
	GetWallet(userID string) (*entity.Wallet, error)
	Purchase(userID string, amount float64, currency boombucks.Currency) (*entity.Wallet, *entity.Transaction, error)
	Donate(userID, streamID string, amount int, message string) (*entity.Wallet, error)
	Withdraw(userID string, amount int, method, methodDetails string) (*entity.WithdrawalRequest, error)
	GetTransactions(userID string, limit, offset int) ([]*entity.Transaction, error)
	GetDonations(streamID string, limit int) ([]*entity.Donation, error)
}

type walletUseCase struct {
	walletRepo persistent.WalletRepository
	streams    StreamDirectory
	publisher  EventPublisher
	logger     *logger.Logger
}

func NewWalletUseCase(walletRepo persistent.WalletRepository, streams StreamDirectory, publisher EventPublisher, logger *logger.Logger) WalletUseCase {
	return &walletUseCase{
		walletRepo: walletRepo,
		streams:    streams,
		publisher:  publisher,
		logger:     logger,
	}
}

func (uc *walletUseCase) GetWallet(userID string) (*entity.Wallet, error) {
	wallet, err := uc.walletRepo.GetOrCreateWallet(userID)
	if err != nil {
		uc.logger.Error("Failed to get wallet: %v", err)
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return wallet, nil
}

func (uc *walletUseCase) Purchase(userID string, amount float64, currency boombucks.Currency) (*entity.Wallet, *entity.Transaction, error) {
	if !boombucks.Valid(currency) {
		return nil, nil, ErrInvalidCurrency
	}

	credited := boombucks.ToBoombucks(amount, currency)
	if credited == 0 {
		return nil, nil, ErrNothingToCredit
	}

	transaction := &entity.Transaction{
		UserID:      userID,
		Type:        entity.TransactionTypeBuy,
		Amount:      credited,
		Currency:    string(currency),
		Description: fmt.Sprintf("Purchased %d Boombucks with %s", credited, currency),
		Status:      entity.TransactionStatusCompleted,
	}
	wallet, err := uc.walletRepo.Credit(transaction)
	if err != nil {
		uc.logger.Error("Failed to apply purchase: %v", err)
		return nil, nil, fmt.Errorf("failed to credit purchase: %w", err)
	}

	// Referral qualification. The transaction ID dedupes broker
	// redeliveries so a purchase is never counted twice.
	event := &queue.PurchaseEvent{
		Key:      transaction.ID,
		UserID:   userID,
		AmountBB: credited,
	}
	if err := uc.publisher.PublishPurchaseEvent(event); err != nil {
		uc.logger.Error("Failed to publish purchase event: %v", err)
	}

	return wallet, transaction, nil
}

func (uc *walletUseCase) Donate(userID, streamID string, amount int, message string) (*entity.Wallet, error) {
	ownerID, err := uc.streams.OwnerOf(context.Background(), streamID)
	if err != nil {
		return nil, ErrStreamNotFound
	}

	if ownerID == userID {
		return nil, ErrSelfDonation
	}

	sent := &entity.Transaction{
		UserID:      userID,
		Type:        entity.TransactionTypeDonationSent,
		Amount:      amount,
		Description: fmt.Sprintf("Donation to stream %s", streamID),
		Status:      entity.TransactionStatusCompleted,
		ReferenceID: streamID,
	}
	received := &entity.Transaction{
		UserID:      ownerID,
		Type:        entity.TransactionTypeDonationReceived,
		Amount:      amount,
		Description: fmt.Sprintf("Donation received on stream %s", streamID),
		Status:      entity.TransactionStatusCompleted,
		ReferenceID: streamID,
	}
	donation := &entity.Donation{
		StreamID:   streamID,
		FromUserID: userID,
		Amount:     amount,
		Message:    message,
	}

	wallet, err := uc.walletRepo.Donate(donation, sent, received)
	if err != nil {
		if errors.Is(err, persistent.ErrInsufficientFunds) {
			return nil, ErrInsufficientBalance
		}
		uc.logger.Error("Failed to process donation: %v", err)
		return nil, fmt.Errorf("failed to process donation: %w", err)
	}

	task := &queue.NotificationTask{
		UserID:  ownerID,
		Type:    "payment_received",
		Title:   "Donation received",
		Message: fmt.Sprintf("You received a %d BB donation", amount),
		Data:    map[string]interface{}{"stream_id": streamID, "amount": amount},
	}
	if err := uc.publisher.PublishNotificationTask(task); err != nil {
		uc.logger.Error("Failed to publish donation notification: %v", err)
	}

	return wallet, nil
}

func (uc *walletUseCase) Withdraw(userID string, amount int, method, methodDetails string) (*entity.WithdrawalRequest, error) {
	net, fee := boombucks.WithdrawalSplit(amount)

	transaction := &entity.Transaction{
		UserID:      userID,
		Type:        entity.TransactionTypeWithdraw,
		Amount:      amount,
		Description: fmt.Sprintf("Withdrawal via %s: net ₽%d, fee ₽%d", method, net, fee),
		Status:      entity.TransactionStatusPending,
	}
	request := &entity.WithdrawalRequest{
		UserID:        userID,
		Amount:        amount,
		NetRubles:     net,
		FeeRubles:     fee,
		Method:        method,
		MethodDetails: methodDetails,
		Status:        entity.WithdrawalStatusPending,
	}
	if _, err := uc.walletRepo.Withdraw(request, transaction); err != nil {
		if errors.Is(err, persistent.ErrInsufficientFunds) {
			return nil, ErrInsufficientBalance
		}
		uc.logger.Error("Failed to debit withdrawal: %v", err)
		return nil, fmt.Errorf("failed to debit withdrawal: %w", err)
	}

	return request, nil
}

func (uc *walletUseCase) GetTransactions(userID string, limit, offset int) ([]*entity.Transaction, error) {
	transactions, err := uc.walletRepo.GetTransactions(userID, limit, offset)
	if err != nil {
		uc.logger.Error("Failed to get transactions: %v", err)
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	return transactions, nil
}

func (uc *walletUseCase) GetDonations(streamID string, limit int) ([]*entity.Donation, error) {
	donations, err := uc.walletRepo.GetDonations(streamID, limit)
	if err != nil {
		uc.logger.Error("Failed to get donations: %v", err)
		return nil, fmt.Errorf("failed to get donations: %w", err)
	}
	return donations, nil
}
