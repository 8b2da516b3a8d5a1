package persistent

import (
	"errors"

	"streamboom/services/wallet/internal/entity"
	"streamboom/services/wallet/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrInsufficientFunds is returned when a guarded debit finds the
// balance cannot cover the amount.
var ErrInsufficientFunds = errors.New("insufficient funds")

type WalletRepository interface {
	GetOrCreateWallet(userID string) (*entity.Wallet, error)
	// Credit adds transaction.Amount to the user's balance and records
	// the ledger transaction atomically.
	Credit(transaction *entity.Transaction) (*entity.Wallet, error)
	// Donate moves the amount from sender to streamer in one database
	// transaction: guarded sender debit, streamer credit, both ledger
	// rows and the donation record commit or roll back together.
	Donate(donation *entity.Donation, sent, received *entity.Transaction) (*entity.Wallet, error)
	// Withdraw debits the gross amount and opens the payout request
	// atomically. The request's TransactionID is set to the debit row.
	Withdraw(request *entity.WithdrawalRequest, transaction *entity.Transaction) (*entity.Wallet, error)
	GetTransactions(userID string, limit, offset int) ([]*entity.Transaction, error)
	GetDonations(streamID string, limit int) ([]*entity.Donation, error)
}

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) GetOrCreateWallet(userID string) (*entity.Wallet, error) {
	var walletModel model.WalletModel
	if err := r.db.Where("user_id = ?", userID).First(&walletModel).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			walletModel = model.WalletModel{
				ID:      uuid.New().String(),
				UserID:  userID,
				Balance: 0,
			}
			if err := r.db.Create(&walletModel).Error; err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	}
	return ToWalletEntity(&walletModel), nil
}

// creditTx adds to the balance in place. A missing wallet row is
// created with the amount as its opening balance.
func creditTx(tx *gorm.DB, userID string, amount int) error {
	result := tx.Exec(
		"UPDATE wallets SET balance = balance + ?, updated_at = NOW() WHERE user_id = ?",
		amount, userID,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return tx.Create(&model.WalletModel{
			ID:      uuid.New().String(),
			UserID:  userID,
			Balance: amount,
		}).Error
	}
	return nil
}

// debitTx subtracts from the balance with a guard, so two racing
// spends can never both succeed against the same funds.
func debitTx(tx *gorm.DB, userID string, amount int) error {
	result := tx.Exec(
		"UPDATE wallets SET balance = balance - ?, updated_at = NOW() WHERE user_id = ? AND balance >= ?",
		amount, userID, amount,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientFunds
	}
	return nil
}

func createTransactionTx(tx *gorm.DB, transaction *entity.Transaction) error {
	transactionModel := ToTransactionModel(transaction)
	if transactionModel.ID == "" {
		transactionModel.ID = uuid.New().String()
	}
	if err := tx.Create(transactionModel).Error; err != nil {
		return err
	}
	transaction.ID = transactionModel.ID
	return nil
}

func loadWalletTx(tx *gorm.DB, userID string) (*entity.Wallet, error) {
	var walletModel model.WalletModel
	if err := tx.Where("user_id = ?", userID).First(&walletModel).Error; err != nil {
		return nil, err
	}
	return ToWalletEntity(&walletModel), nil
}

func (r *walletRepository) Credit(transaction *entity.Transaction) (*entity.Wallet, error) {
	var wallet *entity.Wallet
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := creditTx(tx, transaction.UserID, transaction.Amount); err != nil {
			return err
		}
		if err := createTransactionTx(tx, transaction); err != nil {
			return err
		}
		var err error
		wallet, err = loadWalletTx(tx, transaction.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return wallet, nil
}

func (r *walletRepository) Donate(donation *entity.Donation, sent, received *entity.Transaction) (*entity.Wallet, error) {
	var wallet *entity.Wallet
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := debitTx(tx, sent.UserID, sent.Amount); err != nil {
			return err
		}
		if err := createTransactionTx(tx, sent); err != nil {
			return err
		}
		if err := creditTx(tx, received.UserID, received.Amount); err != nil {
			return err
		}
		if err := createTransactionTx(tx, received); err != nil {
			return err
		}

		donationModel := ToDonationModel(donation)
		if donationModel.ID == "" {
			donationModel.ID = uuid.New().String()
		}
		if err := tx.Create(donationModel).Error; err != nil {
			return err
		}
		donation.ID = donationModel.ID

		var err error
		wallet, err = loadWalletTx(tx, sent.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return wallet, nil
}

func (r *walletRepository) Withdraw(request *entity.WithdrawalRequest, transaction *entity.Transaction) (*entity.Wallet, error) {
	var wallet *entity.Wallet
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := debitTx(tx, transaction.UserID, transaction.Amount); err != nil {
			return err
		}
		if err := createTransactionTx(tx, transaction); err != nil {
			return err
		}

		requestModel := ToWithdrawalRequestModel(request)
		if requestModel.ID == "" {
			requestModel.ID = uuid.New().String()
		}
		requestModel.TransactionID = transaction.ID
		if err := tx.Create(requestModel).Error; err != nil {
			return err
		}
		request.ID = requestModel.ID
		request.TransactionID = transaction.ID

		var err error
		wallet, err = loadWalletTx(tx, transaction.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return wallet, nil
}

func (r *walletRepository) GetTransactions(userID string, limit, offset int) ([]*entity.Transaction, error) {
	var transactionModels []model.TransactionModel
	query := r.db.Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&transactionModels).Error; err != nil {
		return nil, err
	}

	transactions := make([]*entity.Transaction, len(transactionModels))
	for i := range transactionModels {
		transactions[i] = ToTransactionEntity(&transactionModels[i])
	}
	return transactions, nil
}

func (r *walletRepository) GetDonations(streamID string, limit int) ([]*entity.Donation, error) {
	var donationModels []model.DonationModel
	query := r.db.Where("stream_id = ?", streamID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&donationModels).Error; err != nil {
		return nil, err
	}

	donations := make([]*entity.Donation, len(donationModels))
	for i := range donationModels {
		donations[i] = ToDonationEntity(&donationModels[i])
	}
	return donations, nil
}
