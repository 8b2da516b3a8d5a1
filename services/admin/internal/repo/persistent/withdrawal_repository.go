package persistent

import (
	"fmt"

	"gorm.io/gorm"

	"streamboom/services/admin/internal/entity"
)

type WithdrawalRepository interface {
	List(status string, limit, offset int) ([]*entity.WithdrawalRequest, error)
	GetByID(withdrawalID string) (*entity.WithdrawalRequest, error)
	// MarkProcessing moves pending to processing. Returns false when
	// the request is not pending.
	MarkProcessing(withdrawalID string) (bool, error)
	// Complete moves processing to completed and settles the original
	// withdraw transaction. Returns false when not processing.
	Complete(withdrawalID string) (bool, error)
	// Reject refunds the user's wallet and flips the original withdraw
	// transaction to rejected, all atomically. Works from pending or
	// processing. Returns false otherwise.
	Reject(withdrawalID string) (bool, error)
	Stats() (*entity.PlatformStats, error)
}

type withdrawalRepository struct {
	db *gorm.DB
}

func NewWithdrawalRepository(db *gorm.DB) WithdrawalRepository {
	return &withdrawalRepository{db: db}
}

func (r *withdrawalRepository) List(status string, limit, offset int) ([]*entity.WithdrawalRequest, error) {
	query := r.db.Table("withdrawal_requests").
		Select("withdrawal_requests.*, users.username").
		Joins("JOIN users ON users.id = withdrawal_requests.user_id").
		Order("withdrawal_requests.created_at ASC").
		Limit(limit).
		Offset(offset)
	if status != "" {
		query = query.Where("withdrawal_requests.status = ?", status)
	}

	var withdrawals []*entity.WithdrawalRequest
	if err := query.Scan(&withdrawals).Error; err != nil {
		return nil, fmt.Errorf("failed to list withdrawals: %w", err)
	}
	return withdrawals, nil
}

func (r *withdrawalRepository) GetByID(withdrawalID string) (*entity.WithdrawalRequest, error) {
	var withdrawal entity.WithdrawalRequest
	err := r.db.Table("withdrawal_requests").
		Select("withdrawal_requests.*, users.username").
		Joins("JOIN users ON users.id = withdrawal_requests.user_id").
		Where("withdrawal_requests.id = ?", withdrawalID).
		Scan(&withdrawal).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get withdrawal: %w", err)
	}
	if withdrawal.ID == "" {
		return nil, nil
	}
	return &withdrawal, nil
}

func (r *withdrawalRepository) MarkProcessing(withdrawalID string) (bool, error) {
	result := r.db.Exec(
		"UPDATE withdrawal_requests SET status = 'processing', updated_at = NOW() WHERE id = ? AND status = 'pending'",
		withdrawalID,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *withdrawalRepository) Complete(withdrawalID string) (bool, error) {
	completed := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var w struct {
			TransactionID string
		}
		if err := tx.Table("withdrawal_requests").
			Select("transaction_id").
			Where("id = ?", withdrawalID).
			Scan(&w).Error; err != nil {
			return err
		}

		result := tx.Exec(
			"UPDATE withdrawal_requests SET status = 'completed', updated_at = NOW() WHERE id = ? AND status = 'processing'",
			withdrawalID,
		)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		if err := tx.Exec(
			"UPDATE transactions SET status = 'completed' WHERE id = ?",
			w.TransactionID,
		).Error; err != nil {
			return err
		}

		completed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return completed, nil
}

func (r *withdrawalRepository) Reject(withdrawalID string) (bool, error) {
	rejected := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var w struct {
			UserID        string
			Amount        int
			TransactionID string
		}
		if err := tx.Table("withdrawal_requests").
			Select("user_id, amount, transaction_id").
			Where("id = ?", withdrawalID).
			Scan(&w).Error; err != nil {
			return err
		}

		result := tx.Exec(
			"UPDATE withdrawal_requests SET status = 'rejected', updated_at = NOW() WHERE id = ? AND status IN ('pending', 'processing')",
			withdrawalID,
		)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		if err := tx.Exec(
			"UPDATE wallets SET balance = balance + ?, updated_at = NOW() WHERE user_id = ?",
			w.Amount, w.UserID,
		).Error; err != nil {
			return err
		}

		// The refund reuses the original withdraw transaction rather
		// than creating a second record for the same money.
		if err := tx.Exec(
			"UPDATE transactions SET status = 'rejected' WHERE id = ?",
			w.TransactionID,
		).Error; err != nil {
			return err
		}

		rejected = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return rejected, nil
}

func (r *withdrawalRepository) Stats() (*entity.PlatformStats, error) {
	stats := &entity.PlatformStats{}

	if err := r.db.Table("users").Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := r.db.Table("streams").Where("is_live = ?", true).Count(&stats.LiveStreams).Error; err != nil {
		return nil, fmt.Errorf("failed to count live streams: %w", err)
	}
	if err := r.db.Table("withdrawal_requests").Where("status = 'pending'").Count(&stats.PendingWithdrawals).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending withdrawals: %w", err)
	}
	if err := r.db.Table("transactions").Count(&stats.TotalTransactions).Error; err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}

	var fees *int64
	err := r.db.Table("withdrawal_requests").
		Select("SUM(fee_rubles)").
		Where("status = 'completed'").
		Scan(&fees).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum fees: %w", err)
	}
	if fees != nil {
		stats.CompletedFeesRubles = *fees
	}

	return stats, nil
}
