package persistent

import (
	"streamboom/services/wallet/internal/entity"
	"streamboom/services/wallet/internal/model"
)

func ToWalletEntity(m *model.WalletModel) *entity.Wallet {
	if m == nil {
		return nil
	}

	return &entity.Wallet{
		ID:        m.ID,
		UserID:    m.UserID,
		Balance:   m.Balance,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToWalletModel(e *entity.Wallet) *model.WalletModel {
	if e == nil {
		return nil
	}

	return &model.WalletModel{
		ID:        e.ID,
		UserID:    e.UserID,
		Balance:   e.Balance,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func ToTransactionEntity(m *model.TransactionModel) *entity.Transaction {
	if m == nil {
		return nil
	}

	return &entity.Transaction{
		ID:          m.ID,
		UserID:      m.UserID,
		Type:        entity.TransactionType(m.Type),
		Amount:      m.Amount,
		Currency:    m.Currency,
		Description: m.Description,
		Status:      entity.TransactionStatus(m.Status),
		ReferenceID: m.ReferenceID,
		CreatedAt:   m.CreatedAt,
	}
}

func ToTransactionModel(e *entity.Transaction) *model.TransactionModel {
	if e == nil {
		return nil
	}

	return &model.TransactionModel{
		ID:          e.ID,
		UserID:      e.UserID,
		Type:        string(e.Type),
		Amount:      e.Amount,
		Currency:    e.Currency,
		Description: e.Description,
		Status:      string(e.Status),
		ReferenceID: e.ReferenceID,
		CreatedAt:   e.CreatedAt,
	}
}

func ToWithdrawalRequestEntity(m *model.WithdrawalRequestModel) *entity.WithdrawalRequest {
	if m == nil {
		return nil
	}

	return &entity.WithdrawalRequest{
		ID:            m.ID,
		UserID:        m.UserID,
		Amount:        m.Amount,
		NetRubles:     m.NetRubles,
		FeeRubles:     m.FeeRubles,
		Method:        m.Method,
		MethodDetails: m.MethodDetails,
		Status:        entity.WithdrawalStatus(m.Status),
		TransactionID: m.TransactionID,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func ToWithdrawalRequestModel(e *entity.WithdrawalRequest) *model.WithdrawalRequestModel {
	if e == nil {
		return nil
	}

	return &model.WithdrawalRequestModel{
		ID:            e.ID,
		UserID:        e.UserID,
		Amount:        e.Amount,
		NetRubles:     e.NetRubles,
		FeeRubles:     e.FeeRubles,
		Method:        e.Method,
		MethodDetails: e.MethodDetails,
		Status:        string(e.Status),
		TransactionID: e.TransactionID,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func ToDonationEntity(m *model.DonationModel) *entity.Donation {
	if m == nil {
		return nil
	}

	return &entity.Donation{
		ID:         m.ID,
		StreamID:   m.StreamID,
		FromUserID: m.FromUserID,
		Amount:     m.Amount,
		Message:    m.Message,
		CreatedAt:  m.CreatedAt,
	}
}

func ToDonationModel(e *entity.Donation) *model.DonationModel {
	if e == nil {
		return nil
	}

	return &model.DonationModel{
		ID:         e.ID,
		StreamID:   e.StreamID,
		FromUserID: e.FromUserID,
		Amount:     e.Amount,
		Message:    e.Message,
		CreatedAt:  e.CreatedAt,
	}
}
