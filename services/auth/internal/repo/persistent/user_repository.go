package persistent

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"streamboom/services/auth/internal/entity"
	"streamboom/services/auth/internal/model"
)

var ErrDuplicateUser = errors.New("email or username already taken")

type UserRepository interface {
	// Create inserts the user and an empty wallet in one transaction.
	Create(user *entity.User) error
	GetByID(userID string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	Update(user *entity.User) error
	// LinkReferral attaches a new user to the owner of a referral
	// code. A missing code or self-referral is silently skipped so a
	// bad code never blocks registration.
	LinkReferral(code, referredUserID string) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *entity.User) error {
	userModel := ToUserModel(user)
	if userModel.ID == "" {
		userModel.ID = uuid.New().String()
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.UserModel{}).
			Where("email = ? OR username = ?", userModel.Email, userModel.Username).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateUser
		}

		if err := tx.Create(userModel).Error; err != nil {
			return err
		}

		return tx.Exec(
			"INSERT INTO wallets (id, user_id, balance, created_at, updated_at) VALUES (?, ?, 0, NOW(), NOW())",
			uuid.New().String(), userModel.ID,
		).Error
	})
	if err != nil {
		return err
	}

	user.ID = userModel.ID
	return nil
}

func (r *userRepository) GetByID(userID string) (*entity.User, error) {
	return r.get("id = ?", userID)
}

func (r *userRepository) GetByEmail(email string) (*entity.User, error) {
	return r.get("email = ?", email)
}

func (r *userRepository) get(query string, arg interface{}) (*entity.User, error) {
	var userModel model.UserModel
	err := r.db.Where(query, arg).First(&userModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return ToUserEntity(&userModel), nil
}

func (r *userRepository) Update(user *entity.User) error {
	if err := r.db.Save(ToUserModel(user)).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func (r *userRepository) LinkReferral(code, referredUserID string) error {
	var referrerID string
	err := r.db.Table("users").Select("id").Where("referral_code = ?", code).Scan(&referrerID).Error
	if err != nil {
		return err
	}
	if referrerID == "" || referrerID == referredUserID {
		return nil
	}

	return r.db.Exec(
		"INSERT INTO referrals (id, referrer_id, referred_user_id, purchase_amount, reward_earned, status, created_at, updated_at) VALUES (?, ?, ?, 0, 0, 'pending', NOW(), NOW()) ON CONFLICT DO NOTHING",
		uuid.New().String(), referrerID, referredUserID,
	).Error
}
