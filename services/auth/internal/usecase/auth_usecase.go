package usecase

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"streamboom/pkg/jwt"
	"streamboom/pkg/logger"
	"streamboom/services/auth/internal/entity"
	"streamboom/services/auth/internal/repo/persistent"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("account is deactivated")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrDuplicateUser      = errors.New("email or username already taken")
)

// AvatarStorage stores an uploaded avatar and returns its public URL.
type AvatarStorage interface {
	UploadBytes(key string, data []byte, contentType string) (string, error)
}

type RegisterInput struct {
	Email        string
	Username     string
	Password     string
	ReferralCode string
}

type UpdateProfileInput struct {
	Username string
	Bio      string
}

type AuthUseCase interface {
	Register(input RegisterInput) (*entity.User, string, error)
	Login(email, password string) (*entity.User, string, error)
	GetProfile(userID string) (*entity.User, error)
	UpdateProfile(userID string, input UpdateProfileInput) (*entity.User, error)
	UploadAvatar(userID string, data []byte, contentType string) (*entity.User, error)
}

type authUseCase struct {
	userRepo   persistent.UserRepository
	jwtService *jwt.Service
	storage    AvatarStorage
	logger     *logger.Logger
}

func NewAuthUseCase(userRepo persistent.UserRepository, jwtService *jwt.Service, storage AvatarStorage, logger *logger.Logger) AuthUseCase {
	return &authUseCase{
		userRepo:   userRepo,
		jwtService: jwtService,
		storage:    storage,
		logger:     logger,
	}
}

// referral codes are short and unambiguous for sharing out loud
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func newReferralCode() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate referral code: %w", err)
	}
	var sb strings.Builder
	for _, b := range buf {
		sb.WriteByte(codeAlphabet[int(b)%len(codeAlphabet)])
	}
	return sb.String(), nil
}

func (uc *authUseCase) Register(input RegisterInput) (*entity.User, string, error) {
	if len(input.Password) < 8 {
		return nil, "", ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	code, err := newReferralCode()
	if err != nil {
		return nil, "", err
	}

	user := &entity.User{
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		Username:     strings.TrimSpace(input.Username),
		Password:     string(hash),
		Role:         "viewer",
		ReferralCode: code,
		IsActive:     true,
	}

	if err := uc.userRepo.Create(user); err != nil {
		if errors.Is(err, persistent.ErrDuplicateUser) {
			return nil, "", ErrDuplicateUser
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	if input.ReferralCode != "" {
		if err := uc.userRepo.LinkReferral(strings.ToUpper(input.ReferralCode), user.ID); err != nil {
			uc.logger.Error("Failed to link referral for user %s: %v", user.ID, err)
		}
	}

	token, err := uc.jwtService.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	uc.logger.Info("User %s registered", user.ID)
	return user, token, nil
}

func (uc *authUseCase) Login(email, password string) (*entity.User, string, error) {
	user, err := uc.userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, "", ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := uc.jwtService.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return user, token, nil
}

func (uc *authUseCase) GetProfile(userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (uc *authUseCase) UpdateProfile(userID string, input UpdateProfileInput) (*entity.User, error) {
	user, err := uc.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if input.Username != "" {
		user.Username = strings.TrimSpace(input.Username)
	}
	if input.Bio != "" {
		user.Bio = input.Bio
	}

	if err := uc.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (uc *authUseCase) UploadAvatar(userID string, data []byte, contentType string) (*entity.User, error) {
	user, err := uc.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("avatars/%s", userID)
	url, err := uc.storage.UploadBytes(key, data, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}

	user.Avatar = url
	if err := uc.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
