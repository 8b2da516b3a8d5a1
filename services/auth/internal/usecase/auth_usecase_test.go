package usecase

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamboom/pkg/jwt"
	"streamboom/pkg/logger"
	"streamboom/services/auth/internal/entity"
	"streamboom/services/auth/internal/repo/persistent"
)

type fakeUserRepository struct {
	users     map[string]*entity.User // by id
	referrals []string                // "code:referred"
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[string]*entity.User)}
}

func (f *fakeUserRepository) Create(user *entity.User) error {
	for _, u := range f.users {
		if u.Email == user.Email || u.Username == user.Username {
			return persistent.ErrDuplicateUser
		}
	}
	user.ID = fmt.Sprintf("user-%d", len(f.users)+1)
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepository) GetByID(userID string) (*entity.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepository) GetByEmail(email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepository) Update(user *entity.User) error {
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepository) LinkReferral(code, referredUserID string) error {
	f.referrals = append(f.referrals, code+":"+referredUserID)
	return nil
}

type fakeStorage struct {
	uploads int
}

func (f *fakeStorage) UploadBytes(key string, data []byte, contentType string) (string, error) {
	f.uploads++
	return "https://cdn.example.com/" + key, nil
}

func newTestAuth() (AuthUseCase, *fakeUserRepository, *fakeStorage, *jwt.Service) {
	repo := newFakeUserRepository()
	storage := &fakeStorage{}
	jwtService := jwt.NewService("test-secret")
	return NewAuthUseCase(repo, jwtService, storage, logger.New()), repo, storage, jwtService
}

func TestRegisterAndLogin(t *testing.T) {
	uc, repo, _, jwtService := newTestAuth()

	user, token, err := uc.Register(RegisterInput{
		Email:    "Alice@Example.com",
		Username: "alice",
		Password: "correct horse",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "viewer", user.Role)
	assert.Len(t, user.ReferralCode, 8)
	assert.NotEqual(t, "correct horse", repo.users[user.ID].Password)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	logged, token, err := uc.Login("alice@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	assert.NotEmpty(t, token)

	_, _, err = uc.Login("alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = uc.Login("nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	uc, _, _, _ := newTestAuth()

	_, _, err := uc.Register(RegisterInput{Email: "a@b.c", Username: "a", Password: "short"})
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, _, err = uc.Register(RegisterInput{Email: "a@b.c", Username: "alice", Password: "long enough"})
	require.NoError(t, err)
	_, _, err = uc.Register(RegisterInput{Email: "a@b.c", Username: "other", Password: "long enough"})
	assert.ErrorIs(t, err, ErrDuplicateUser)
}

func TestRegisterLinksReferral(t *testing.T) {
	uc, repo, _, _ := newTestAuth()

	user, _, err := uc.Register(RegisterInput{
		Email:        "bob@example.com",
		Username:     "bob",
		Password:     "long enough",
		ReferralCode: "alice123",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ALICE123:" + user.ID}, repo.referrals)
}

func TestUpdateProfileAndAvatar(t *testing.T) {
	uc, repo, storage, _ := newTestAuth()

	user, _, err := uc.Register(RegisterInput{Email: "a@b.c", Username: "alice", Password: "long enough"})
	require.NoError(t, err)

	updated, err := uc.UpdateProfile(user.ID, UpdateProfileInput{Bio: "streamer"})
	require.NoError(t, err)
	assert.Equal(t, "streamer", updated.Bio)
	assert.Equal(t, "alice", updated.Username)

	withAvatar, err := uc.UploadAvatar(user.ID, []byte("png bytes"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/avatars/"+user.ID, withAvatar.Avatar)
	assert.Equal(t, 1, storage.uploads)
	assert.Equal(t, withAvatar.Avatar, repo.users[user.ID].Avatar)

	_, err = uc.UpdateProfile("no-such", UpdateProfileInput{})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
