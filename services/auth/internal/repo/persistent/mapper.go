package persistent

import (
	"streamboom/services/auth/internal/entity"
	"streamboom/services/auth/internal/model"
)

func ToUserEntity(m *model.UserModel) *entity.User {
	return &entity.User{
		ID:           m.ID,
		Email:        m.Email,
		Username:     m.Username,
		Password:     m.Password,
		Role:         m.Role,
		Avatar:       m.Avatar,
		Bio:          m.Bio,
		ReferralCode: m.ReferralCode,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func ToUserModel(e *entity.User) *model.UserModel {
	return &model.UserModel{
		ID:           e.ID,
		Email:        e.Email,
		Username:     e.Username,
		Password:     e.Password,
		Role:         e.Role,
		Avatar:       e.Avatar,
		Bio:          e.Bio,
		ReferralCode: e.ReferralCode,
		IsActive:     e.IsActive,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}
