package http

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"streamboom/pkg/logger"
	"streamboom/services/auth/internal/usecase"
)

type AuthHandler struct {
	authUseCase usecase.AuthUseCase
	logger      *logger.Logger
}

func NewAuthHandler(authUseCase usecase.AuthUseCase, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
		logger:      logger,
	}
}

type authRequest struct {
	Action       string `json:"action" binding:"required,oneof=login register update_profile"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	ReferralCode string `json:"referral_code"`
	Bio          string `json:"bio"`
}

// Authenticate godoc
// @Summary Login, register or update the profile
// @Description Single dispatch endpoint: action selects the operation
// @Tags auth
// @Accept json
// @Produce json
// @Param request body authRequest true "Action and fields"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/auth [post]
func (h *AuthHandler) Authenticate(c *gin.Context) {
	var req authRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "action must be login, register or update_profile"})
		return
	}

	switch req.Action {
	case "register":
		h.register(c, &req)
	case "login":
		h.login(c, &req)
	case "update_profile":
		h.updateProfile(c, &req)
	}
}

func (h *AuthHandler) register(c *gin.Context, req *authRequest) {
	if req.Email == "" || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email, username and password are required"})
		return
	}

	user, token, err := h.authUseCase.Register(usecase.RegisterInput{
		Email:        req.Email,
		Username:     req.Username,
		Password:     req.Password,
		ReferralCode: req.ReferralCode,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrWeakPassword), errors.Is(err, usecase.ErrDuplicateUser):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("Failed to register user: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

func (h *AuthHandler) login(c *gin.Context, req *authRequest) {
	if req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	user, token, err := h.authUseCase.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidCredentials), errors.Is(err, usecase.ErrUserInactive):
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		default:
			h.logger.Error("Failed to log user in: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

func (h *AuthHandler) updateProfile(c *gin.Context, req *authRequest) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	user, err := h.authUseCase.UpdateProfile(userID, usecase.UpdateProfileInput{
		Username: req.Username,
		Bio:      req.Bio,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.logger.Error("Failed to update profile: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile update failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// GetProfile godoc
// @Summary The caller's profile
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /api/v1/profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	user, err := h.authUseCase.GetProfile(c.GetString("user_id"))
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.logger.Error("Failed to get profile: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

type avatarRequest struct {
	Image    string `json:"image" binding:"required"`
	Filename string `json:"filename"`
}

// UploadAvatar godoc
// @Summary Upload a profile avatar
// @Description Accepts a base64-encoded image, stores it and updates the profile
// @Tags auth
// @Accept json
// @Produce json
// @Param request body avatarRequest true "Base64 image"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/profile/avatar [post]
func (h *AuthHandler) UploadAvatar(c *gin.Context) {
	userID := c.GetString("user_id")

	var req avatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image is required"})
		return
	}

	// Tolerate data URL prefixes from browser canvases
	payload := req.Image
	contentType := "image/png"
	if strings.HasPrefix(payload, "data:") {
		parts := strings.SplitN(payload, ",", 2)
		if len(parts) == 2 {
			meta := strings.TrimPrefix(parts[0], "data:")
			contentType = strings.SplitN(meta, ";", 2)[0]
			payload = parts[1]
		}
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image must be valid base64"})
		return
	}

	user, err := h.authUseCase.UploadAvatar(userID, data, contentType)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.logger.Error("Failed to upload avatar: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "avatar upload failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": user.Avatar, "user": user})
}
