package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"streamboom/pkg/logger"
	"streamboom/services/notification/internal/usecase"
)

type NotificationHandler struct {
	notificationUseCase usecase.NotificationUseCase
	logger              *logger.Logger
}

func NewNotificationHandler(notificationUseCase usecase.NotificationUseCase, logger *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationUseCase: notificationUseCase,
		logger:              logger,
	}
}

// GetNotifications godoc
// @Summary The caller's recent notifications
// @Tags notifications
// @Produce json
// @Param limit query int false "Max notifications" default(50)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /api/v1/notifications [get]
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID := c.GetString("user_id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	notifications, unread, err := h.notificationUseCase.GetNotifications(c.Request.Context(), userID, limit)
	if err != nil {
		h.logger.Error("Failed to list notifications: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"unread":        unread,
	})
}

type markReadRequest struct {
	NotificationID string `json:"notification_id"`
}

// MarkRead godoc
// @Summary Mark one or all notifications read
// @Description With notification_id marks one, without it marks everything
// @Tags notifications
// @Accept json
// @Produce json
// @Param request body markReadRequest false "Target notification"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/notifications/read [put]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID := c.GetString("user_id")

	var req markReadRequest
	_ = c.ShouldBindJSON(&req)

	var err error
	if req.NotificationID != "" {
		err = h.notificationUseCase.MarkRead(c.Request.Context(), userID, req.NotificationID)
	} else {
		err = h.notificationUseCase.MarkAllRead(c.Request.Context(), userID)
	}
	if err != nil {
		h.logger.Error("Failed to mark notifications read: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark notifications read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
