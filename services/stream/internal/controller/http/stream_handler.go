package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"streamboom/pkg/jwt"
	"streamboom/pkg/logger"
	"streamboom/services/stream/internal/session"
	"streamboom/services/stream/internal/signal"
	"streamboom/services/stream/internal/usecase"
)

type StreamHandler struct {
	streamUseCase usecase.StreamUseCase
	hub           *signal.Hub
	jwtService    *jwt.Service
	logger        *logger.Logger
	upgrader      websocket.Upgrader
}

func NewStreamHandler(streamUseCase usecase.StreamUseCase, hub *signal.Hub, jwtService *jwt.Service, logger *logger.Logger) *StreamHandler {
	return &StreamHandler{
		streamUseCase: streamUseCase,
		hub:           hub,
		jwtService:    jwtService,
		logger:        logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type startStreamRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
	TTSEnabled  bool   `json:"tts_enabled"`
	TTSVoice    string `json:"tts_voice"`
}

type updateStreamRequest struct {
	Action       string `json:"action" binding:"required,oneof=stop update_viewers"`
	ViewersCount *int   `json:"viewers_count"`
}

// ListStreams godoc
// @Summary List live streams
// @Description Live streams ordered by viewer count
// @Tags streams
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/streams [get]
func (h *StreamHandler) ListStreams(c *gin.Context) {
	streams, err := h.streamUseCase.ListLive()
	if err != nil {
		h.logger.Error("Failed to list streams: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list streams"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"streams": streams})
}

// GetStream godoc
// @Summary Get a single stream
// @Tags streams
// @Produce json
// @Param stream_id path string true "Stream ID"
// @Success 200 {object} entity.Stream
// @Failure 404 {object} map[string]string
// @Router /api/v1/streams/{stream_id} [get]
func (h *StreamHandler) GetStream(c *gin.Context) {
	stream, err := h.streamUseCase.GetStream(c.Param("stream_id"))
	if err != nil {
		if errors.Is(err, usecase.ErrStreamNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "stream not found"})
			return
		}
		h.logger.Error("Failed to get stream: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get stream"})
		return
	}

	c.JSON(http.StatusOK, stream)
}

// StartStream godoc
// @Summary Start a broadcast
// @Tags streams
// @Accept json
// @Produce json
// @Param request body startStreamRequest true "Stream details"
// @Success 201 {object} entity.Stream
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/streams [post]
func (h *StreamHandler) StartStream(c *gin.Context) {
	userID := c.GetString("user_id")

	var req startStreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	stream, err := h.streamUseCase.StartStream(usecase.StartStreamInput{
		OwnerID:     userID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		TTSEnabled:  req.TTSEnabled,
		TTSVoice:    req.TTSVoice,
	})
	if err != nil {
		h.logger.Error("Failed to start stream: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start stream"})
		return
	}

	// The owner gets the stream key back exactly once, on creation
	c.JSON(http.StatusCreated, stream)
}

// UpdateStream godoc
// @Summary Stop a stream or push a viewer count
// @Tags streams
// @Accept json
// @Produce json
// @Param stream_id path string true "Stream ID"
// @Param request body updateStreamRequest true "stop or update_viewers"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/streams/{stream_id} [put]
func (h *StreamHandler) UpdateStream(c *gin.Context) {
	userID := c.GetString("user_id")
	streamID := c.Param("stream_id")

	var req updateStreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "action must be stop or update_viewers"})
		return
	}

	switch req.Action {
	case "stop":
		stream, err := h.streamUseCase.StopStream(streamID, userID)
		if err != nil {
			h.respondStreamError(c, err)
			return
		}
		h.hub.BroadcastSystemMessage(streamID, "stream_ended", gin.H{"stream_id": streamID})
		c.JSON(http.StatusOK, gin.H{"stream": stream})

	case "update_viewers":
		if req.ViewersCount == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "viewers_count is required"})
			return
		}
		if err := h.streamUseCase.ReportViewers(streamID, userID, *req.ViewersCount); err != nil {
			h.respondStreamError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func (h *StreamHandler) respondStreamError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrStreamNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "stream not found"})
	case errors.Is(err, usecase.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "not the stream owner"})
	case errors.Is(err, usecase.ErrStreamEnded):
		c.JSON(http.StatusConflict, gin.H{"error": "stream already ended"})
	default:
		h.logger.Error("Stream operation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stream operation failed"})
	}
}

// GetChatMessages godoc
// @Summary Chat history for a stream
// @Tags chat
// @Produce json
// @Param stream_id query string true "Stream ID"
// @Param limit query int false "Max messages" default(50)
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/chat [get]
func (h *StreamHandler) GetChatMessages(c *gin.Context) {
	streamID := c.Query("stream_id")
	if streamID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "stream_id is required"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	messages, err := h.streamUseCase.GetChatMessages(streamID, limit)
	if err != nil {
		h.logger.Error("Failed to list chat messages: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list chat messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

type postChatRequest struct {
	StreamID string `json:"stream_id" binding:"required"`
	Username string `json:"username" binding:"required"`
	Message  string `json:"message" binding:"required"`
}

// PostChatMessage godoc
// @Summary Send a chat message
// @Tags chat
// @Accept json
// @Produce json
// @Param request body postChatRequest true "Message"
// @Success 201 {object} entity.ChatMessage
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/chat [post]
func (h *StreamHandler) PostChatMessage(c *gin.Context) {
	userID := c.GetString("user_id")

	var req postChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "stream_id, username and message are required"})
		return
	}

	message, err := h.streamUseCase.PostChatMessage(req.StreamID, userID, req.Username, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmptyMessage):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, usecase.ErrStreamNotFound), errors.Is(err, usecase.ErrStreamEnded):
			h.respondStreamError(c, err)
		default:
			h.logger.Error("Failed to post chat message: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to post chat message"})
		}
		return
	}

	h.hub.BroadcastSystemMessage(req.StreamID, signal.TypeChat, message)
	c.JSON(http.StatusCreated, message)
}

// ServeWS upgrades the connection into the stream's signaling room.
// Browsers cannot set headers on WebSocket dials, so the JWT comes in
// as a query parameter here.
func (h *StreamHandler) ServeWS(c *gin.Context) {
	streamID := c.Param("stream_id")

	claims, err := h.jwtService.ValidateToken(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	stream, err := h.streamUseCase.GetStream(streamID)
	if err != nil {
		if errors.Is(err, usecase.ErrStreamNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "stream not found"})
			return
		}
		h.logger.Error("Failed to resolve stream for signaling: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to join stream"})
		return
	}
	if !stream.IsLive {
		c.JSON(http.StatusConflict, gin.H{"error": "stream already ended"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed: %v", err)
		return
	}

	isOwner := claims.UserID == stream.OwnerID
	if isOwner {
		// The broadcaster's signaling connection carries the live
		// session: room membership feeds the periodic viewer reports,
		// and the stream ends when the connection does.
		broadcast := session.NewBroadcast(
			streamID,
			session.RemoteDevice{},
			h.hub,
			session.NewUseCaseReporter(h.streamUseCase, stream.OwnerID),
			h.logger,
		)
		if err := broadcast.Start(); err != nil {
			h.logger.Error("Failed to start broadcast session for stream %s: %v", streamID, err)
			conn.Close()
			return
		}
		defer broadcast.Stop()
	}

	h.hub.Join(conn, streamID, claims.UserID, isOwner)
}
