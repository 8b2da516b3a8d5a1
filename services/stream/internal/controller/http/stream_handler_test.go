package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamboom/pkg/jwt"
	"streamboom/pkg/logger"
	"streamboom/services/stream/internal/entity"
	streamsignal "streamboom/services/stream/internal/signal"
	"streamboom/services/stream/internal/usecase"
)

type fakeStreamUseCase struct {
	mu      sync.Mutex
	stream  *entity.Stream
	stopped []string
	viewers map[string]int
}

func newFakeStreamUseCase(stream *entity.Stream) *fakeStreamUseCase {
	return &fakeStreamUseCase{stream: stream, viewers: make(map[string]int)}
}

func (f *fakeStreamUseCase) StartStream(input usecase.StartStreamInput) (*entity.Stream, error) {
	return f.stream, nil
}

func (f *fakeStreamUseCase) GetStream(streamID string) (*entity.Stream, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stream == nil || f.stream.ID != streamID {
		return nil, usecase.ErrStreamNotFound
	}
	copied := *f.stream
	return &copied, nil
}

func (f *fakeStreamUseCase) ListLive() ([]*entity.Stream, error) {
	return []*entity.Stream{f.stream}, nil
}

func (f *fakeStreamUseCase) StopStream(streamID, userID string) (*entity.Stream, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.stream.IsLive {
		return nil, usecase.ErrStreamEnded
	}
	f.stream.IsLive = false
	f.stopped = append(f.stopped, streamID+":"+userID)
	return f.stream, nil
}

func (f *fakeStreamUseCase) ReportViewers(streamID, userID string, viewers int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.viewers[streamID] = viewers
	return nil
}

func (f *fakeStreamUseCase) PostChatMessage(streamID, userID, username, text string) (*entity.ChatMessage, error) {
	return &entity.ChatMessage{StreamID: streamID, UserID: userID, Username: username, Message: text}, nil
}

func (f *fakeStreamUseCase) GetChatMessages(streamID string, limit int) ([]*entity.ChatMessage, error) {
	return nil, nil
}

func (f *fakeStreamUseCase) stoppedCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.stopped...)
}

func newSignalingServer(t *testing.T, uc usecase.StreamUseCase, jwtService *jwt.Service) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	hub := streamsignal.NewHub(logger.New())
	handler := NewStreamHandler(uc, hub, jwtService, logger.New())

	r := gin.New()
	r.GET("/ws/:stream_id", handler.ServeWS)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func dialWS(t *testing.T, srv *httptest.Server, streamID, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/" + streamID + "?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestServeWS_BroadcasterDisconnectEndsStream(t *testing.T) {
	uc := newFakeStreamUseCase(&entity.Stream{ID: "stream-1", OwnerID: "alice", IsLive: true})
	jwtService := jwt.NewService("test-secret")
	srv := newSignalingServer(t, uc, jwtService)

	token, err := jwtService.GenerateToken("alice", "user")
	require.NoError(t, err)

	conn := dialWS(t, srv, "stream-1", token)
	conn.Close()

	// The broadcaster's signaling connection carries the live session,
	// so dropping it stops the stream exactly once.
	assert.Eventually(t, func() bool {
		calls := uc.stoppedCalls()
		return len(calls) == 1 && calls[0] == "stream-1:alice"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestServeWS_ViewerDisconnectLeavesStreamLive(t *testing.T) {
	uc := newFakeStreamUseCase(&entity.Stream{ID: "stream-1", OwnerID: "alice", IsLive: true})
	jwtService := jwt.NewService("test-secret")
	srv := newSignalingServer(t, uc, jwtService)

	token, err := jwtService.GenerateToken("bob", "user")
	require.NoError(t, err)

	conn := dialWS(t, srv, "stream-1", token)
	conn.Close()

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, uc.stoppedCalls())

	stream, err := uc.GetStream("stream-1")
	require.NoError(t, err)
	assert.True(t, stream.IsLive)
}

func TestServeWS_RejectsInvalidToken(t *testing.T) {
	uc := newFakeStreamUseCase(&entity.Stream{ID: "stream-1", OwnerID: "alice", IsLive: true})
	srv := newSignalingServer(t, uc, jwt.NewService("test-secret"))

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/stream-1?token=garbage"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestServeWS_RejectsEndedStream(t *testing.T) {
	uc := newFakeStreamUseCase(&entity.Stream{ID: "stream-1", OwnerID: "alice", IsLive: false})
	jwtService := jwt.NewService("test-secret")
	srv := newSignalingServer(t, uc, jwtService)

	token, err := jwtService.GenerateToken("bob", "user")
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/stream-1?token=" + token
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}
