package signal

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamboom/pkg/logger"
)

func newTestServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		q := r.URL.Query()
		hub.Join(conn, q.Get("stream_id"), q.Get("user_id"), q.Get("role") == "broadcaster")
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, streamID, userID, role string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") +
		"?stream_id=" + streamID + "&user_id=" + userID + "&role=" + role
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readUntil(t *testing.T, conn *websocket.Conn, msgType string) *Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var msg Message
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Type == msgType {
			return &msg
		}
	}
}

func TestHubMembershipDrivesViewerCount(t *testing.T) {
	hub := NewHub(logger.New())
	srv := newTestServer(t, hub)

	dial(t, srv, "stream-1", "owner", "broadcaster")
	dial(t, srv, "stream-1", "alice", "viewer")
	dial(t, srv, "stream-1", "bob", "viewer")

	assert.Eventually(t, func() bool {
		return hub.Count("stream-1") == 2
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, hub.Count("stream-2"))
}

func TestHubRelaysOfferAndAnswer(t *testing.T) {
	hub := NewHub(logger.New())
	srv := newTestServer(t, hub)

	owner := dial(t, srv, "stream-1", "owner", "broadcaster")
	viewer := dial(t, srv, "stream-1", "alice", "viewer")

	// Broadcaster learns about the viewer, then sends a targeted offer
	joined := readUntil(t, owner, TypePeerJoined)
	require.Equal(t, "alice", joined.From)

	offer := Message{Type: TypeOffer, To: "alice", Payload: json.RawMessage(`{"sdp":"v=0"}`)}
	require.NoError(t, owner.WriteJSON(&offer))

	got := readUntil(t, viewer, TypeOffer)
	assert.Equal(t, "owner", got.From)
	assert.JSONEq(t, `{"sdp":"v=0"}`, string(got.Payload))

	// Viewer answers without addressing, hub routes to the broadcaster
	answer := Message{Type: TypeAnswer, Payload: json.RawMessage(`{"sdp":"v=1"}`)}
	require.NoError(t, viewer.WriteJSON(&answer))

	got = readUntil(t, owner, TypeAnswer)
	assert.Equal(t, "alice", got.From)
}

func TestHubBroadcastsChatToRoom(t *testing.T) {
	hub := NewHub(logger.New())
	srv := newTestServer(t, hub)

	owner := dial(t, srv, "stream-1", "owner", "broadcaster")
	viewer := dial(t, srv, "stream-1", "alice", "viewer")
	readUntil(t, owner, TypePeerJoined)

	chat := Message{Type: TypeChat, Payload: json.RawMessage(`{"text":"hi"}`)}
	require.NoError(t, viewer.WriteJSON(&chat))

	got := readUntil(t, owner, TypeChat)
	assert.Equal(t, "alice", got.From)
	got = readUntil(t, viewer, TypeChat)
	assert.Equal(t, "alice", got.From)
}

func TestHubViewerLeaveUpdatesCount(t *testing.T) {
	hub := NewHub(logger.New())
	srv := newTestServer(t, hub)

	owner := dial(t, srv, "stream-1", "owner", "broadcaster")
	viewer := dial(t, srv, "stream-1", "alice", "viewer")
	readUntil(t, owner, TypePeerJoined)

	viewer.Close()

	left := readUntil(t, owner, TypePeerLeft)
	assert.Equal(t, "alice", left.From)
	assert.Eventually(t, func() bool {
		return hub.Count("stream-1") == 0
	}, time.Second, 10*time.Millisecond)
}
