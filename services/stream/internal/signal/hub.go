package signal

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"streamboom/pkg/logger"
)

// Message is the envelope relayed between broadcaster and viewers.
// Payload carries opaque SDP/ICE data that the hub never inspects.
type Message struct {
	Type     string          `json:"type"`
	From     string          `json:"from,omitempty"`
	To       string          `json:"to,omitempty"`
	StreamID string          `json:"stream_id,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

const (
	TypeOffer       = "offer"
	TypeAnswer      = "answer"
	TypeICE         = "ice"
	TypeChat        = "chat"
	TypeViewerCount = "viewer_count"
	TypePeerJoined  = "peer_joined"
	TypePeerLeft    = "peer_left"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 32
)

type client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	streamID string
	userID   string
	isOwner  bool
}

type room struct {
	broadcaster *client
	viewers     map[string]*client
}

// Hub relays signaling payloads between a stream's broadcaster and
// its viewers. Room membership is the live viewer count.
type Hub struct {
	logger *logger.Logger

	mu    sync.RWMutex
	rooms map[string]*room
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		logger: log,
		rooms:  make(map[string]*room),
	}
}

// Count implements the session viewer counter over room membership.
func (h *Hub) Count(streamID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	r, ok := h.rooms[streamID]
	if !ok {
		return 0
	}
	return len(r.viewers)
}

// Join registers the connection in the stream's room and starts its
// pumps. Blocks until the connection is gone.
func (h *Hub) Join(conn *websocket.Conn, streamID, userID string, isOwner bool) {
	c := &client{
		hub:      h,
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		streamID: streamID,
		userID:   userID,
		isOwner:  isOwner,
	}

	h.add(c)
	go c.writePump()
	c.readPump()
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	r, ok := h.rooms[c.streamID]
	if !ok {
		r = &room{viewers: make(map[string]*client)}
		h.rooms[c.streamID] = r
	}
	if c.isOwner {
		if r.broadcaster != nil {
			r.broadcaster.conn.Close()
		}
		r.broadcaster = c
	} else {
		if prev, ok := r.viewers[c.userID]; ok {
			prev.conn.Close()
		}
		r.viewers[c.userID] = c
	}
	h.mu.Unlock()

	if !c.isOwner {
		h.notifyBroadcaster(c.streamID, &Message{Type: TypePeerJoined, From: c.userID})
	}
	h.broadcastViewerCount(c.streamID)
	h.logger.Info("Peer %s joined stream %s (owner=%t)", c.userID, c.streamID, c.isOwner)
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	r, ok := h.rooms[c.streamID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if c.isOwner && r.broadcaster == c {
		r.broadcaster = nil
	} else if !c.isOwner && r.viewers[c.userID] == c {
		delete(r.viewers, c.userID)
	} else {
		// Replaced by a newer connection, nothing to unregister
		h.mu.Unlock()
		return
	}
	empty := r.broadcaster == nil && len(r.viewers) == 0
	if empty {
		delete(h.rooms, c.streamID)
	}
	h.mu.Unlock()

	close(c.send)
	if !empty {
		if !c.isOwner {
			h.notifyBroadcaster(c.streamID, &Message{Type: TypePeerLeft, From: c.userID})
		}
		h.broadcastViewerCount(c.streamID)
	}
}

// relay routes a message: viewer traffic goes to the broadcaster,
// broadcaster traffic goes to the addressed viewer, chat goes to
// everyone in the room.
func (h *Hub) relay(from *client, msg *Message) {
	msg.From = from.userID
	msg.StreamID = from.streamID

	if msg.Type == TypeChat {
		h.broadcastToRoom(from.streamID, msg)
		return
	}

	h.mu.RLock()
	r, ok := h.rooms[from.streamID]
	if !ok {
		h.mu.RUnlock()
		return
	}
	var target *client
	if from.isOwner {
		target = r.viewers[msg.To]
	} else {
		target = r.broadcaster
	}
	h.mu.RUnlock()

	if target == nil {
		return
	}
	h.deliver(target, msg)
}

func (h *Hub) notifyBroadcaster(streamID string, msg *Message) {
	h.mu.RLock()
	r, ok := h.rooms[streamID]
	var target *client
	if ok {
		target = r.broadcaster
	}
	h.mu.RUnlock()

	if target != nil {
		msg.StreamID = streamID
		h.deliver(target, msg)
	}
}

// BroadcastSystemMessage fans a server-originated event (donation
// alert, stream ended) out to the whole room.
func (h *Hub) BroadcastSystemMessage(streamID, msgType string, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal system message: %v", err)
		return
	}
	h.broadcastToRoom(streamID, &Message{Type: msgType, StreamID: streamID, Payload: body})
}

func (h *Hub) broadcastViewerCount(streamID string) {
	count := h.Count(streamID)
	body, _ := json.Marshal(map[string]int{"viewers": count})
	h.broadcastToRoom(streamID, &Message{Type: TypeViewerCount, StreamID: streamID, Payload: body})
}

func (h *Hub) broadcastToRoom(streamID string, msg *Message) {
	h.mu.RLock()
	r, ok := h.rooms[streamID]
	if !ok {
		h.mu.RUnlock()
		return
	}
	targets := make([]*client, 0, len(r.viewers)+1)
	if r.broadcaster != nil {
		targets = append(targets, r.broadcaster)
	}
	for _, v := range r.viewers {
		targets = append(targets, v)
	}
	h.mu.RUnlock()

	for _, t := range targets {
		h.deliver(t, msg)
	}
}

func (h *Hub) deliver(c *client, msg *Message) {
	body, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Failed to marshal signaling message: %v", err)
		return
	}
	select {
	case c.send <- body:
	default:
		// Slow consumer, drop the connection rather than block the hub
		h.logger.Warn("Dropping slow signaling peer %s on stream %s", c.userID, c.streamID)
		c.conn.Close()
	}
}

func (c *client) readPump() {
	defer func() {
		c.hub.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, body, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("Signaling read error for peer %s: %v", c.userID, err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(body, &msg); err != nil {
			c.hub.logger.Warn("Malformed signaling message from peer %s", c.userID)
			continue
		}
		c.hub.relay(c, &msg)
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case body, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, body); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
