package session

import (
	"sync"

	"streamboom/pkg/logger"
)

type ViewerState string

const (
	ViewerConnecting ViewerState = "connecting"
	ViewerConnected  ViewerState = "connected"
	ViewerClosed     ViewerState = "closed"
	ViewerError      ViewerState = "error"
)

// PeerConnection is the receiving side of a media transport.
type PeerConnection interface {
	Close() error
}

// Connector negotiates a peer connection for the given stream. The
// returned connection is ready to receive media when err is nil.
type Connector interface {
	Connect(streamID string) (PeerConnection, error)
}

// Viewer receives a remote stream. It starts connecting, reaches
// connected on successful negotiation, and releases its connection on
// every way out.
type Viewer struct {
	streamID  string
	connector Connector
	logger    *logger.Logger

	mu    sync.Mutex
	state ViewerState
	conn  PeerConnection
}

func NewViewer(streamID string, connector Connector, log *logger.Logger) *Viewer {
	return &Viewer{
		streamID:  streamID,
		connector: connector,
		logger:    log,
		state:     ViewerConnecting,
	}
}

func (v *Viewer) State() ViewerState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Connect performs the negotiation. A failure is terminal for this
// session; callers create a new Viewer to retry.
func (v *Viewer) Connect() error {
	v.mu.Lock()
	if v.state != ViewerConnecting {
		v.mu.Unlock()
		return nil
	}
	v.mu.Unlock()

	conn, err := v.connector.Connect(v.streamID)
	if err != nil {
		v.mu.Lock()
		v.state = ViewerError
		v.mu.Unlock()
		if conn != nil {
			conn.Close()
		}
		v.logger.Error("Viewer connection to stream %s failed: %v", v.streamID, err)
		return err
	}

	v.mu.Lock()
	if v.state != ViewerConnecting {
		// Closed while negotiating
		v.mu.Unlock()
		conn.Close()
		return nil
	}
	v.conn = conn
	v.state = ViewerConnected
	v.mu.Unlock()

	v.logger.Info("Viewer connected to stream %s", v.streamID)
	return nil
}

// Close ends the session and releases the connection. Safe to call
// from any state, repeatedly.
func (v *Viewer) Close() {
	v.mu.Lock()
	if v.state == ViewerClosed || v.state == ViewerError {
		v.mu.Unlock()
		return
	}
	v.state = ViewerClosed
	conn := v.conn
	v.conn = nil
	v.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
}
