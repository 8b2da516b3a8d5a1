package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamboom/pkg/logger"
)

type stubConn struct {
	closed int
}

func (c *stubConn) Close() error {
	c.closed++
	return nil
}

type stubConnector struct {
	conn *stubConn
	err  error
}

func (c *stubConnector) Connect(streamID string) (PeerConnection, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.conn, nil
}

func TestViewerConnects(t *testing.T) {
	conn := &stubConn{}
	v := NewViewer("stream-1", &stubConnector{conn: conn}, logger.New())
	assert.Equal(t, ViewerConnecting, v.State())

	require.NoError(t, v.Connect())
	assert.Equal(t, ViewerConnected, v.State())

	v.Close()
	assert.Equal(t, ViewerClosed, v.State())
	assert.Equal(t, 1, conn.closed)
}

func TestViewerNegotiationFailure(t *testing.T) {
	v := NewViewer("stream-1", &stubConnector{err: errors.New("no answer")}, logger.New())

	err := v.Connect()
	require.Error(t, err)
	assert.Equal(t, ViewerError, v.State())
}

func TestViewerClosedWhileNegotiating(t *testing.T) {
	conn := &stubConn{}
	v := NewViewer("stream-1", &stubConnector{conn: conn}, logger.New())

	v.Close()
	require.NoError(t, v.Connect())

	assert.Equal(t, ViewerClosed, v.State())
	assert.Equal(t, 1, conn.closed)
}

func TestViewerCloseIsIdempotent(t *testing.T) {
	conn := &stubConn{}
	v := NewViewer("stream-1", &stubConnector{conn: conn}, logger.New())
	require.NoError(t, v.Connect())

	v.Close()
	v.Close()
	assert.Equal(t, 1, conn.closed)
}
