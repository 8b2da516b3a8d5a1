package session

import (
	"errors"
	"sync"
	"time"

	"streamboom/pkg/logger"
)

type BroadcastState string

const (
	BroadcastIdle      BroadcastState = "idle"
	BroadcastCapturing BroadcastState = "capturing"
	BroadcastLive      BroadcastState = "live"
	BroadcastStopped   BroadcastState = "stopped"
)

var (
	ErrAlreadyStarted = errors.New("broadcast already started")
	ErrNotLive        = errors.New("broadcast is not live")
)

// Track is a single captured media track. Stop releases the underlying
// device resource and is safe to call more than once.
type Track interface {
	Stop()
}

// CaptureDevice acquires camera/microphone or screen tracks. A failed
// acquisition must not leave tracks open on the device side.
type CaptureDevice interface {
	Capture() ([]Track, error)
}

// RemoteDevice stands in for capture when the media is produced in
// the broadcaster's browser and travels peer to peer. The server-side
// session then holds no local tracks, only the live state and the
// viewer reporting loop.
type RemoteDevice struct{}

func (RemoteDevice) Capture() ([]Track, error) { return nil, nil }

// ViewerCounter reports how many viewers are currently attached,
// typically backed by signaling room membership.
type ViewerCounter interface {
	Count(streamID string) int
}

// Reporter pushes broadcast lifecycle changes to the backend.
type Reporter interface {
	ReportViewers(streamID string, viewers int) error
	StreamStopped(streamID string) error
}

const defaultReportInterval = 5 * time.Second

// Broadcast owns the capture tracks for its lifetime. Tracks are
// released on every exit path out of capturing and live, including
// capture and registration failures.
type Broadcast struct {
	streamID string
	device   CaptureDevice
	counter  ViewerCounter
	reporter Reporter
	logger   *logger.Logger
	interval time.Duration

	mu     sync.Mutex
	state  BroadcastState
	tracks []Track
	done   chan struct{}
}

func NewBroadcast(streamID string, device CaptureDevice, counter ViewerCounter, reporter Reporter, log *logger.Logger) *Broadcast {
	return &Broadcast{
		streamID: streamID,
		device:   device,
		counter:  counter,
		reporter: reporter,
		logger:   log,
		interval: defaultReportInterval,
		state:    BroadcastIdle,
	}
}

func (b *Broadcast) State() BroadcastState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Start acquires capture tracks and goes live. A capture failure
// returns the device error and leaves the session idle with no open
// tracks, so the caller can surface it and retry.
func (b *Broadcast) Start() error {
	b.mu.Lock()
	if b.state != BroadcastIdle {
		b.mu.Unlock()
		return ErrAlreadyStarted
	}
	b.state = BroadcastCapturing
	b.mu.Unlock()

	tracks, err := b.device.Capture()
	if err != nil {
		releaseTracks(tracks)
		b.mu.Lock()
		b.state = BroadcastIdle
		b.mu.Unlock()
		return err
	}

	b.mu.Lock()
	if b.state != BroadcastCapturing {
		// Stopped while the device dialog was open
		b.mu.Unlock()
		releaseTracks(tracks)
		return ErrNotLive
	}
	b.tracks = tracks
	b.state = BroadcastLive
	b.done = make(chan struct{})
	b.mu.Unlock()

	go b.reportLoop()
	b.logger.Info("Broadcast %s went live with %d tracks", b.streamID, len(tracks))
	return nil
}

// Stop tears the session down from any state. Safe to call repeatedly.
func (b *Broadcast) Stop() {
	b.mu.Lock()
	prev := b.state
	if prev == BroadcastStopped {
		b.mu.Unlock()
		return
	}
	b.state = BroadcastStopped
	tracks := b.tracks
	b.tracks = nil
	done := b.done
	b.done = nil
	b.mu.Unlock()

	if done != nil {
		close(done)
	}
	releaseTracks(tracks)

	if prev == BroadcastLive {
		if err := b.reporter.StreamStopped(b.streamID); err != nil {
			b.logger.Error("Failed to mark stream %s stopped: %v", b.streamID, err)
		}
	}
	b.logger.Info("Broadcast %s stopped (was %s)", b.streamID, prev)
}

func (b *Broadcast) reportLoop() {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	b.mu.Lock()
	done := b.done
	b.mu.Unlock()
	if done == nil {
		return
	}

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			viewers := b.counter.Count(b.streamID)
			if err := b.reporter.ReportViewers(b.streamID, viewers); err != nil {
				// Not fatal, next tick retries
				b.logger.Warn("Viewer count report for stream %s failed: %v", b.streamID, err)
			}
		}
	}
}

func releaseTracks(tracks []Track) {
	for _, t := range tracks {
		if t != nil {
			t.Stop()
		}
	}
}
