package session

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamboom/pkg/logger"
)

type countingTrack struct {
	open *int32
}

func (t *countingTrack) Stop() {
	atomic.AddInt32(t.open, -1)
}

type stubDevice struct {
	openTracks int32
	trackCount int
	err        error
	delay      time.Duration
}

func (d *stubDevice) Capture() ([]Track, error) {
	if d.delay > 0 {
		time.Sleep(d.delay)
	}
	if d.err != nil {
		return nil, d.err
	}
	tracks := make([]Track, 0, d.trackCount)
	for i := 0; i < d.trackCount; i++ {
		atomic.AddInt32(&d.openTracks, 1)
		tracks = append(tracks, &countingTrack{open: &d.openTracks})
	}
	return tracks, nil
}

type stubCounter struct {
	viewers int
}

func (c *stubCounter) Count(streamID string) int { return c.viewers }

type stubReporter struct {
	mu       sync.Mutex
	reports  []int
	stopped  int
	reportFn func(viewers int) error
}

func (r *stubReporter) ReportViewers(streamID string, viewers int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.reportFn != nil {
		if err := r.reportFn(viewers); err != nil {
			return err
		}
	}
	r.reports = append(r.reports, viewers)
	return nil
}

func (r *stubReporter) StreamStopped(streamID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped++
	return nil
}

func (r *stubReporter) reportCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reports)
}

func TestBroadcastStartAndStopReleasesTracks(t *testing.T) {
	device := &stubDevice{trackCount: 2}
	reporter := &stubReporter{}
	b := NewBroadcast("stream-1", device, &stubCounter{}, reporter, logger.New())

	require.NoError(t, b.Start())
	assert.Equal(t, BroadcastLive, b.State())
	assert.Equal(t, int32(2), atomic.LoadInt32(&device.openTracks))

	b.Stop()
	assert.Equal(t, BroadcastStopped, b.State())
	assert.Equal(t, int32(0), atomic.LoadInt32(&device.openTracks))
	assert.Equal(t, 1, reporter.stopped)
}

func TestBroadcastCaptureFailureLeavesNoOpenTracks(t *testing.T) {
	device := &stubDevice{err: errors.New("permission denied")}
	b := NewBroadcast("stream-1", device, &stubCounter{}, &stubReporter{}, logger.New())

	err := b.Start()
	require.Error(t, err)
	assert.Equal(t, BroadcastIdle, b.State())
	assert.Equal(t, int32(0), atomic.LoadInt32(&device.openTracks))
}

func TestBroadcastStopDuringCaptureReleasesTracks(t *testing.T) {
	device := &stubDevice{trackCount: 3, delay: 50 * time.Millisecond}
	b := NewBroadcast("stream-1", device, &stubCounter{}, &stubReporter{}, logger.New())

	started := make(chan error, 1)
	go func() { started <- b.Start() }()

	// Stop while the capture is still in flight
	time.Sleep(10 * time.Millisecond)
	b.Stop()

	err := <-started
	assert.ErrorIs(t, err, ErrNotLive)
	assert.Equal(t, BroadcastStopped, b.State())
	assert.Equal(t, int32(0), atomic.LoadInt32(&device.openTracks))
}

func TestBroadcastDoubleStart(t *testing.T) {
	device := &stubDevice{trackCount: 1}
	b := NewBroadcast("stream-1", device, &stubCounter{}, &stubReporter{}, logger.New())

	require.NoError(t, b.Start())
	assert.ErrorIs(t, b.Start(), ErrAlreadyStarted)
	b.Stop()
}

func TestBroadcastReportsViewersOnTicks(t *testing.T) {
	device := &stubDevice{trackCount: 1}
	counter := &stubCounter{viewers: 7}
	reporter := &stubReporter{}
	b := NewBroadcast("stream-1", device, counter, reporter, logger.New())
	b.interval = 10 * time.Millisecond

	require.NoError(t, b.Start())
	defer b.Stop()

	assert.Eventually(t, func() bool {
		return reporter.reportCount() >= 2
	}, time.Second, 5*time.Millisecond)

	reporter.mu.Lock()
	defer reporter.mu.Unlock()
	assert.Equal(t, 7, reporter.reports[0])
}

func TestBroadcastReportFailureRetriedNextTick(t *testing.T) {
	device := &stubDevice{trackCount: 1}
	reporter := &stubReporter{}
	var failures int32
	reporter.reportFn = func(viewers int) error {
		// First tick fails, the rest succeed
		if atomic.CompareAndSwapInt32(&failures, 0, 1) {
			return errors.New("backend unavailable")
		}
		return nil
	}
	b := NewBroadcast("stream-1", device, &stubCounter{viewers: 1}, reporter, logger.New())
	b.interval = 10 * time.Millisecond

	require.NoError(t, b.Start())
	defer b.Stop()

	assert.Eventually(t, func() bool {
		return reporter.reportCount() >= 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&failures))
}

func TestBroadcastStopIsIdempotent(t *testing.T) {
	device := &stubDevice{trackCount: 1}
	reporter := &stubReporter{}
	b := NewBroadcast("stream-1", device, &stubCounter{}, reporter, logger.New())

	require.NoError(t, b.Start())
	b.Stop()
	b.Stop()
	assert.Equal(t, 1, reporter.stopped)
}
