package session

import (
	"errors"

	"streamboom/services/stream/internal/usecase"
)

// UseCaseReporter bridges a broadcast session to the stream backend.
// The signaling hub satisfies ViewerCounter, so a server-side
// broadcast wires up as NewBroadcast(id, device, hub, reporter, log).
type UseCaseReporter struct {
	streams usecase.StreamUseCase
	ownerID string
}

func NewUseCaseReporter(streams usecase.StreamUseCase, ownerID string) *UseCaseReporter {
	return &UseCaseReporter{streams: streams, ownerID: ownerID}
}

func (r *UseCaseReporter) ReportViewers(streamID string, viewers int) error {
	return r.streams.ReportViewers(streamID, r.ownerID, viewers)
}

func (r *UseCaseReporter) StreamStopped(streamID string) error {
	_, err := r.streams.StopStream(streamID, r.ownerID)
	if errors.Is(err, usecase.ErrStreamEnded) {
		// Already stopped through the HTTP API, nothing left to do
		return nil
	}
	return err
}
