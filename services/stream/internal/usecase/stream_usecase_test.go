package usecase

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamboom/pkg/logger"
	"streamboom/services/stream/internal/entity"
)

type fakeStreamRepository struct {
	streams  map[string]*entity.Stream
	messages []*entity.ChatMessage
}

func newFakeStreamRepository() *fakeStreamRepository {
	return &fakeStreamRepository{streams: make(map[string]*entity.Stream)}
}

func (f *fakeStreamRepository) Create(stream *entity.Stream) error {
	stream.ID = fmt.Sprintf("stream-%d", len(f.streams)+1)
	copied := *stream
	f.streams[stream.ID] = &copied
	return nil
}

func (f *fakeStreamRepository) GetByID(streamID string) (*entity.Stream, error) {
	s, ok := f.streams[streamID]
	if !ok {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (f *fakeStreamRepository) ListLive(limit int) ([]*entity.Stream, error) {
	var out []*entity.Stream
	for _, s := range f.streams {
		if s.IsLive && len(out) < limit {
			copied := *s
			copied.StreamKey = ""
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeStreamRepository) Update(stream *entity.Stream) error {
	copied := *stream
	f.streams[stream.ID] = &copied
	return nil
}

func (f *fakeStreamRepository) UpdateViewers(streamID string, viewers int) error {
	if s, ok := f.streams[streamID]; ok && s.IsLive {
		s.ViewerCount = viewers
	}
	return nil
}

func (f *fakeStreamRepository) CreateChatMessage(message *entity.ChatMessage) error {
	message.ID = fmt.Sprintf("msg-%d", len(f.messages)+1)
	f.messages = append(f.messages, message)
	return nil
}

func (f *fakeStreamRepository) ListChatMessages(streamID string, limit int) ([]*entity.ChatMessage, error) {
	var out []*entity.ChatMessage
	for _, m := range f.messages {
		if m.StreamID == streamID && len(out) < limit {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeDirectory struct {
	owners  map[string]string
	viewers map[string]int
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{owners: make(map[string]string), viewers: make(map[string]int)}
}

func (f *fakeDirectory) Register(streamID, ownerID string) error {
	f.owners[streamID] = ownerID
	return nil
}

func (f *fakeDirectory) SetViewers(streamID string, viewers int) error {
	f.viewers[streamID] = viewers
	return nil
}

func (f *fakeDirectory) Unregister(streamID string) error {
	delete(f.owners, streamID)
	return nil
}

func newTestUseCase() (StreamUseCase, *fakeStreamRepository, *fakeDirectory) {
	repo := newFakeStreamRepository()
	dir := newFakeDirectory()
	return NewStreamUseCase(repo, dir, logger.New()), repo, dir
}

func TestStartStream(t *testing.T) {
	uc, repo, dir := newTestUseCase()

	stream, err := uc.StartStream(StartStreamInput{OwnerID: "alice", Title: "My first stream"})
	require.NoError(t, err)

	assert.True(t, stream.IsLive)
	assert.Equal(t, "Other", stream.Category)
	assert.Len(t, stream.StreamKey, 48)
	assert.Equal(t, "alice", dir.owners[stream.ID])

	stored := repo.streams[stream.ID]
	require.NotNil(t, stored)
	assert.Equal(t, stream.StreamKey, stored.StreamKey)
}

func TestStreamKeyHiddenFromReads(t *testing.T) {
	uc, _, _ := newTestUseCase()

	stream, err := uc.StartStream(StartStreamInput{OwnerID: "alice", Title: "t"})
	require.NoError(t, err)

	fetched, err := uc.GetStream(stream.ID)
	require.NoError(t, err)
	assert.Empty(t, fetched.StreamKey)

	live, err := uc.ListLive()
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Empty(t, live[0].StreamKey)
}

func TestStopStream(t *testing.T) {
	uc, repo, dir := newTestUseCase()

	stream, err := uc.StartStream(StartStreamInput{OwnerID: "alice", Title: "t"})
	require.NoError(t, err)

	_, err = uc.StopStream(stream.ID, "mallory")
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.True(t, repo.streams[stream.ID].IsLive)

	stopped, err := uc.StopStream(stream.ID, "alice")
	require.NoError(t, err)
	assert.False(t, stopped.IsLive)
	assert.NotNil(t, stopped.EndedAt)
	assert.NotContains(t, dir.owners, stream.ID)

	_, err = uc.StopStream(stream.ID, "alice")
	assert.ErrorIs(t, err, ErrStreamEnded)

	_, err = uc.StopStream("no-such", "alice")
	assert.ErrorIs(t, err, ErrStreamNotFound)
}

func TestReportViewers(t *testing.T) {
	uc, repo, dir := newTestUseCase()

	stream, err := uc.StartStream(StartStreamInput{OwnerID: "alice", Title: "t"})
	require.NoError(t, err)

	require.NoError(t, uc.ReportViewers(stream.ID, "alice", 42))
	assert.Equal(t, 42, repo.streams[stream.ID].ViewerCount)
	assert.Equal(t, 42, dir.viewers[stream.ID])

	// Negative counts are clamped
	require.NoError(t, uc.ReportViewers(stream.ID, "alice", -5))
	assert.Equal(t, 0, repo.streams[stream.ID].ViewerCount)

	assert.ErrorIs(t, uc.ReportViewers(stream.ID, "bob", 1), ErrNotOwner)

	_, err = uc.StopStream(stream.ID, "alice")
	require.NoError(t, err)
	assert.ErrorIs(t, uc.ReportViewers(stream.ID, "alice", 1), ErrStreamEnded)
}

func TestChatMessages(t *testing.T) {
	uc, _, _ := newTestUseCase()

	stream, err := uc.StartStream(StartStreamInput{OwnerID: "alice", Title: "t"})
	require.NoError(t, err)

	msg, err := uc.PostChatMessage(stream.ID, "bob", "bob", "hello")
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)

	_, err = uc.PostChatMessage(stream.ID, "bob", "bob", "")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = uc.PostChatMessage("no-such", "bob", "bob", "hi")
	assert.ErrorIs(t, err, ErrStreamNotFound)

	messages, err := uc.GetChatMessages(stream.ID, 10)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "hello", messages[0].Message)

	_, err = uc.StopStream(stream.ID, "alice")
	require.NoError(t, err)
	_, err = uc.PostChatMessage(stream.ID, "bob", "bob", "late")
	assert.ErrorIs(t, err, ErrStreamEnded)
}
