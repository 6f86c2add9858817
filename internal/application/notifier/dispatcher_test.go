package notifier

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notehub/core/internal/adapters/repository/memory"
	"github.com/notehub/core/internal/application/services"
	"github.com/notehub/core/internal/domain/entities"
	"github.com/notehub/core/internal/infrastructure/config"
	"github.com/notehub/core/internal/infrastructure/logger"
	"github.com/notehub/core/internal/ports"
)

type sendCall struct {
	topic string
	title string
	body  string
}

// stubSender records sends and optionally fails them.
type stubSender struct {
	mu    sync.Mutex
	calls []sendCall
	err   error
}

func (s *stubSender) Send(ctx context.Context, topic, title, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.calls = append(s.calls, sendCall{topic: topic, title: title, body: body})
	return nil
}

func (s *stubSender) recorded() []sendCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sendCall(nil), s.calls...)
}

func pushConfig() config.PushConfig {
	return config.PushConfig{
		Enabled: true,
		Topic:   "notes",
	}
}

func newTestDispatcher(t *testing.T, sender ports.PushSender, cfg config.PushConfig) (*Dispatcher, *services.NoteService) {
	t.Helper()
	noteService := services.NewNoteService(memory.NewNoteRepository(), logger.NewNop())
	return NewDispatcher(noteService, sender, cfg, nil, logger.NewNop()), noteService
}

func createDueNote(t *testing.T, svc *services.NoteService, userID, title string, due time.Time) string {
	t.Helper()
	result, err := svc.Create(context.Background(), ports.NoteDTO{Title: title, DueDate: &due}, userID)
	require.NoError(t, err)
	require.True(t, result.IsSuccess())
	return result.Value.ID
}

func TestDispatcher_SendsAndMarksDueNotes(t *testing.T) {
	sender := &stubSender{}
	dispatcher, noteService := newTestDispatcher(t, sender, pushConfig())
	ctx := context.Background()

	due := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	createDueNote(t, noteService, "alice", "pay rent", due)

	dispatcher.Run(ctx)

	calls := sender.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, "notes/alice", calls[0].topic)
	assert.Equal(t, "A note is due", calls[0].title)
	assert.Equal(t, "Note pay rent is due on 2024-03-01T09:00:00Z", calls[0].body)

	// The note is flagged, so the next tick finds nothing.
	dispatcher.Run(ctx)
	assert.Len(t, sender.recorded(), 1)
}

func TestDispatcher_GroupsByOwnerTopic(t *testing.T) {
	sender := &stubSender{}
	dispatcher, noteService := newTestDispatcher(t, sender, pushConfig())

	past := time.Now().UTC().Add(-time.Hour)
	createDueNote(t, noteService, "alice", "a", past)
	createDueNote(t, noteService, "bob", "b", past)

	dispatcher.Run(context.Background())

	topics := map[string]int{}
	for _, call := range sender.recorded() {
		topics[call.topic]++
	}
	assert.Equal(t, map[string]int{"notes/alice": 1, "notes/bob": 1}, topics)
}

func TestDispatcher_FailedSendLeavesNoteEligible(t *testing.T) {
	sender := &stubSender{err: errors.New("gateway returned 503")}
	dispatcher, noteService := newTestDispatcher(t, sender, pushConfig())
	ctx := context.Background()

	createDueNote(t, noteService, "alice", "retry me", time.Now().UTC().Add(-time.Hour))

	dispatcher.Run(ctx)
	assert.Empty(t, sender.recorded())

	// The gateway recovers and the next tick delivers the same note.
	sender.err = nil
	dispatcher.Run(ctx)
	assert.Len(t, sender.recorded(), 1)
}

func TestDispatcher_DisabledIsNoOp(t *testing.T) {
	sender := &stubSender{}
	cfg := pushConfig()
	cfg.Enabled = false
	dispatcher, noteService := newTestDispatcher(t, sender, cfg)

	createDueNote(t, noteService, "alice", "silent", time.Now().UTC().Add(-time.Hour))

	dispatcher.Run(context.Background())
	assert.Empty(t, sender.recorded())
}

type panickingSender struct{}

func (panickingSender) Send(ctx context.Context, topic, title, body string) error {
	panic("sender blew up")
}

func TestDispatcher_RecoversFromPanic(t *testing.T) {
	dispatcher, noteService := newTestDispatcher(t, panickingSender{}, pushConfig())

	createDueNote(t, noteService, "alice", "boom", time.Now().UTC().Add(-time.Hour))

	assert.NotPanics(t, func() {
		dispatcher.Run(context.Background())
	})
}

// erroringNoteRepo fails every operation, modelling an unreachable store.
type erroringNoteRepo struct{ err error }

func (r *erroringNoteRepo) Create(ctx context.Context, note *entities.Note) error { return r.err }
func (r *erroringNoteRepo) Get(ctx context.Context, id, userID string) (*entities.Note, error) {
	return nil, r.err
}
func (r *erroringNoteRepo) Replace(ctx context.Context, note *entities.Note) error { return r.err }
func (r *erroringNoteRepo) List(ctx context.Context, userID string, filter ports.NoteFilter) ([]*entities.Note, error) {
	return nil, r.err
}
func (r *erroringNoteRepo) MarkDeleted(ctx context.Context, id, userID string) error { return r.err }
func (r *erroringNoteRepo) ListDueUnsent(ctx context.Context, now time.Time) ([]*entities.Note, error) {
	return nil, r.err
}
func (r *erroringNoteRepo) MarkNotificationSent(ctx context.Context, id string) error { return r.err }

func TestDispatcher_StoreErrorIsSwallowed(t *testing.T) {
	sender := &stubSender{}
	noteService := services.NewNoteService(&erroringNoteRepo{err: errors.New("store unreachable")}, logger.NewNop())
	dispatcher := NewDispatcher(noteService, sender, pushConfig(), nil, logger.NewNop())

	assert.NotPanics(t, func() {
		dispatcher.Run(context.Background())
	})
	assert.Empty(t, sender.recorded())
}
