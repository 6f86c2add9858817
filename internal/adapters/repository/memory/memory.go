// Package memory provides map-backed repositories used by tests and
// local development runs that have no database.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/notehub/core/internal/domain/entities"
	"github.com/notehub/core/internal/ports"
)

var _ ports.NoteRepository = (*NoteRepository)(nil)

// NoteRepository is an in-memory NoteRepository.
type NoteRepository struct {
	mu    sync.RWMutex
	notes map[string]entities.Note
}

// NewNoteRepository creates an empty in-memory note repository.
func NewNoteRepository() *NoteRepository {
	return &NoteRepository{notes: make(map[string]entities.Note)}
}

func (r *NoteRepository) Create(ctx context.Context, note *entities.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if note.ID == "" {
		note.ID = uuid.New().String()
	}

	r.notes[note.ID] = *note
	return nil
}

func (r *NoteRepository) Get(ctx context.Context, id, userID string) (*entities.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	note, exists := r.notes[id]
	if !exists || note.UserID != userID || note.IsDeleted {
		return nil, entities.ErrNoteNotFound
	}

	found := note
	return &found, nil
}

func (r *NoteRepository) Replace(ctx context.Context, note *entities.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.notes[note.ID]
	if !exists || existing.UserID != note.UserID {
		return entities.ErrNotAcknowledged
	}

	r.notes[note.ID] = *note
	return nil
}

func (r *NoteRepository) List(ctx context.Context, userID string, filter ports.NoteFilter) ([]*entities.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var notes []*entities.Note
	for id := range r.notes {
		note := r.notes[id]
		if note.UserID != userID {
			continue
		}
		if note.IsDeleted && !filter.IncludeDeleted {
			continue
		}
		if filter.Category != "" && note.Category != filter.Category {
			continue
		}
		found := note
		notes = append(notes, &found)
	}

	sort.Slice(notes, func(i, j int) bool {
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})

	return notes, nil
}

func (r *NoteRepository) MarkDeleted(ctx context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	note, exists := r.notes[id]
	if !exists || note.UserID != userID {
		return entities.ErrNotAcknowledged
	}

	note.IsDeleted = true
	r.notes[id] = note
	return nil
}

func (r *NoteRepository) ListDueUnsent(ctx context.Context, now time.Time) ([]*entities.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var notes []*entities.Note
	for id := range r.notes {
		note := r.notes[id]
		if note.IsDeleted || note.DueNotificationSent || note.DueDate == nil {
			continue
		}
		if note.DueDate.After(now) {
			continue
		}
		found := note
		notes = append(notes, &found)
	}

	sort.Slice(notes, func(i, j int) bool {
		if notes[i].UserID != notes[j].UserID {
			return notes[i].UserID < notes[j].UserID
		}
		return notes[i].DueDate.Before(*notes[j].DueDate)
	})

	return notes, nil
}

func (r *NoteRepository) MarkNotificationSent(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	note, exists := r.notes[id]
	if !exists {
		return entities.ErrNotAcknowledged
	}

	note.DueNotificationSent = true
	r.notes[id] = note
	return nil
}

var _ ports.UserRepository = (*UserRepository)(nil)

// UserRepository is an in-memory UserRepository.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]entities.User
}

// NewUserRepository creates an empty in-memory user repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]entities.User)}
}

func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	r.users[user.ID] = *user
	return nil
}

func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for id := range r.users {
		user := r.users[id]
		if user.Login == login {
			found := user
			return &found, nil
		}
	}

	return nil, entities.ErrUserNotFound
}
