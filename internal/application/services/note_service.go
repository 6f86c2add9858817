package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/notehub/core/internal/converter"
	"github.com/notehub/core/internal/domain/entities"
	"github.com/notehub/core/internal/infrastructure/logger"
	"github.com/notehub/core/internal/ports"
)

// NoteService owns the note lifecycle: create, update, get, list,
// soft-delete and the due-notification scan/mark-sent cycle. Every
// operation is scoped to the authenticated owner id; an ownership
// mismatch is reported as NotFound so callers cannot probe for foreign
// records.
type NoteService struct {
	noteRepo ports.NoteRepository
	logger   *logger.Logger
}

// NewNoteService creates a new note service
func NewNoteService(noteRepo ports.NoteRepository, logger *logger.Logger) *NoteService {
	return &NoteService{
		noteRepo: noteRepo,
		logger:   logger,
	}
}

// Create persists a new note owned by userID. Field values are passed
// through verbatim; only id, owner and the audit timestamps are stamped
// by the service.
func (s *NoteService) Create(ctx context.Context, dto ports.NoteDTO, userID string) (entities.Result[ports.NoteDTO], error) {
	now := time.Now().UTC()

	note := &entities.Note{
		ID:        uuid.New().String(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	converter.ApplyDTO(note, dto)

	if err := s.noteRepo.Create(ctx, note); err != nil {
		if errors.Is(err, entities.ErrNotAcknowledged) {
			s.logger.Error("Create note was not acknowledged", "note_id", note.ID)
			return entities.Fail[ports.NoteDTO](entities.StatusFailed), nil
		}
		return entities.Fail[ports.NoteDTO](entities.StatusFailed), err
	}

	s.logger.Info("Note created", "note_id", note.ID, "user_id", userID)

	return entities.Ok(converter.NoteToDTO(note)), nil
}

// Update replaces the stored note with the caller-supplied fields after
// an ownership-scoped existence check. The owner id is always taken from
// the authenticated identity, never from the payload.
func (s *NoteService) Update(ctx context.Context, dto ports.NoteDTO, userID string) (entities.Result[ports.NoteDTO], error) {
	if dto.ID == "" {
		return entities.Fail[ports.NoteDTO](entities.StatusBadRequest), nil
	}

	note, err := s.noteRepo.Get(ctx, dto.ID, userID)
	if err != nil {
		if errors.Is(err, entities.ErrNoteNotFound) {
			s.logger.Info("Update on missing or foreign note", "note_id", dto.ID, "user_id", userID)
			return entities.Fail[ports.NoteDTO](entities.StatusNotFound), nil
		}
		return entities.Fail[ports.NoteDTO](entities.StatusFailed), err
	}

	converter.ApplyDTO(note, dto)
	note.UserID = userID
	note.UpdatedAt = time.Now().UTC()

	if err := s.noteRepo.Replace(ctx, note); err != nil {
		if errors.Is(err, entities.ErrNotAcknowledged) {
			s.logger.Error("Replace note was not acknowledged", "note_id", note.ID)
			return entities.Fail[ports.NoteDTO](entities.StatusFailed), nil
		}
		return entities.Fail[ports.NoteDTO](entities.StatusFailed), err
	}

	s.logger.Info("Note updated", "note_id", note.ID, "user_id", userID)

	return entities.Ok(converter.NoteToDTO(note)), nil
}

// Get returns a single note owned by userID.
func (s *NoteService) Get(ctx context.Context, id, userID string) (entities.Result[ports.NoteDTO], error) {
	if id == "" {
		return entities.Fail[ports.NoteDTO](entities.StatusBadRequest), nil
	}

	note, err := s.noteRepo.Get(ctx, id, userID)
	if err != nil {
		if errors.Is(err, entities.ErrNoteNotFound) {
			return entities.Fail[ports.NoteDTO](entities.StatusNotFound), nil
		}
		return entities.Fail[ports.NoteDTO](entities.StatusFailed), err
	}

	return entities.Ok(converter.NoteToDTO(note)), nil
}

// List returns the owner's notes. Soft-deleted notes are excluded unless
// the filter asks for them; an empty listing is a success, not an error.
func (s *NoteService) List(ctx context.Context, userID string, filter ports.NoteFilter) (entities.Result[[]ports.NoteDTO], error) {
	notes, err := s.noteRepo.List(ctx, userID, filter)
	if err != nil {
		return entities.Fail[[]ports.NoteDTO](entities.StatusFailed), err
	}

	return entities.Ok(converter.NotesToDTOs(notes)), nil
}

// Delete marks the note deleted. The record is never physically removed.
func (s *NoteService) Delete(ctx context.Context, id, userID string) (entities.Result[struct{}], error) {
	if id == "" {
		return entities.Fail[struct{}](entities.StatusBadRequest), nil
	}

	if _, err := s.noteRepo.Get(ctx, id, userID); err != nil {
		if errors.Is(err, entities.ErrNoteNotFound) {
			s.logger.Info("Delete on missing or foreign note", "note_id", id, "user_id", userID)
			return entities.Fail[struct{}](entities.StatusNotFound), nil
		}
		return entities.Fail[struct{}](entities.StatusFailed), err
	}

	if err := s.noteRepo.MarkDeleted(ctx, id, userID); err != nil {
		if errors.Is(err, entities.ErrNotAcknowledged) {
			s.logger.Error("Mark deleted was not acknowledged", "note_id", id)
			return entities.Fail[struct{}](entities.StatusFailed), nil
		}
		return entities.Fail[struct{}](entities.StatusFailed), err
	}

	s.logger.Info("Note deleted", "note_id", id, "user_id", userID)

	return entities.Ok(struct{}{}), nil
}

// GetNotesForNotificationProcessing scans all owners for non-deleted
// notes whose due date has passed and whose notification has not been
// sent, grouped by owner.
func (s *NoteService) GetNotesForNotificationProcessing(ctx context.Context) ([]entities.NoteGroup, error) {
	notes, err := s.noteRepo.ListDueUnsent(ctx, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	var groups []entities.NoteGroup
	for _, note := range notes {
		if len(groups) == 0 || groups[len(groups)-1].UserID != note.UserID {
			groups = append(groups, entities.NoteGroup{UserID: note.UserID})
		}
		last := &groups[len(groups)-1]
		last.Notes = append(last.Notes, note)
	}

	return groups, nil
}

// SetNotificationSent flags the note so it is never notified again.
// Best effort: a failure is logged and the note stays eligible for the
// next dispatch tick.
func (s *NoteService) SetNotificationSent(ctx context.Context, noteID string) {
	if err := s.noteRepo.MarkNotificationSent(ctx, noteID); err != nil {
		s.logger.Warn("Failed to mark notification sent", "note_id", noteID, "error", err)
	}
}
