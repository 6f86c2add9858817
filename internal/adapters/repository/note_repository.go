package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/notehub/core/internal/domain/entities"
	"github.com/notehub/core/internal/ports"
)

// NoteRepositoryImpl implements the NoteRepository interface on Postgres.
// Every query carries the owner predicate; the repository never returns a
// record outside the given user partition.
type NoteRepositoryImpl struct {
	db *sqlx.DB
}

// NewNoteRepository creates a new note repository
func NewNoteRepository(db *sqlx.DB) ports.NoteRepository {
	return &NoteRepositoryImpl{db: db}
}

func (r *NoteRepositoryImpl) Create(ctx context.Context, note *entities.Note) error {
	query := `
		INSERT INTO notes (id, user_id, title, text, encoded_text, category, created_at,
			updated_at, due_date, is_deleted, is_resolved, is_encrypted, due_notification_sent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	if note.ID == "" {
		note.ID = uuid.New().String()
	}

	result, err := r.db.ExecContext(ctx, query,
		note.ID, note.UserID, note.Title, note.Text, note.EncodedText, note.Category,
		note.CreatedAt, note.UpdatedAt, note.DueDate,
		note.IsDeleted, note.IsResolved, note.IsEncrypted, note.DueNotificationSent,
	)
	if err != nil {
		return fmt.Errorf("create note: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("create note rows affected: %w", err)
	}
	if rows == 0 {
		return entities.ErrNotAcknowledged
	}

	return nil
}

func (r *NoteRepositoryImpl) Get(ctx context.Context, id, userID string) (*entities.Note, error) {
	query := `
		SELECT id, user_id, title, text, encoded_text, category, created_at, updated_at,
			due_date, is_deleted, is_resolved, is_encrypted, due_notification_sent
		FROM notes
		WHERE id = $1 AND user_id = $2 AND NOT is_deleted`

	var note entities.Note
	err := r.db.GetContext(ctx, &note, query, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrNoteNotFound
		}
		return nil, fmt.Errorf("get note by id: %w", err)
	}

	return &note, nil
}

func (r *NoteRepositoryImpl) Replace(ctx context.Context, note *entities.Note) error {
	query := `
		UPDATE notes
		SET title = $3, text = $4, encoded_text = $5, category = $6, updated_at = $7,
			due_date = $8, is_deleted = $9, is_resolved = $10, is_encrypted = $11,
			due_notification_sent = $12
		WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query,
		note.ID, note.UserID, note.Title, note.Text, note.EncodedText, note.Category,
		note.UpdatedAt, note.DueDate,
		note.IsDeleted, note.IsResolved, note.IsEncrypted, note.DueNotificationSent,
	)
	if err != nil {
		return fmt.Errorf("replace note: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("replace note rows affected: %w", err)
	}
	if rows == 0 {
		return entities.ErrNotAcknowledged
	}

	return nil
}

func (r *NoteRepositoryImpl) List(ctx context.Context, userID string, filter ports.NoteFilter) ([]*entities.Note, error) {
	query := `
		SELECT id, user_id, title, text, encoded_text, category, created_at, updated_at,
			due_date, is_deleted, is_resolved, is_encrypted, due_notification_sent
		FROM notes
		WHERE user_id = $1
			AND ($2 OR NOT is_deleted)
			AND ($3 = '' OR category = $3)
		ORDER BY created_at DESC`

	var notes []*entities.Note
	err := r.db.SelectContext(ctx, &notes, query, userID, filter.IncludeDeleted, filter.Category)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	return notes, nil
}

func (r *NoteRepositoryImpl) MarkDeleted(ctx context.Context, id, userID string) error {
	query := `UPDATE notes SET is_deleted = true WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("mark note deleted: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark note deleted rows affected: %w", err)
	}
	if rows == 0 {
		return entities.ErrNotAcknowledged
	}

	return nil
}

func (r *NoteRepositoryImpl) ListDueUnsent(ctx context.Context, now time.Time) ([]*entities.Note, error) {
	query := `
		SELECT id, user_id, title, text, encoded_text, category, created_at, updated_at,
			due_date, is_deleted, is_resolved, is_encrypted, due_notification_sent
		FROM notes
		WHERE NOT is_deleted
			AND NOT due_notification_sent
			AND due_date IS NOT NULL
			AND due_date <= $1
		ORDER BY user_id, due_date`

	var notes []*entities.Note
	err := r.db.SelectContext(ctx, &notes, query, now)
	if err != nil {
		return nil, fmt.Errorf("list due notes: %w", err)
	}

	return notes, nil
}

func (r *NoteRepositoryImpl) MarkNotificationSent(ctx context.Context, id string) error {
	query := `UPDATE notes SET due_notification_sent = true WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("mark notification sent: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark notification sent rows affected: %w", err)
	}
	if rows == 0 {
		return entities.ErrNotAcknowledged
	}

	return nil
}
