package ports

import (
	"context"
	"time"

	"github.com/notehub/core/internal/domain/entities"
)

// NoteFilter narrows an ownership-scoped note listing.
type NoteFilter struct {
	// Category filters by exact category match when non-empty.
	Category string
	// IncludeDeleted includes soft-deleted notes in the listing.
	IncludeDeleted bool
}

// NoteRepository is the document-store surface for the notes collection.
// Every lookup and mutation except the notification scan carries the
// owner id; implementations must apply it as an equality predicate.
type NoteRepository interface {
	// Create inserts a new note. Returns entities.ErrNotAcknowledged when
	// the store does not confirm the insert.
	Create(ctx context.Context, note *entities.Note) error

	// Get returns the note with the given id owned by userID, or
	// entities.ErrNoteNotFound. Soft-deleted notes are not returned;
	// they are reachable only through List with IncludeDeleted.
	Get(ctx context.Context, id, userID string) (*entities.Note, error)

	// Replace stores the full note record by id, scoped to note.UserID.
	// Returns entities.ErrNotAcknowledged when no record was replaced.
	Replace(ctx context.Context, note *entities.Note) error

	// List returns the owner's notes matching the filter. An empty result
	// is a nil or empty slice, not an error.
	List(ctx context.Context, userID string, filter NoteFilter) ([]*entities.Note, error)

	// MarkDeleted patches IsDeleted to true for the owner's note.
	// Returns entities.ErrNotAcknowledged when no record was patched.
	MarkDeleted(ctx context.Context, id, userID string) error

	// ListDueUnsent scans all owners for non-deleted notes whose due date
	// is at or before now and whose due notification has not been sent.
	ListDueUnsent(ctx context.Context, now time.Time) ([]*entities.Note, error)

	// MarkNotificationSent patches DueNotificationSent to true.
	MarkNotificationSent(ctx context.Context, id string) error
}

// UserRepository is the document-store surface for the users collection.
type UserRepository interface {
	// Create inserts a new user record.
	Create(ctx context.Context, user *entities.User) error

	// GetByLogin returns the user with the exact login, or
	// entities.ErrUserNotFound.
	GetByLogin(ctx context.Context, login string) (*entities.User, error)
}

// PasswordHasher is the one-way password hashing capability.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
}

// PushSender delivers a push notification to a topic. A non-nil error
// carries the gateway's response body for logging.
type PushSender interface {
	Send(ctx context.Context, topic, title, body string) error
}
