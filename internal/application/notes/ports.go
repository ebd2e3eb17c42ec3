package notes

import (
	"context"
	"time"

	"github.com/baechuer/notepad-service/internal/domain"
)

type Clock interface {
	Now() time.Time
}

// NoteRepo is the persistence port for notes. Every read and write is
// scoped by owner: a note owned by someone else is reported as
// domain.ErrNoteNotFound, exactly like a missing one.
type NoteRepo interface {
	// Create assigns n.ID.
	Create(ctx context.Context, n *domain.Note) error
	ListByOwner(ctx context.Context, userID string) ([]*domain.Note, error)
	GetOwned(ctx context.Context, id, userID string) (*domain.Note, error)
	Update(ctx context.Context, n *domain.Note) error
	Delete(ctx context.Context, id, userID string) error
}

// OwnerLookup resolves the acting user. Adapters report a missing user as
// domain.ErrUserNotFound.
type OwnerLookup interface {
	GetByID(ctx context.Context, id string) (domain.User, error)
}

// EventPublisher publishes note lifecycle events (best-effort).
type EventPublisher interface {
	PublishNoteEvent(ctx context.Context, evt NoteEvent) error
}

type NoteEventType string

const (
	NoteCreated NoteEventType = "note.created"
	NoteUpdated NoteEventType = "note.updated"
	NoteDeleted NoteEventType = "note.deleted"
)

type NoteEvent struct {
	Type       NoteEventType `json:"type"`
	NoteID     string        `json:"noteId"`
	UserID     string        `json:"userId"`
	OccurredAt time.Time     `json:"occurredAt"`
}
