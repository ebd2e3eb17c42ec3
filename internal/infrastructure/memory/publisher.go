package memory

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/baechuer/notepad-service/internal/application/auth"
	"github.com/baechuer/notepad-service/internal/application/notes"
)

// NoopPublisher is used when no broker is configured. Events are only logged.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (p *NoopPublisher) PublishUserRegistered(ctx context.Context, evt auth.UserRegisteredEvent) error {
	log.Debug().Str("user_id", evt.UserID).Msg("[noop-pub] user registered")
	return nil
}

func (p *NoopPublisher) PublishNoteEvent(ctx context.Context, evt notes.NoteEvent) error {
	log.Debug().
		Str("type", string(evt.Type)).
		Str("note_id", evt.NoteID).
		Str("user_id", evt.UserID).
		Msg("[noop-pub] note event")
	return nil
}
