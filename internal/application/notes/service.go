package notes

import (
	"context"

	zlog "github.com/rs/zerolog/log"
)

type Service struct {
	repo   NoteRepo
	owners OwnerLookup
	clock  Clock
	pub    EventPublisher
}

func New(repo NoteRepo, owners OwnerLookup, clock Clock, pub EventPublisher) *Service {
	return &Service{
		repo:   repo,
		owners: owners,
		clock:  clock,
		pub:    pub,
	}
}

func (s *Service) publish(ctx context.Context, typ NoteEventType, noteID, userID string) {
	if s.pub == nil {
		return
	}
	evt := NoteEvent{
		Type:       typ,
		NoteID:     noteID,
		UserID:     userID,
		OccurredAt: s.clock.Now().UTC(),
	}
	if err := s.pub.PublishNoteEvent(ctx, evt); err != nil {
		zlog.Warn().Err(err).Str("type", string(typ)).Str("note_id", noteID).Msg("publish note event failed")
	}
}
