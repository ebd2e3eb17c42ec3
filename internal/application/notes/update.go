package notes

import (
	"context"

	"github.com/baechuer/notepad-service/internal/domain"
)

type UpdateCmd struct {
	ActorID string
	NoteID  string
	Content string
}

// Update overwrites the content of a note owned by the actor.
// Ownership is checked before content so that probing someone else's
// note id always yields not-found.
func (s *Service) Update(ctx context.Context, cmd UpdateCmd) (*domain.Note, error) {
	n, err := s.repo.GetOwned(ctx, cmd.NoteID, cmd.ActorID)
	if err != nil {
		return nil, err
	}

	if err := n.ApplyContent(cmd.Content, s.clock.Now().UTC()); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, n); err != nil {
		return nil, err
	}

	s.publish(ctx, NoteUpdated, n.ID, n.UserID)
	return n, nil
}
