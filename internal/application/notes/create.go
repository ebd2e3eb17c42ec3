package notes

import (
	"context"

	"github.com/baechuer/notepad-service/internal/domain"
)

type CreateCmd struct {
	ActorID string
	Content string
}

func (s *Service) Create(ctx context.Context, cmd CreateCmd) (*domain.Note, error) {
	n, err := domain.NewNote(cmd.ActorID, cmd.Content, s.clock.Now().UTC())
	if err != nil {
		return nil, err
	}
	// A valid token can outlive its user (store reset, same secret).
	if _, err := s.owners.GetByID(ctx, n.UserID); err != nil {
		if domain.Is(err, "user_not_found") {
			return nil, domain.ErrTokenInvalid()
		}
		return nil, err
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	s.publish(ctx, NoteCreated, n.ID, n.UserID)
	return n, nil
}
