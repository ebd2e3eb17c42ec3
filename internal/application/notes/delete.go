package notes

import (
	"context"
)

func (s *Service) Delete(ctx context.Context, actorID, noteID string) error {
	if err := s.repo.Delete(ctx, noteID, actorID); err != nil {
		return err
	}

	s.publish(ctx, NoteDeleted, noteID, actorID)
	return nil
}
