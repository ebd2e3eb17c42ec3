package notes

import (
	"context"

	"github.com/baechuer/notepad-service/internal/domain"
)

// List returns the notes owned by userID. Never nil.
func (s *Service) List(ctx context.Context, userID string) ([]*domain.Note, error) {
	items, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*domain.Note{}
	}
	return items, nil
}
