package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/baechuer/notepad-service/internal/domain"
)

// NoteRepo keeps notes in a map. Values are copied in and out so callers
// never share memory with the store.
type NoteRepo struct {
	mu   sync.RWMutex
	byID map[string]domain.Note
}

func NewNoteRepo() *NoteRepo {
	return &NoteRepo{byID: make(map[string]domain.Note)}
}

func (r *NoteRepo) Create(ctx context.Context, n *domain.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	r.byID[n.ID] = *n
	return nil
}

func (r *NoteRepo) ListByOwner(ctx context.Context, userID string) ([]*domain.Note, error) {
	r.mu.RLock()
	out := make([]*domain.Note, 0)
	for _, n := range r.byID {
		if n.UserID == userID {
			cp := n
			out = append(out, &cp)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *NoteRepo) GetOwned(ctx context.Context, id, userID string) (*domain.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.byID[id]
	if !ok || n.UserID != userID {
		return nil, domain.ErrNoteNotFound()
	}
	return &n, nil
}

func (r *NoteRepo) Update(ctx context.Context, n *domain.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[n.ID]
	if !ok || cur.UserID != n.UserID {
		return domain.ErrNoteNotFound()
	}
	cur.Content = n.Content
	cur.UpdatedAt = n.UpdatedAt
	r.byID[n.ID] = cur
	return nil
}

func (r *NoteRepo) Delete(ctx context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.byID[id]
	if !ok || n.UserID != userID {
		return domain.ErrNoteNotFound()
	}
	delete(r.byID, id)
	return nil
}
