package redis

import (
	"context"
	"strconv"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/notepad-service/internal/application/notes"
	"github.com/baechuer/notepad-service/internal/domain"
)

const DefaultNotesTTL = 30 * time.Second

// generationTTL outlives any list entry, so an expired generation never
// resurrects a list stored under an earlier one.
const generationTTL = 24 * time.Hour

type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, val any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// CachedNoteRepo caches each user's note list under the user's current
// generation. Every write by that user bumps the generation, so a list read
// that raced a write can only ever refill a key nobody reads any more.
// Cache failures are logged and fall through to the inner repo.
type CachedNoteRepo struct {
	inner notes.NoteRepo
	cache Cache
	ttl   time.Duration
}

func NewCachedNoteRepo(inner notes.NoteRepo, cache Cache, ttl time.Duration) *CachedNoteRepo {
	if ttl <= 0 {
		ttl = DefaultNotesTTL
	}
	return &CachedNoteRepo{inner: inner, cache: cache, ttl: ttl}
}

func cacheKeyGeneration(userID string) string {
	return "notes:user:" + userID + ":gen"
}

func cacheKeyNotesByOwner(userID string, gen int64) string {
	return "notes:user:" + userID + ":v" + strconv.FormatInt(gen, 10)
}

type cachedNote struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r *CachedNoteRepo) ListByOwner(ctx context.Context, userID string) ([]*domain.Note, error) {
	// A missing generation reads as zero.
	var gen int64
	if _, err := r.cache.Get(ctx, cacheKeyGeneration(userID), &gen); err != nil {
		zlog.Warn().Err(err).Str("user_id", userID).Msg("cache generation get failed")
		return r.inner.ListByOwner(ctx, userID)
	}
	key := cacheKeyNotesByOwner(userID, gen)

	var cached []cachedNote
	found, err := r.cache.Get(ctx, key, &cached)
	switch {
	case err != nil:
		zlog.Warn().Err(err).Str("key", key).Msg("cache get failed")
	case found:
		zlog.Debug().Str("key", key).Msg("cache hit")
		out := make([]*domain.Note, 0, len(cached))
		for _, c := range cached {
			out = append(out, &domain.Note{
				ID: c.ID, UserID: c.UserID, Content: c.Content,
				CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt,
			})
		}
		return out, nil
	}

	list, err := r.inner.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	toCache := make([]cachedNote, 0, len(list))
	for _, n := range list {
		toCache = append(toCache, cachedNote{
			ID: n.ID, UserID: n.UserID, Content: n.Content,
			CreatedAt: n.CreatedAt, UpdatedAt: n.UpdatedAt,
		})
	}
	if err := r.cache.Set(ctx, key, toCache, r.ttl); err != nil {
		zlog.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
	return list, nil
}

func (r *CachedNoteRepo) GetOwned(ctx context.Context, id, userID string) (*domain.Note, error) {
	return r.inner.GetOwned(ctx, id, userID)
}

func (r *CachedNoteRepo) Create(ctx context.Context, n *domain.Note) error {
	if err := r.inner.Create(ctx, n); err != nil {
		return err
	}
	r.invalidate(ctx, n.UserID)
	return nil
}

func (r *CachedNoteRepo) Update(ctx context.Context, n *domain.Note) error {
	if err := r.inner.Update(ctx, n); err != nil {
		return err
	}
	r.invalidate(ctx, n.UserID)
	return nil
}

func (r *CachedNoteRepo) Delete(ctx context.Context, id, userID string) error {
	if err := r.inner.Delete(ctx, id, userID); err != nil {
		return err
	}
	r.invalidate(ctx, userID)
	return nil
}

func (r *CachedNoteRepo) invalidate(ctx context.Context, userID string) {
	key := cacheKeyGeneration(userID)
	gen, err := r.cache.Incr(ctx, key, generationTTL)
	if err != nil {
		// Stale for at most one list TTL.
		zlog.Error().Err(err).Str("key", key).Dur("ttl", r.ttl).Msg("cache invalidate failed")
		return
	}
	// Unreachable now; drop it early instead of waiting for the TTL.
	if err := r.cache.Delete(ctx, cacheKeyNotesByOwner(userID, gen-1)); err != nil {
		zlog.Warn().Err(err).Str("user_id", userID).Msg("cache cleanup failed")
	}
}
