package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/baechuer/notepad-service/internal/domain"
)

type NoteRepo struct {
	db *sql.DB
	q  *queries
}

func NewNoteRepo(db *sql.DB, d Dialect) *NoteRepo {
	return &NoteRepo{db: db, q: queriesFor(d)}
}

func (r *NoteRepo) Create(ctx context.Context, n *domain.Note) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, r.q.insertNote,
		n.ID, n.UserID, n.Content, n.CreatedAt, n.UpdatedAt,
	)
	if isMissingReference(err) {
		// owner deleted after the service checked it
		return domain.ErrTokenInvalid()
	}
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	return nil
}

func (r *NoteRepo) ListByOwner(ctx context.Context, userID string) ([]*domain.Note, error) {
	rows, err := r.db.QueryContext(ctx, r.q.selectNotesByOwner, userID)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	out := make([]*domain.Note, 0)
	for rows.Next() {
		var n domain.Note
		if err := rows.Scan(&n.ID, &n.UserID, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

func (r *NoteRepo) GetOwned(ctx context.Context, id, userID string) (*domain.Note, error) {
	var n domain.Note
	err := r.db.QueryRowContext(ctx, r.q.selectOwnedNote, id, userID).
		Scan(&n.ID, &n.UserID, &n.Content, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNoteNotFound()
	}
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return &n, nil
}

func (r *NoteRepo) Update(ctx context.Context, n *domain.Note) error {
	res, err := r.db.ExecContext(ctx, r.q.updateOwnedNote, n.Content, n.UpdatedAt, n.ID, n.UserID)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	return requireOneRow(res)
}

func (r *NoteRepo) Delete(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx, r.q.deleteOwnedNote, id, userID)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	return requireOneRow(res)
}

// requireOneRow maps "nothing matched id+owner" to not found.
// MySQL connections must set clientFoundRows so an unchanged UPDATE still counts.
func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	if n == 0 {
		return domain.ErrNoteNotFound()
	}
	return nil
}
