package dto

import (
	"time"

	"github.com/baechuer/notepad-service/internal/domain"
)

type NoteRequest struct {
	Content string `json:"content" validate:"notblank"`
}

func (r *NoteRequest) Validate() error {
	return validateStruct(r, func([]string) error {
		return domain.ErrContentRequired()
	})
}

type NoteResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NoteFromDomain(n *domain.Note) NoteResponse {
	return NoteResponse{
		ID:        n.ID,
		UserID:    n.UserID,
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func NotesFromDomain(list []*domain.Note) []NoteResponse {
	out := make([]NoteResponse, 0, len(list))
	for _, n := range list {
		out = append(out, NoteFromDomain(n))
	}
	return out
}
