package domain

import (
	"strings"
	"time"
)

type Note struct {
	ID        string
	UserID    string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewNote builds an unsaved note for userID. The ID is assigned by the store.
func NewNote(userID, content string, now time.Time) (*Note, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrTokenInvalid()
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrContentRequired()
	}
	return &Note{
		UserID:    userID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ApplyContent overwrites the note body (last write wins).
func (n *Note) ApplyContent(content string, now time.Time) error {
	if strings.TrimSpace(content) == "" {
		return ErrContentRequired()
	}
	n.Content = content
	n.UpdatedAt = now
	return nil
}
