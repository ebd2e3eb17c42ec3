package client

import (
	"context"
	"net/http"
	"time"
)

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type message struct {
	Message string `json:"message"`
}

type noteBody struct {
	Content string `json:"content"`
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, in RegisterInput) (string, error) {
	var out message
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", in, &out, false); err != nil {
		return "", err
	}
	return out.Message, nil
}

// Login exchanges credentials for a token and keeps it on the client.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var out LoginResult
	in := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", in, &out, false); err != nil {
		return LoginResult{}, err
	}
	c.token = out.Token
	return out, nil
}

// Logout forgets the token. The server keeps no session to end.
func (c *Client) Logout() { c.token = "" }

func (c *Client) ListNotes(ctx context.Context) ([]Note, error) {
	var out []Note
	if err := c.do(ctx, http.MethodGet, "/api/notes", nil, &out, true); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Note{}
	}
	return out, nil
}

func (c *Client) CreateNote(ctx context.Context, content string) (Note, error) {
	var out Note
	if err := c.do(ctx, http.MethodPost, "/api/notes", noteBody{Content: content}, &out, true); err != nil {
		return Note{}, err
	}
	return out, nil
}

func (c *Client) UpdateNote(ctx context.Context, id, content string) (Note, error) {
	var out Note
	if err := c.do(ctx, http.MethodPut, notePath(id), noteBody{Content: content}, &out, true); err != nil {
		return Note{}, err
	}
	return out, nil
}

func (c *Client) DeleteNote(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, notePath(id), nil, nil, true)
}
