package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/baechuer/notepad-service/internal/bootstrap"
	"github.com/baechuer/notepad-service/internal/config"
	"github.com/baechuer/notepad-service/internal/infrastructure/memory"
	"github.com/baechuer/notepad-service/internal/transport/http/router"
)

// newAPI runs the real HTTP stack over the in-memory store.
func newAPI(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		AppEnv:      "dev",
		StoreDriver: config.StoreMemory,
		JWTSecret:   "client-test",
		TokenTTL:    time.Hour,
		BcryptCost:  bcrypt.MinCost,
	}
	srv, cleanup, err := bootstrap.NewServerWithDeps(bootstrap.Deps{
		LoadConfig: func() (*config.Config, error) { return cfg, nil },
		OpenStore: func(context.Context, *config.Config) (*bootstrap.Store, error) {
			return &bootstrap.Store{
				Users: memory.NewUserRepo(),
				Notes: memory.NewNoteRepo(),
				Close: func() {},
			}, nil
		},
		NewRouter: router.New,
	})
	require.NoError(t, err)
	t.Cleanup(cleanup)

	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func TestClient_FullFlow(t *testing.T) {
	ts := newAPI(t)
	ctx := context.Background()
	c := New(ts.URL + "/")

	msg, err := c.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@example.com", Phone: "555", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "User registered successfully", msg)
	assert.Empty(t, c.Token(), "register must not log in")

	_, err = c.ListNotes(ctx)
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	res, err := c.Login(ctx, "ann@example.com", "pw")
	require.NoError(t, err)
	assert.NotEmpty(t, res.UserID)
	assert.Equal(t, res.Token, c.Token())

	list, err := c.ListNotes(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	n, err := c.CreateNote(ctx, "first")
	require.NoError(t, err)
	assert.Equal(t, res.UserID, n.UserID)

	n, err = c.UpdateNote(ctx, n.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", n.Content)

	list, err = c.ListNotes(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "edited", list[0].Content)

	require.NoError(t, c.DeleteNote(ctx, n.ID))

	err = c.DeleteNote(ctx, n.ID)
	require.True(t, IsStatus(err, http.StatusNotFound), "got %v", err)

	var ae *APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "Note not found", ae.Message)
	assert.Equal(t, "note_not_found", ae.Code)
	assert.NotEmpty(t, ae.RequestID)

	c.Logout()
	assert.Empty(t, c.Token())
}

func TestClient_LoginErrors(t *testing.T) {
	ts := newAPI(t)
	ctx := context.Background()
	c := New(ts.URL)

	_, err := c.Login(ctx, "ghost@example.com", "pw")
	require.True(t, IsStatus(err, http.StatusBadRequest))
	var ae *APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "User not found", ae.Message)

	_, err = c.Register(ctx, RegisterInput{Email: "a@x.io"})
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "All fields required", ae.Message)
}

func TestClient_BadToken(t *testing.T) {
	ts := newAPI(t)
	c := New(ts.URL, WithToken("not-a-jwt"))

	_, err := c.ListNotes(context.Background())
	require.True(t, IsStatus(err, http.StatusUnauthorized), "got %v", err)
}

func TestClient_NonJSONError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer ts.Close()

	_, err := New(ts.URL, WithToken("t")).ListNotes(context.Background())

	var ae *APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusBadGateway, ae.Status)
	assert.Equal(t, "Bad Gateway", ae.Message)
}

func TestClient_Unavailable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := New(url, WithToken("t")).ListNotes(context.Background())
	assert.True(t, errors.Is(err, ErrUnavailable), "got %v", err)
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := New(ts.URL, WithToken("t")).ListNotes(ctx)
	assert.True(t, errors.Is(err, ErrTimeout), "got %v", err)
}
