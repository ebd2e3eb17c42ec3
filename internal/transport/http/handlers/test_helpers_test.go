package http_handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/baechuer/notepad-service/internal/application/auth"
	"github.com/baechuer/notepad-service/internal/application/notes"
	"github.com/baechuer/notepad-service/internal/domain"
	"github.com/baechuer/notepad-service/internal/infrastructure/memory"
	"github.com/baechuer/notepad-service/internal/infrastructure/security"
	"github.com/baechuer/notepad-service/internal/transport/http/middleware"
)

type testClock struct{}

func (testClock) Now() time.Time { return time.Now().UTC() }

type testEnv struct {
	auth  *AuthHandler
	notes *NotesHandler
	users *memory.UserRepo
	repo  *memory.NoteRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := memory.NewUserRepo()
	repo := memory.NewNoteRepo()
	pub := memory.NewNoopPublisher()

	// Note tests act as these users directly, without going through login.
	for _, id := range []string{"u1", "u2"} {
		if _, err := users.Create(context.Background(), domain.User{
			ID: id, Name: id, Email: id + "@notes.test", Phone: "0", PasswordHash: "x",
		}); err != nil {
			t.Fatalf("seed user %s: %v", id, err)
		}
	}

	authSvc := auth.NewService(
		users,
		security.NewBcryptHasher(bcrypt.MinCost),
		security.NewJWTSigner("test-secret", ""),
		pub,
		auth.Config{TokenTTL: time.Hour},
	)

	return &testEnv{
		auth:  NewAuthHandler(authSvc),
		notes: NewNotesHandler(notes.New(repo, users, testClock{}, pub)),
		users: users,
		repo:  repo,
	}
}

// mustJSONBody marshals v to JSON and returns an io.Reader for request body.
func mustJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()

	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json marshal: %v", err)
	}
	return bytes.NewReader(b)
}

func mustReadJSON(t *testing.T, r io.Reader, out any) {
	t.Helper()

	raw, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("decode json failed; body=%s err=%v", string(raw), err)
	}
}

func withUserCtx(req *http.Request, userID string) *http.Request {
	return req.WithContext(middleware.WithUser(req.Context(), userID))
}

// withURLParam injects chi URL param (e.g. /notes/{id}) into request context.
func withURLParam(req *http.Request, key, val string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, val)

	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	return req.WithContext(ctx)
}
