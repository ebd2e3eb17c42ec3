package http_handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/notepad-service/internal/application/notes"
	"github.com/baechuer/notepad-service/internal/domain"
	"github.com/baechuer/notepad-service/internal/transport/http/dto"
	"github.com/baechuer/notepad-service/internal/transport/http/middleware"
	"github.com/baechuer/notepad-service/internal/transport/http/response"
)

type NotesService interface {
	List(ctx context.Context, userID string) ([]*domain.Note, error)
	Create(ctx context.Context, cmd notes.CreateCmd) (*domain.Note, error)
	Update(ctx context.Context, cmd notes.UpdateCmd) (*domain.Note, error)
	Delete(ctx context.Context, actorID, noteID string) error
}

type NotesHandler struct {
	svc NotesService
}

func NewNotesHandler(svc NotesService) *NotesHandler {
	return &NotesHandler{svc: svc}
}

// caller returns the authenticated user id. Routes are mounted behind
// middleware.Auth, so a missing id means the router was wired wrong.
func caller(w http.ResponseWriter, r *http.Request) (string, bool) {
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return "", false
	}
	return uid, true
}

func noteID(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "id"))
}

func track(op string, err error) {
	status := "ok"
	if err != nil {
		status = string(domain.KindOf(err))
	}
	middleware.NoteOpsTotal.WithLabelValues(op, status).Inc()
}

// List handles GET /api/notes.
func (h *NotesHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := caller(w, r)
	if !ok {
		return
	}

	list, err := h.svc.List(r.Context(), uid)
	track("list", err)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.NotesFromDomain(list))
}

// Create handles POST /api/notes.
func (h *NotesHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := caller(w, r)
	if !ok {
		return
	}

	var req dto.NoteRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	n, err := h.svc.Create(r.Context(), notes.CreateCmd{ActorID: uid, Content: req.Content})
	track("create", err)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.NoteFromDomain(n))
}

// Update handles PUT /api/notes/{id}. Content is validated by the
// service after the ownership lookup, so an unknown id is a 404 even
// when the body is empty.
func (h *NotesHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := caller(w, r)
	if !ok {
		return
	}

	var req dto.NoteRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	n, err := h.svc.Update(r.Context(), notes.UpdateCmd{
		ActorID: uid,
		NoteID:  noteID(r),
		Content: req.Content,
	})
	track("update", err)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.NoteFromDomain(n))
}

// Delete handles DELETE /api/notes/{id}.
func (h *NotesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := caller(w, r)
	if !ok {
		return
	}

	err := h.svc.Delete(r.Context(), uid, noteID(r))
	track("delete", err)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, response.Message{Message: "Note deleted"})
}
