package http_handlers

import (
	"context"
	"net/http"

	"github.com/baechuer/notepad-service/internal/application/auth"
	"github.com/baechuer/notepad-service/internal/domain"
	"github.com/baechuer/notepad-service/internal/logger"
	"github.com/baechuer/notepad-service/internal/transport/http/dto"
	"github.com/baechuer/notepad-service/internal/transport/http/middleware"
	"github.com/baechuer/notepad-service/internal/transport/http/response"
)

type AuthService interface {
	Register(ctx context.Context, cmd auth.RegisterCmd) (domain.User, error)
	Login(ctx context.Context, email, password string) (auth.LoginResult, error)
}

type AuthHandler struct {
	svc AuthService
}

func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register handles POST /api/auth/register. No token is issued here.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	u, err := h.svc.Register(r.Context(), auth.RegisterCmd{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", u.ID).
		Msg("user_registered")

	response.OK(w, response.Message{Message: "User registered successfully"})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		middleware.LoginAttemptsTotal.WithLabelValues(loginStatus(err)).Inc()
		response.WriteError(w, r, err)
		return
	}
	middleware.LoginAttemptsTotal.WithLabelValues("success").Inc()

	logger.WithCtx(r.Context()).Info().
		Str("user_id", res.User.ID).
		Msg("user_logged_in")

	response.OK(w, dto.LoginResponse{Token: res.Token, UserID: res.User.ID})
}

func loginStatus(err error) string {
	switch {
	case domain.Is(err, "user_not_found"):
		return "user_not_found"
	case domain.Is(err, "invalid_credentials"):
		return "invalid_credentials"
	case domain.KindOf(err) == domain.KindValidation:
		return "invalid_request"
	default:
		return "error"
	}
}
