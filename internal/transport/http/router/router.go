package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/baechuer/notepad-service/internal/domain"
	"github.com/baechuer/notepad-service/internal/transport/http/middleware"
	"github.com/baechuer/notepad-service/internal/transport/http/response"
)

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
}

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
}

type NotesHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

// RateLimit configures the per-IP limiter on /api/auth. Zero Limit disables it.
type RateLimit struct {
	Limit  int
	Window time.Duration
}

type Deps struct {
	Health HealthHandler
	Auth   AuthHandler
	Notes  NotesHandler

	AuthMW func(http.Handler) http.Handler

	CORSAllowedOrigins []string
	AuthRateLimit      RateLimit

	// TrustProxyHeaders takes the client IP from X-Forwarded-For / X-Real-IP.
	// Only enable behind a proxy that overwrites them; the auth limiter keys on it.
	TrustProxyHeaders bool

	// Metrics exposes /metrics when non-nil.
	Metrics http.Handler
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("nil Auth handler")
	}
	if deps.Notes == nil {
		return nil, fmt.Errorf("nil Notes handler")
	}
	if deps.AuthMW == nil {
		return nil, fmt.Errorf("nil Auth middleware")
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if deps.TrustProxyHeaders {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.AccessLog)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(middleware.SecurityHeaders)
	r.Use(corsHandler(deps.CORSAllowedOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.WriteError(w, r, domain.New(domain.KindNotFound, "route_not_found", "Not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusMethodNotAllowed, response.ErrorBody{
			Message: "Method not allowed",
			Code:    "method_not_allowed",
		})
	})

	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			if deps.AuthRateLimit.Limit > 0 {
				r.Use(authLimiter(deps.AuthRateLimit))
			}
			r.Post("/register", deps.Auth.Register)
			r.Post("/login", deps.Auth.Login)
		})

		r.Route("/notes", func(r chi.Router) {
			r.Use(deps.AuthMW)
			r.Get("/", deps.Notes.List)
			r.Post("/", deps.Notes.Create)
			r.Put("/{id}", deps.Notes.Update)
			r.Delete("/{id}", deps.Notes.Delete)
		})
	})

	return r, nil
}

// MetricsHandler is the default /metrics exposition.
func MetricsHandler() http.Handler { return promhttp.Handler() }

func corsHandler(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.HeaderXRequestID},
		ExposedHeaders: []string{middleware.HeaderXRequestID},
		MaxAge:         300,
	})
}

func authLimiter(rl RateLimit) func(http.Handler) http.Handler {
	window := rl.Window
	if window <= 0 {
		window = time.Minute
	}
	return httprate.Limit(
		rl.Limit,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			response.WriteError(w, r, domain.ErrRateLimited("auth"))
		}),
	)
}
