package bootstrap

import (
	"context"
	"net/http"
	"time"

	"github.com/baechuer/notepad-service/internal/application/auth"
	"github.com/baechuer/notepad-service/internal/application/notes"
	"github.com/baechuer/notepad-service/internal/config"
	"github.com/baechuer/notepad-service/internal/infrastructure/memory"
	rabbitmq_pub "github.com/baechuer/notepad-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/baechuer/notepad-service/internal/infrastructure/redis"
	"github.com/baechuer/notepad-service/internal/infrastructure/security"
	"github.com/baechuer/notepad-service/internal/logger"
	http_handlers "github.com/baechuer/notepad-service/internal/transport/http/handlers"
	"github.com/baechuer/notepad-service/internal/transport/http/middleware"
	"github.com/baechuer/notepad-service/internal/transport/http/response"
	"github.com/baechuer/notepad-service/internal/transport/http/router"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerFromConfig builds the production graph from an already loaded config.
func NewServerFromConfig(cfg *config.Config) (*http.Server, func(), error) {
	deps := defaultDeps()
	deps.LoadConfig = func() (*config.Config, error) { return cfg, nil }
	return newServer(deps)
}

// NewServerWithDeps allows injecting dependencies for testing
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	OpenStore func(ctx context.Context, cfg *config.Config) (*Store, error)

	NewRedis func(url string) (RedisClient, error)

	NewPublisher func(url, exchange string) (Publisher, error)

	NewRouter func(router.Deps) (http.Handler, error)
}

type RedisClient interface {
	redis.Cache
	Close() error
}

// Publisher carries both account and note lifecycle events.
type Publisher interface {
	auth.EventPublisher
	notes.EventPublisher
}

type sysClock struct{}

func (sysClock) Now() time.Time { return time.Now().UTC() }

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	logger.Logger.Info().
		Str("env", cfg.AppEnv).
		Str("store", cfg.StoreDriver).
		Str("addr", cfg.HTTPAddr).
		Msg("config loaded")

	// 1) store
	store, err := deps.OpenStore(context.Background(), cfg)
	if err != nil {
		return nil, nil, err
	}

	cleanupFns := []func(){store.Close}

	// 2) redis (best-effort)
	var noteRepo notes.NoteRepo = store.Notes
	if cfg.RedisURL != "" && deps.NewRedis != nil {
		c, err := deps.NewRedis(cfg.RedisURL)
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; notes cache disabled")
		} else {
			logger.Logger.Info().Msg("redis connected")
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
			noteRepo = redis.NewCachedNoteRepo(store.Notes, c, cfg.NotesCacheTTL)
		}
	}

	// 3) publisher
	var pub Publisher = memory.NewNoopPublisher()
	if cfg.RabbitURL != "" && deps.NewPublisher != nil {
		p, err := deps.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			if !cfg.IsDev() {
				runCleanup(cleanupFns)
				return nil, nil, err
			}
			logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; using noop publisher")
		} else {
			pub = p
			if c, ok := p.(interface{ Close() error }); ok {
				cleanupFns = append(cleanupFns, func() { _ = c.Close() })
			}
		}
	}

	// 4) security
	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	signer := security.NewJWTSigner(cfg.JWTSecret, cfg.JWTIssuer)

	// 5) services
	authSvc := auth.NewService(
		store.Users,
		hasher,
		signer,
		pub,
		auth.Config{TokenTTL: cfg.TokenTTL},
	)
	authSvc = authSvc.WithAudit(func(action string, fields map[string]string) {
		evt := logger.Logger.Info().
			Bool("audit", true).
			Str("action", action)
		for k, v := range fields {
			evt = evt.Str(k, v)
		}
		evt.Msg("audit")
	})

	notesSvc := notes.New(noteRepo, store.Users, sysClock{}, pub)

	// 6) handlers + middleware
	rlimit := router.RateLimit{}
	if cfg.RLEnabled {
		rlimit = router.RateLimit{Limit: cfg.RLAuthLimit, Window: cfg.RLWindow}
	}

	mux, err := deps.NewRouter(router.Deps{
		Health: http_handlers.NewHealthHandler(store.Ping),
		Auth:   http_handlers.NewAuthHandler(authSvc),
		Notes:  http_handlers.NewNotesHandler(notesSvc),

		AuthMW: middleware.Auth(signer, response.WriteError),

		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		AuthRateLimit:      rlimit,
		TrustProxyHeaders:  cfg.TrustProxyHeaders,
		Metrics:            router.MetricsHandler(),
	})
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 7) server
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadTimeout:       cfg.HTTPReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		OpenStore:  openStore,
		NewRedis: func(url string) (RedisClient, error) {
			return redis.New(url)
		},
		NewPublisher: func(url, exchange string) (Publisher, error) {
			return rabbitmq_pub.NewPublisher(url, exchange)
		},
		NewRouter: func(d router.Deps) (http.Handler, error) {
			return router.New(d)
		},
	}
}

/*
========================
 helpers
========================
*/

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
