package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/baechuer/notepad-service/internal/bootstrap"
	"github.com/baechuer/notepad-service/internal/config"
	"github.com/baechuer/notepad-service/internal/logger"
)

const defaultShutdownTimeout = 15 * time.Second

// httpServer is the part of *http.Server that Run drives.
type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
	Close() error
	Addr() string
}

type realServer struct{ *http.Server }

func (r realServer) Addr() string { return r.Server.Addr }

// serverBuilder builds the server and returns a cleanup function.
type serverBuilder func() (httpServer, func(), error)

// Run serves until a signal or a listener failure and returns the exit code.
func Run(build serverBuilder, sigCh <-chan os.Signal, lg zerolog.Logger, shutdownTimeout time.Duration) int {
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}

	srv, cleanup, err := build()
	if err != nil {
		lg.Error().Err(err).Msg("bootstrap failed")
		return 1
	}
	defer cleanup()

	errCh := make(chan error, 1)
	go func() {
		lg.Info().Str("addr", srv.Addr()).Msg("notepad api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case sig := <-sigCh:
		lg.Info().Str("signal", sig.String()).Dur("grace", shutdownTimeout).Msg("shutting down")
	case err := <-errCh:
		lg.Error().Err(err).Msg("server crashed")
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// In-flight note writes finish before the store is closed by cleanup.
	if err := srv.Shutdown(ctx); err != nil {
		lg.Error().Err(err).Msg("graceful shutdown failed; closing connections")
		_ = srv.Close()
	}

	lg.Info().Msg("shutdown complete")
	return 0
}

// serviceLogger tags every lifecycle line with the backends this process runs on.
func serviceLogger(base zerolog.Logger, cfg *config.Config) zerolog.Logger {
	cache := "off"
	if cfg.RedisURL != "" {
		cache = "redis"
	}
	events := "noop"
	if cfg.RabbitURL != "" {
		events = "rabbitmq:" + cfg.RabbitExchange
	}
	return base.With().
		Str("env", cfg.AppEnv).
		Str("store", cfg.StoreDriver).
		Str("cache", cache).
		Str("events", events).
		Logger()
}

func buildFromConfig(cfg *config.Config) serverBuilder {
	return func() (httpServer, func(), error) {
		srv, cleanup, err := bootstrap.NewServerFromConfig(cfg)
		if err != nil {
			return nil, nil, err
		}
		return realServer{srv}, cleanup, nil
	}
}

func main() {
	// config first: it loads .env, which may set LOG_LEVEL / LOG_FORMAT
	cfg, err := config.Load()
	logger.Init()
	if err != nil {
		logger.Logger.Error().Err(err).Msg("invalid configuration")
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	code := Run(buildFromConfig(cfg), sigCh, serviceLogger(logger.Logger, cfg), cfg.ShutdownTimeout)
	os.Exit(code)
}
