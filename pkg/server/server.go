package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config contains tunables for the HTTP server.
type Config struct {
	Address      string
	CORSOrigin   string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig mirrors the timeouts used in production. Insight generation
// can be slow, so writes get generous headroom.
func DefaultConfig(addr string) Config {
	return Config{
		Address:      addr,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewMux returns the full API handler including /metrics and middleware.
func NewMux(svc *Service, corsOrigin string, log *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	NewHandler(svc).RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())
	return chain(mux, withRequestID, withLogging(log), withCORS(corsOrigin))
}

// New creates the *http.Server for svc.
func New(cfg Config, svc *Service, log *slog.Logger) *http.Server {
	return &http.Server{
		Addr:         cfg.Address,
		Handler:      NewMux(svc, cfg.CORSOrigin, log),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, srv *http.Server, log *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "err", err)
		return err
	}
	return nil
}
