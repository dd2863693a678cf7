package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/agri-advisor/internal/infra/config"
)

const minShutdownGrace = 10 * time.Second

// App owns the advisory API server lifecycle.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	server *http.Server
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), server: server}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("agri advisor api starting",
			"address", a.cfg.HTTP.Address,
			"model", a.cfg.LLM.Model,
			"fallbackEnabled", a.cfg.Advisory.FallbackEnabled,
			"rateLimit", a.cfg.HTTP.RateLimit.Enabled,
			"photoStorage", storageMode(a.cfg.Storage),
		)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		// an advisory call may hold a request open for the whole completion deadline
		grace := a.cfg.LLM.RequestTimeout
		if grace < minShutdownGrace {
			grace = minShutdownGrace
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		a.logger.Info("shutdown signal received", "grace", grace.String())
		return a.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func storageMode(cfg config.StorageConfig) string {
	if cfg.Endpoint == "" {
		return "memory"
	}
	return "s3"
}
