// Package app provides the top-level application lifecycle management for the
// polyscan scanner. It wires together the chain client, the warm decimals
// cache, and the batch archiver, and runs the operation selected by the
// configured mode.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/alanyoungcy/polyscan/internal/config"
)

// App is the root application object. It owns the configuration, logger, and a
// list of cleanup functions that are called in reverse order on shutdown.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	closers []func()
}

// New creates a new App from the given configuration and logger.
func New(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg: cfg,
		logger: logger.With(
			slog.String("component", "app"),
			slog.String("run_id", uuid.NewString()),
		),
	}
}

// Run is the main entry point. It wires all dependencies, runs the configured
// operation, and returns its result. The single-shot modes finish on their
// own; scrape mode blocks until the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.logger.InfoContext(ctx, "starting scanner",
		slog.String("mode", a.cfg.Mode),
		slog.String("log_level", a.cfg.LogLevel),
	)

	deps, cleanup, err := Wire(ctx, a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("app: wire dependencies: %w", err)
	}
	a.closers = append(a.closers, cleanup)

	switch strings.ToLower(a.cfg.Mode) {
	case "scan":
		return a.ScanMode(ctx, deps)
	case "tx":
		return a.TxMode(ctx, deps)
	case "market":
		return a.MarketMode(ctx, deps)
	case "markets":
		return a.MarketsMode(ctx, deps)
	case "condition":
		return a.ConditionMode(ctx, deps)
	case "scrape":
		return a.ScrapeMode(ctx, deps)
	default:
		return fmt.Errorf("app: unsupported mode %q", a.cfg.Mode)
	}
}

// Close tears down all resources in reverse registration order. It is safe to
// call multiple times; subsequent calls are no-ops.
func (a *App) Close() {
	a.logger.Info("shutting down scanner")
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
