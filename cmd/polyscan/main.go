// Command polyscan is the entry point for the on-chain event scanner. It loads
// configuration, validates it, wires dependencies, sets up signal handling,
// and runs the configured operation. Scan results are printed to stdout as
// JSON; structured logs go to stderr.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alanyoungcy/polyscan/internal/app"
	"github.com/alanyoungcy/polyscan/internal/config"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (optional)")
	mode := flag.String("mode", "", "operation: scan, tx, market, markets, condition, scrape")
	fromBlock := flag.Uint64("from", 0, "first block of the scan window")
	blockRange := flag.Uint64("range", 0, "scan window size in blocks")
	txHash := flag.String("tx", "", "transaction hash for tx and market modes")
	conditionID := flag.String("condition", "", "condition id for condition mode")
	flag.Parse()

	// Setup structured JSON logger on stderr; stdout carries scan output.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration.
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config",
			slog.String("path", *configPath),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// Flags override file and environment.
	if *mode != "" {
		cfg.Mode = *mode
	}
	if *fromBlock != 0 {
		cfg.Scan.FromBlock = *fromBlock
	}
	if *blockRange != 0 {
		cfg.Scan.BlockRange = *blockRange
	}
	if *txHash != "" {
		cfg.Scan.TxHash = *txHash
	}
	if *conditionID != "" {
		cfg.Scan.ConditionID = *conditionID
	}

	// Set log level from config.
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// Validate configuration.
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("polyscan starting",
		slog.String("mode", cfg.Mode),
		slog.String("rpc_url", cfg.Chain.RPCURL),
	)

	application := app.New(cfg, logger)
	defer application.Close()

	// Setup signal handling for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		// context.Canceled is expected on clean shutdown of scrape mode.
		if errors.Is(err, context.Canceled) {
			logger.Info("scanner shut down gracefully")
		} else {
			logger.Error("scanner exited with error",
				slog.String("error", err.Error()),
			)
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
			os.Exit(1)
		}
	}

	logger.Info("polyscan stopped")
}
