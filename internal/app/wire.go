package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"

	"github.com/alanyoungcy/polyscan/internal/archive"
	s3blob "github.com/alanyoungcy/polyscan/internal/blob/s3"
	"github.com/alanyoungcy/polyscan/internal/cache/redis"
	"github.com/alanyoungcy/polyscan/internal/config"
	"github.com/alanyoungcy/polyscan/internal/domain"
	"github.com/alanyoungcy/polyscan/internal/platform/polygon"
	"github.com/alanyoungcy/polyscan/internal/scanner"
)

// Dependencies bundles everything the application modes need to operate. It is
// constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	Chain   *polygon.Client
	Scanner *scanner.Scanner

	// WarmCache persists decimals across runs; nil when redis is disabled.
	WarmCache domain.DecimalsWarmCache

	// Archiver uploads scan batches; nil when s3 is disabled.
	Archiver *archive.Archiver
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- Chain RPC ---
	chain, err := polygon.Dial(ctx, cfg.Chain.RPCURL)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: chain: %w", err)
	}
	closers = append(closers, chain.Close)
	deps.Chain = chain

	// --- Warm decimals cache (optional) ---
	var seed map[common.Address]uint32
	if cfg.Redis.Enabled {
		cache, err := redis.New(ctx, redis.Config{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = cache.Close() })
		deps.WarmCache = cache

		seed, err = cache.Load(ctx)
		if err != nil {
			// A cold start is acceptable; the resolver re-probes on demand.
			logger.Warn("warm cache load failed, starting cold",
				slog.String("error", err.Error()),
			)
		} else if len(seed) > 0 {
			logger.Info("warm cache loaded", slog.Int("tokens", len(seed)))
		}
	}

	// --- Blob archiver (optional) ---
	if cfg.S3.Enabled {
		store, err := s3blob.New(ctx, s3blob.StoreConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}
		deps.Archiver = archive.New(store, logger)
	}

	deps.Scanner = scanner.New(chain, scanner.Config{
		Exchange:           common.HexToAddress(cfg.Chain.ExchangeAddress),
		CTF:                common.HexToAddress(cfg.Chain.CTFAddress),
		Collateral:         common.HexToAddress(cfg.Chain.CollateralAddress),
		CollateralDecimals: uint32(cfg.Chain.CollateralDecimals),
		DefaultDecimals:    uint32(cfg.Chain.DefaultDecimals),
	}, seed, logger)

	return deps, cleanup, nil
}
