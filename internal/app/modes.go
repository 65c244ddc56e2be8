package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

// ScanMode runs one trade scan over the configured block window, prints the
// classified trades, and optionally archives the batch.
func (a *App) ScanMode(ctx context.Context, deps *Dependencies) error {
	from, to, err := a.blockWindow(ctx, deps)
	if err != nil {
		return err
	}

	trades, err := deps.Scanner.ScanTrades(ctx, from, to)
	if err != nil {
		return fmt.Errorf("scan mode: %w", err)
	}

	if err := emitJSON(trades); err != nil {
		return err
	}

	if a.cfg.Scan.Archive && deps.Archiver != nil {
		if err := deps.Archiver.ArchiveTrades(ctx, trades, from, to); err != nil {
			return fmt.Errorf("scan mode: %w", err)
		}
	}

	a.storeWarmCache(ctx, deps)
	return nil
}

// TxMode decodes and classifies the fills of one transaction.
func (a *App) TxMode(ctx context.Context, deps *Dependencies) error {
	trades, err := deps.Scanner.TradesFromTx(ctx, common.HexToHash(a.cfg.Scan.TxHash))
	if err != nil {
		return fmt.Errorf("tx mode: %w", err)
	}

	if err := emitJSON(trades); err != nil {
		return err
	}

	a.storeWarmCache(ctx, deps)
	return nil
}

// MarketMode derives the market prepared in one transaction.
func (a *App) MarketMode(ctx context.Context, deps *Dependencies) error {
	info, err := deps.Scanner.MarketFromTx(ctx, common.HexToHash(a.cfg.Scan.TxHash))
	if err != nil {
		return fmt.Errorf("market mode: %w", err)
	}
	return emitJSON(info)
}

// MarketsMode scans the configured block window for prepared markets.
func (a *App) MarketsMode(ctx context.Context, deps *Dependencies) error {
	from, to, err := a.blockWindow(ctx, deps)
	if err != nil {
		return err
	}

	markets, err := deps.Scanner.ScanMarkets(ctx, from, to)
	if err != nil {
		return fmt.Errorf("markets mode: %w", err)
	}

	if err := emitJSON(markets); err != nil {
		return err
	}

	if a.cfg.Scan.Archive && deps.Archiver != nil {
		if err := deps.Archiver.ArchiveMarkets(ctx, markets, from, to); err != nil {
			return fmt.Errorf("markets mode: %w", err)
		}
	}
	return nil
}

// ConditionMode looks a market up by its condition id.
func (a *App) ConditionMode(ctx context.Context, deps *Dependencies) error {
	info, err := deps.Scanner.MarketByConditionID(ctx,
		common.HexToHash(a.cfg.Scan.ConditionID), a.cfg.Scan.FromBlock)
	if err != nil {
		return fmt.Errorf("condition mode: %w", err)
	}
	return emitJSON(info)
}

// ScrapeMode runs the trade and market scans continuously, following the
// chain head at the configured interval. Each loop keeps its own block
// cursor; the trade loop also owns the process decimals cache, so the two
// never share Scanner state.
func (a *App) ScrapeMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting scrape mode",
		slog.Duration("interval", a.cfg.Scan.Interval.Duration),
		slog.Uint64("block_range", a.cfg.Scan.BlockRange),
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.scrapeLoop(ctx, deps, "trades", func(ctx context.Context, from, to uint64) error {
			trades, err := deps.Scanner.ScanTrades(ctx, from, to)
			if err != nil {
				return err
			}
			if err := emitJSON(trades); err != nil {
				return err
			}
			if a.cfg.Scan.Archive && deps.Archiver != nil {
				if err := deps.Archiver.ArchiveTrades(ctx, trades, from, to); err != nil {
					return err
				}
			}
			a.storeWarmCache(ctx, deps)
			return nil
		})
	})

	g.Go(func() error {
		return a.scrapeLoop(ctx, deps, "markets", func(ctx context.Context, from, to uint64) error {
			markets, err := deps.Scanner.ScanMarkets(ctx, from, to)
			if err != nil {
				return err
			}
			if err := emitJSON(markets); err != nil {
				return err
			}
			if a.cfg.Scan.Archive && deps.Archiver != nil {
				return deps.Archiver.ArchiveMarkets(ctx, markets, from, to)
			}
			return nil
		})
	})

	return g.Wait()
}

// scrapeLoop advances a block cursor toward the chain head, invoking scan for
// each window. Failed windows are retried on the next tick without advancing
// the cursor.
func (a *App) scrapeLoop(ctx context.Context, deps *Dependencies, name string, scan func(ctx context.Context, from, to uint64) error) error {
	logger := a.logger.With(slog.String("loop", name))

	cursor := a.cfg.Scan.FromBlock
	if cursor == 0 {
		head, err := deps.Chain.BlockNumber(ctx)
		if err != nil {
			return fmt.Errorf("scrape %s: chain head: %w", name, err)
		}
		cursor = head
	}

	ticker := time.NewTicker(a.cfg.Scan.Interval.Duration)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		head, err := deps.Chain.BlockNumber(ctx)
		if err != nil {
			logger.WarnContext(ctx, "chain head fetch failed", slog.String("error", err.Error()))
			continue
		}
		if head < cursor {
			continue
		}

		to := cursor + a.cfg.Scan.BlockRange - 1
		if to > head {
			to = head
		}

		if err := scan(ctx, cursor, to); err != nil {
			logger.WarnContext(ctx, "scrape window failed, will retry",
				slog.Uint64("from", cursor),
				slog.Uint64("to", to),
				slog.String("error", err.Error()),
			)
			continue
		}

		logger.InfoContext(ctx, "window scraped",
			slog.Uint64("from", cursor),
			slog.Uint64("to", to),
		)
		cursor = to + 1
	}
}

// blockWindow computes [from, to] for the range modes. A zero from_block
// anchors the window at the current head minus the range.
func (a *App) blockWindow(ctx context.Context, deps *Dependencies) (uint64, uint64, error) {
	from := a.cfg.Scan.FromBlock
	if from == 0 {
		head, err := deps.Chain.BlockNumber(ctx)
		if err != nil {
			return 0, 0, fmt.Errorf("app: chain head: %w", err)
		}
		if head > a.cfg.Scan.BlockRange {
			from = head - a.cfg.Scan.BlockRange + 1
		}
		return from, head, nil
	}
	return from, from + a.cfg.Scan.BlockRange - 1, nil
}

// storeWarmCache writes the scanner's decimals snapshot back to the warm
// cache. Failures are logged and otherwise ignored.
func (a *App) storeWarmCache(ctx context.Context, deps *Dependencies) {
	if deps.WarmCache == nil {
		return
	}
	snapshot := deps.Scanner.DecimalsSnapshot()
	if len(snapshot) == 0 {
		return
	}
	if err := deps.WarmCache.Store(ctx, snapshot); err != nil {
		a.logger.WarnContext(ctx, "warm cache store failed",
			slog.String("error", err.Error()),
		)
	}
}

// emitJSON prints v to stdout as indented JSON. Results go to stdout; logs go
// to stderr.
func emitJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("app: encode output: %w", err)
	}
	return nil
}
