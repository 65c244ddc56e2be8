// Package archive persists scan batches to blob storage as JSON Lines, one
// record per line, under date-partitioned keys.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alanyoungcy/polyscan/internal/domain"
)

// multipartThreshold is the encoded batch size above which the upload switches
// to multipart.
const multipartThreshold = 8 * 1024 * 1024

// Archiver writes trade and market batches to a BlobWriter.
type Archiver struct {
	blob   domain.BlobWriter
	logger *slog.Logger
	now    func() time.Time
}

// New creates an Archiver over the given blob backend.
func New(blob domain.BlobWriter, logger *slog.Logger) *Archiver {
	return &Archiver{
		blob:   blob,
		logger: logger.With(slog.String("component", "archiver")),
		now:    time.Now,
	}
}

// ArchiveTrades uploads one scanned trade batch. The object key encodes the
// UTC date, a fresh run id, and the block window, e.g.
// scans/trades/2026-08-31/run-<uuid>-100-200.jsonl.
func (a *Archiver) ArchiveTrades(ctx context.Context, trades []domain.TradeRecord, fromBlock, toBlock uint64) error {
	if len(trades) == 0 {
		return nil
	}

	records := make([]any, len(trades))
	for i, t := range trades {
		records[i] = t
	}
	return a.upload(ctx, "trades", records, fromBlock, toBlock)
}

// ArchiveMarkets uploads one prepared-market batch.
func (a *Archiver) ArchiveMarkets(ctx context.Context, markets []domain.MarketInfo, fromBlock, toBlock uint64) error {
	if len(markets) == 0 {
		return nil
	}

	records := make([]any, len(markets))
	for i, m := range markets {
		records[i] = m
	}
	return a.upload(ctx, "markets", records, fromBlock, toBlock)
}

func (a *Archiver) upload(ctx context.Context, kind string, records []any, fromBlock, toBlock uint64) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("archive: encode %s record: %w", kind, err)
		}
	}

	key := fmt.Sprintf("scans/%s/%s/run-%s-%d-%d.jsonl",
		kind, a.now().UTC().Format("2006-01-02"), uuid.NewString(), fromBlock, toBlock)

	var err error
	if buf.Len() > multipartThreshold {
		err = a.blob.PutMultipart(ctx, key, &buf, multipartThreshold)
	} else {
		err = a.blob.Put(ctx, key, &buf, "application/x-ndjson")
	}
	if err != nil {
		return fmt.Errorf("archive: upload %s: %w", key, err)
	}

	a.logger.Info("batch archived",
		slog.String("key", key),
		slog.Int("records", len(records)),
	)
	return nil
}
