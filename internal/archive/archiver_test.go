package archive

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/polyscan/internal/domain"
)

type fakeBlob struct {
	paths        []string
	contentTypes []string
	bodies       [][]byte
	multipart    int
}

func (f *fakeBlob) Put(_ context.Context, path string, data io.Reader, contentType string) error {
	body, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.paths = append(f.paths, path)
	f.contentTypes = append(f.contentTypes, contentType)
	f.bodies = append(f.bodies, body)
	return nil
}

func (f *fakeBlob) PutMultipart(_ context.Context, path string, data io.Reader, _ int64) error {
	body, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.multipart++
	f.paths = append(f.paths, path)
	f.bodies = append(f.bodies, body)
	return nil
}

func newTestArchiver(blob domain.BlobWriter) *Archiver {
	a := New(blob, slog.New(slog.NewTextHandler(io.Discard, nil)))
	a.now = func() time.Time { return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC) }
	return a
}

func TestArchiveTrades(t *testing.T) {
	blob := &fakeBlob{}
	a := newTestArchiver(blob)

	trades := []domain.TradeRecord{
		{TxHash: "0x01", Side: domain.SideBuy, Price: "0.500000"},
		{TxHash: "0x02", Side: domain.SideSell, Price: "0.400000"},
	}
	require.NoError(t, a.ArchiveTrades(context.Background(), trades, 100, 200))

	require.Len(t, blob.paths, 1)
	assert.Regexp(t, `^scans/trades/2026-08-31/run-[0-9a-f-]{36}-100-200\.jsonl$`, blob.paths[0])
	assert.Equal(t, "application/x-ndjson", blob.contentTypes[0])
	assert.Zero(t, blob.multipart)

	// One JSON object per line, field names as published.
	sc := bufio.NewScanner(bytes.NewReader(blob.bodies[0]))
	var lines []map[string]any
	for sc.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		lines = append(lines, m)
	}
	require.Len(t, lines, 2)
	assert.Equal(t, "0x01", lines[0]["txHash"])
	assert.Equal(t, "BUY", lines[0]["side"])
	assert.Equal(t, "0.400000", lines[1]["price"])
}

func TestArchiveSkipsEmptyBatches(t *testing.T) {
	blob := &fakeBlob{}
	a := newTestArchiver(blob)

	require.NoError(t, a.ArchiveTrades(context.Background(), nil, 100, 200))
	require.NoError(t, a.ArchiveMarkets(context.Background(), nil, 100, 200))
	assert.Empty(t, blob.paths)
}

func TestArchiveMarkets(t *testing.T) {
	blob := &fakeBlob{}
	a := newTestArchiver(blob)

	markets := []domain.MarketInfo{{ConditionID: "0xaa", OutcomeSlotCount: 2}}
	require.NoError(t, a.ArchiveMarkets(context.Background(), markets, 5, 6))

	require.Len(t, blob.paths, 1)
	assert.Regexp(t, `^scans/markets/2026-08-31/`, blob.paths[0])

	var m map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(blob.bodies[0]), &m))
	assert.Equal(t, "0xaa", m["conditionId"])
	assert.Equal(t, float64(2), m["outcomeSlotCount"])
}
