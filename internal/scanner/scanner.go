// Package scanner implements the event decoding and token-identity resolution
// pipeline for the Polymarket CTF Exchange and Conditional Tokens contracts:
// raw logs are decoded into fills, asset decimals are resolved in sequential
// phases, and fills are classified into output trade records. Prepared-market
// logs flow through a separate path that derives the YES/NO token ids.
package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/alanyoungcy/polyscan/internal/ctf"
	"github.com/alanyoungcy/polyscan/internal/domain"
)

// Config identifies the deployment a Scanner works against.
type Config struct {
	// Exchange is the CTF Exchange contract emitting OrderFilled.
	Exchange common.Address
	// CTF is the Conditional Tokens contract emitting ConditionPreparation.
	CTF common.Address
	// Collateral is the stablecoin used as collateral for every market.
	Collateral common.Address
	// CollateralDecimals is the precision of the collateral token.
	CollateralDecimals uint32
	// DefaultDecimals is the fallback precision for unresolvable assets.
	DefaultDecimals uint32
}

// Scanner runs point-in-time queries over the chain and turns the results
// into trade and market records. It keeps a process-scoped decimals cache
// that seeds every resolution batch; the cache is only touched between
// batches, so no locking is needed as long as trade scans are sequential.
type Scanner struct {
	backend  ChainBackend
	resolver *Resolver
	cfg      Config
	logger   *slog.Logger

	decimals map[common.Address]uint32
}

// New creates a Scanner. seed optionally pre-populates the decimals cache,
// e.g. from a warm cache persisted by a previous run.
func New(backend ChainBackend, cfg Config, seed map[common.Address]uint32, logger *slog.Logger) *Scanner {
	decimals := make(map[common.Address]uint32, len(seed))
	for addr, dec := range seed {
		decimals[addr] = dec
	}
	return &Scanner{
		backend: backend,
		resolver: NewResolver(backend, ResolverConfig{
			CollateralDecimals: cfg.CollateralDecimals,
			DefaultDecimals:    cfg.DefaultDecimals,
		}, logger),
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "scanner")),
		decimals: decimals,
	}
}

// ScanTrades fetches and classifies every OrderFilled event emitted by the
// exchange in [fromBlock, toBlock]. A failure of the log range query is fatal.
func (s *Scanner) ScanTrades(ctx context.Context, fromBlock, toBlock uint64) ([]domain.TradeRecord, error) {
	q := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		ToBlock:   new(big.Int).SetUint64(toBlock),
		Addresses: []common.Address{s.cfg.Exchange},
		Topics:    [][]common.Hash{{ctf.OrderFilledTopic}},
	}

	logs, err := s.backend.FilterLogs(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("scanner: fetch logs %d-%d: %w", fromBlock, toBlock, err)
	}

	return s.processLogs(ctx, logs), nil
}

// TradesFromTx decodes and classifies the OrderFilled events of a single
// transaction. The receipt fetch is a primary operation: transport failures
// and missing receipts are returned to the caller.
func (s *Scanner) TradesFromTx(ctx context.Context, txHash common.Hash) ([]domain.TradeRecord, error) {
	receipt, err := s.backend.TransactionReceipt(ctx, txHash)
	if err != nil {
		return nil, fmt.Errorf("scanner: fetch receipt %s: %w", txHash.Hex(), err)
	}
	if receipt == nil {
		return nil, fmt.Errorf("scanner: %s: %w", txHash.Hex(), domain.ErrReceiptNotFound)
	}

	// The filter is deliberately broad: anything emitted by the exchange is
	// handed to the decoder, which drops what it cannot decode.
	var logs []types.Log
	for _, lg := range receipt.Logs {
		if lg == nil || lg.Address != s.cfg.Exchange || len(lg.Topics) == 0 {
			continue
		}
		logs = append(logs, *lg)
	}

	return s.processLogs(ctx, logs), nil
}

// MarketFromTx finds the first ConditionPreparation event in a transaction and
// derives its MarketInfo, trusting the recomputed condition id.
func (s *Scanner) MarketFromTx(ctx context.Context, txHash common.Hash) (domain.MarketInfo, error) {
	receipt, err := s.backend.TransactionReceipt(ctx, txHash)
	if err != nil {
		return domain.MarketInfo{}, fmt.Errorf("scanner: fetch receipt %s: %w", txHash.Hex(), err)
	}
	if receipt == nil {
		return domain.MarketInfo{}, fmt.Errorf("scanner: %s: %w", txHash.Hex(), domain.ErrReceiptNotFound)
	}

	for _, lg := range receipt.Logs {
		if lg == nil || len(lg.Topics) == 0 || lg.Topics[0] != ctf.ConditionPreparationTopic {
			continue
		}
		rec, ok := DecodeConditionPreparation(*lg)
		if !ok {
			continue
		}
		return BuildMarketInfo(rec, s.cfg.Collateral, TrustDerived, s.logger), nil
	}

	return domain.MarketInfo{}, fmt.Errorf("scanner: %s: %w", txHash.Hex(), domain.ErrMarketNotFound)
}

// MarketByConditionID looks a market up by its condition id via a topic1
// filter against the CTF contract, starting at fromBlock. The reported id is
// the caller-supplied one even when the recomputation disagrees; derived
// token ids always come from the recomputed value.
func (s *Scanner) MarketByConditionID(ctx context.Context, conditionID common.Hash, fromBlock uint64) (domain.MarketInfo, error) {
	q := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		Addresses: []common.Address{s.cfg.CTF},
		Topics: [][]common.Hash{
			{ctf.ConditionPreparationTopic},
			{conditionID},
		},
	}

	logs, err := s.backend.FilterLogs(ctx, q)
	if err != nil {
		return domain.MarketInfo{}, fmt.Errorf("scanner: fetch condition %s: %w", conditionID.Hex(), err)
	}

	for _, lg := range logs {
		rec, ok := DecodeConditionPreparation(lg)
		if !ok {
			continue
		}
		return BuildMarketInfo(rec, s.cfg.Collateral, TrustLogged, s.logger), nil
	}

	return domain.MarketInfo{}, fmt.Errorf("scanner: condition %s: %w", conditionID.Hex(), domain.ErrMarketNotFound)
}

// ScanMarkets fetches every ConditionPreparation event in [fromBlock, toBlock]
// and derives a MarketInfo for each, trusting the recomputed condition ids.
func (s *Scanner) ScanMarkets(ctx context.Context, fromBlock, toBlock uint64) ([]domain.MarketInfo, error) {
	q := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		ToBlock:   new(big.Int).SetUint64(toBlock),
		Addresses: []common.Address{s.cfg.CTF},
		Topics:    [][]common.Hash{{ctf.ConditionPreparationTopic}},
	}

	logs, err := s.backend.FilterLogs(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("scanner: fetch markets %d-%d: %w", fromBlock, toBlock, err)
	}

	markets := make([]domain.MarketInfo, 0, len(logs))
	for _, lg := range logs {
		rec, ok := DecodeConditionPreparation(lg)
		if !ok {
			continue
		}
		markets = append(markets, BuildMarketInfo(rec, s.cfg.Collateral, TrustDerived, s.logger))
	}

	return markets, nil
}

// DecimalsSnapshot returns a copy of the process-scoped decimals cache, for
// persisting to a warm cache after a batch.
func (s *Scanner) DecimalsSnapshot() map[common.Address]uint32 {
	out := make(map[common.Address]uint32, len(s.decimals))
	for addr, dec := range s.decimals {
		out[addr] = dec
	}
	return out
}

// processLogs decodes a batch of logs, resolves decimals for every leg, and
// classifies each fill. Undecodable logs are dropped without error.
func (s *Scanner) processLogs(ctx context.Context, logs []types.Log) []domain.TradeRecord {
	fills := make([]domain.RawFill, 0, len(logs))
	for _, lg := range logs {
		fill, ok := DecodeOrderFilled(lg)
		if !ok {
			continue
		}
		fills = append(fills, fill)
	}
	if len(fills) == 0 {
		return nil
	}

	rc := s.resolver.Resolve(ctx, fills, s.decimals)
	s.decimals = rc.Decimals

	trades := make([]domain.TradeRecord, 0, len(fills))
	for i, fill := range fills {
		makerDec, takerDec := rc.FillDecimals(i)
		trades = append(trades, Classify(fill, makerDec, takerDec))
	}

	s.logger.Info("fills classified",
		slog.Int("logs", len(logs)),
		slog.Int("trades", len(trades)),
	)

	return trades
}
