package scanner

import (
	"context"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"github.com/alanyoungcy/polyscan/internal/ctf"
	"github.com/alanyoungcy/polyscan/internal/domain"
)

// Resolver determines the ERC-20 decimal precision of every asset referenced
// by a batch of fills. A non-zero asset id is either a 160-bit token address
// left-padded into 256 bits, or an opaque ERC-1155 position id that encodes no
// address at all; the two cases cannot be told apart without querying the
// chain, so resolution runs in sequential phases:
//
//  1. collect the distinct candidate addresses (low 160 bits of each id);
//  2. probe each candidate with a static decimals() call; successes are
//     cached by address, failures are left unresolved (never cached);
//  3. mark the owning transaction of every still-unresolved leg;
//  4. fetch each marked receipt and map ERC-20 Transfer values to the
//     emitting contract address within that transaction;
//  5. resolve remaining legs through the value map, probing and caching the
//     mapped address;
//  6. fall back: the zero sentinel id is always collateral decimals, anything
//     else defaults to 18.
//
// Probe and receipt failures inside the phases are swallowed so one bad token
// cannot abort the batch; only the caller's primary fetches are fatal.
type Resolver struct {
	backend ChainBackend
	logger  *slog.Logger

	collateralDecimals uint32
	defaultDecimals    uint32
}

// ResolverConfig carries the two fallback precisions. Zero values select the
// deployment defaults (6 for the collateral stablecoin, 18 otherwise).
type ResolverConfig struct {
	CollateralDecimals uint32
	DefaultDecimals    uint32
}

// NewResolver creates a Resolver over the given backend.
func NewResolver(backend ChainBackend, cfg ResolverConfig, logger *slog.Logger) *Resolver {
	if cfg.CollateralDecimals == 0 {
		cfg.CollateralDecimals = 6
	}
	if cfg.DefaultDecimals == 0 {
		cfg.DefaultDecimals = 18
	}
	return &Resolver{
		backend:            backend,
		logger:             logger.With(slog.String("component", "resolver")),
		collateralDecimals: cfg.CollateralDecimals,
		defaultDecimals:    cfg.DefaultDecimals,
	}
}

// ResolutionContext holds the state built up by one resolution batch: the
// address decimals cache, the per-transaction Transfer value maps, and the
// resolved precision of every leg. It is owned by the resolver while Resolve
// runs and must be treated as read-only afterwards.
type ResolutionContext struct {
	// Decimals maps token address to decimals. Append-only during the batch;
	// entries are never invalidated.
	Decimals map[common.Address]uint32

	// receiptValues maps txHash -> transfer value -> emitting contract. When
	// two transfers in one transaction carry the same value, the last one
	// scanned wins; the mapping is a heuristic and may misattribute in that
	// case. Deliberately not disambiguated further.
	receiptValues map[common.Hash]map[string]common.Address

	legs []legDecimals
}

type legDecimals struct {
	maker uint32
	taker uint32
}

// FillDecimals returns the resolved maker and taker decimals of the i-th fill
// in the batch passed to Resolve.
func (rc *ResolutionContext) FillDecimals(i int) (maker, taker uint32) {
	l := rc.legs[i]
	return l.maker, l.taker
}

// Resolve runs the full phase pipeline over a batch of fills. seed optionally
// pre-populates the decimals cache (e.g. from a previous batch or a warm
// cache); it is copied, never mutated.
func (r *Resolver) Resolve(ctx context.Context, fills []domain.RawFill, seed map[common.Address]uint32) *ResolutionContext {
	rc := &ResolutionContext{
		Decimals:      make(map[common.Address]uint32, len(seed)),
		receiptValues: make(map[common.Hash]map[string]common.Address),
	}
	for addr, dec := range seed {
		rc.Decimals[addr] = dec
	}

	// Phase 1: distinct candidate addresses across the whole batch.
	candidates := make(map[common.Address]struct{})
	for _, f := range fills {
		for _, id := range []*big.Int{f.MakerAssetID, f.TakerAssetID} {
			if id.Sign() != 0 {
				candidates[common.BigToAddress(id)] = struct{}{}
			}
		}
	}

	// Phase 2: direct decimals() probe of each candidate.
	for addr := range candidates {
		if _, ok := rc.Decimals[addr]; ok {
			continue
		}
		if dec, ok := r.probeDecimals(ctx, addr); ok {
			rc.Decimals[addr] = dec
		}
	}

	// Phase 3: mark the owning transaction of every unresolved leg.
	pending := make(map[common.Hash]struct{})
	for _, f := range fills {
		if r.legUnresolved(rc, f.MakerAssetID) || r.legUnresolved(rc, f.TakerAssetID) {
			pending[f.TxHash] = struct{}{}
		}
	}

	// Phase 4: receipt scan, building value -> token address per transaction.
	for tx := range pending {
		receipt, err := r.backend.TransactionReceipt(ctx, tx)
		if err != nil || receipt == nil {
			r.logger.Warn("receipt scan skipped",
				slog.String("tx_hash", tx.Hex()),
				slog.Any("error", err),
			)
			continue
		}

		values := make(map[string]common.Address)
		for _, lg := range receipt.Logs {
			if lg == nil || len(lg.Topics) != 3 || lg.Topics[0] != ctf.ERC20TransferTopic {
				continue
			}
			if len(lg.Data) < 32 {
				continue
			}
			value := new(big.Int).SetBytes(lg.Data[:32])
			// Duplicate values within one transaction: last transfer wins.
			values[value.String()] = lg.Address
		}
		rc.receiptValues[tx] = values
	}

	// Phases 5 and 6: per-leg resolution with receipt lookup and defaults.
	rc.legs = make([]legDecimals, len(fills))
	for i, f := range fills {
		rc.legs[i] = legDecimals{
			maker: r.resolveLeg(ctx, rc, f.TxHash, f.MakerAssetID, f.MakerAmount),
			taker: r.resolveLeg(ctx, rc, f.TxHash, f.TakerAssetID, f.TakerAmount),
		}
	}

	return rc
}

// legUnresolved reports whether a non-zero asset id has no cached decimals
// under its address interpretation.
func (r *Resolver) legUnresolved(rc *ResolutionContext, assetID *big.Int) bool {
	if assetID.Sign() == 0 {
		return false
	}
	_, ok := rc.Decimals[common.BigToAddress(assetID)]
	return !ok
}

// resolveLeg resolves one leg's decimals: sentinel, cached address, receipt
// value map, then default.
func (r *Resolver) resolveLeg(ctx context.Context, rc *ResolutionContext, tx common.Hash, assetID, amount *big.Int) uint32 {
	if assetID.Sign() == 0 {
		return r.collateralDecimals
	}

	if dec, ok := rc.Decimals[common.BigToAddress(assetID)]; ok {
		return dec
	}

	if values, ok := rc.receiptValues[tx]; ok {
		if token, ok := values[amount.String()]; ok {
			if dec, ok := rc.Decimals[token]; ok {
				return dec
			}
			if dec, ok := r.probeDecimals(ctx, token); ok {
				rc.Decimals[token] = dec
				return dec
			}
		}
	}

	return r.defaultDecimals
}

// probeDecimals issues a static decimals() call. A revert, transport error, or
// short return means the address is not a decimals-bearing token; the failure
// is reported as unresolved, never cached and never propagated.
func (r *Resolver) probeDecimals(ctx context.Context, token common.Address) (uint32, bool) {
	msg := ethereum.CallMsg{To: &token, Data: ctf.DecimalsSelector}
	out, err := r.backend.CallContract(ctx, msg, nil)
	if err != nil {
		r.logger.Debug("decimals probe failed",
			slog.String("token", token.Hex()),
			slog.String("error", err.Error()),
		)
		return 0, false
	}
	if len(out) < 32 {
		return 0, false
	}
	return uint32(new(big.Int).SetBytes(out).Uint64()), true
}
