package domain

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// DecimalsWarmCache persists resolved token decimals across runs so a new scan
// batch can start with a pre-populated cache instead of re-probing the chain.
// In-batch ownership of the working cache stays with the resolver; this
// interface is only consulted before a batch starts and after it completes.
type DecimalsWarmCache interface {
	Load(ctx context.Context) (map[common.Address]uint32, error)
	Store(ctx context.Context, decimals map[common.Address]uint32) error
}
