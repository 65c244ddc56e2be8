package scanner

import (
	"context"
	"io"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/alanyoungcy/polyscan/internal/ctf"
)

// fakeBackend is a scripted ChainBackend. Log queries return the configured
// slice, receipts come from a map keyed by tx hash (absent means not found),
// and decimals() calls answer per token address while counting invocations.
type fakeBackend struct {
	logs      []types.Log
	filterErr error
	lastQuery ethereum.FilterQuery

	receipts   map[common.Hash]*types.Receipt
	receiptErr error

	decimals  map[common.Address][]byte
	callErrs  map[common.Address]error
	callCount map[common.Address]int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		receipts:  make(map[common.Hash]*types.Receipt),
		decimals:  make(map[common.Address][]byte),
		callErrs:  make(map[common.Address]error),
		callCount: make(map[common.Address]int),
	}
}

func (f *fakeBackend) FilterLogs(_ context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	f.lastQuery = q
	if f.filterErr != nil {
		return nil, f.filterErr
	}
	return f.logs, nil
}

func (f *fakeBackend) TransactionReceipt(_ context.Context, txHash common.Hash) (*types.Receipt, error) {
	if f.receiptErr != nil {
		return nil, f.receiptErr
	}
	return f.receipts[txHash], nil
}

func (f *fakeBackend) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.callCount[*msg.To]++
	if err := f.callErrs[*msg.To]; err != nil {
		return nil, err
	}
	return f.decimals[*msg.To], nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func word32(n *big.Int) []byte {
	out := make([]byte, 32)
	b := n.Bytes()
	copy(out[32-len(b):], b)
	return out
}

func decimalsWord(n uint32) []byte {
	return word32(big.NewInt(int64(n)))
}

func orderFilledLog(exchange common.Address, tx common.Hash, idx uint, maker, taker common.Address, makerAssetID, takerAssetID, makerAmt, takerAmt *big.Int) types.Log {
	data := make([]byte, 0, 5*32)
	for _, w := range []*big.Int{makerAssetID, takerAssetID, makerAmt, takerAmt} {
		data = append(data, word32(w)...)
	}
	// Trailing fee word, present on chain and ignored by the decoder.
	data = append(data, word32(big.NewInt(0))...)

	return types.Log{
		Address: exchange,
		Topics: []common.Hash{
			ctf.OrderFilledTopic,
			common.HexToHash("0x01"), // orderHash, unused
			common.BytesToHash(maker.Bytes()),
			common.BytesToHash(taker.Bytes()),
		},
		Data:        data,
		TxHash:      tx,
		Index:       idx,
		BlockNumber: 50_000_000,
	}
}

func conditionLog(ctfAddr common.Address, condID common.Hash, oracle common.Address, questionID common.Hash, slots int64) types.Log {
	return types.Log{
		Address: ctfAddr,
		Topics: []common.Hash{
			ctf.ConditionPreparationTopic,
			condID,
			common.BytesToHash(oracle.Bytes()),
			questionID,
		},
		Data:        word32(big.NewInt(slots)),
		TxHash:      common.HexToHash("0xbeef"),
		BlockNumber: 50_000_001,
	}
}

func transferLog(token common.Address, value *big.Int) *types.Log {
	return &types.Log{
		Address: token,
		Topics: []common.Hash{
			ctf.ERC20TransferTopic,
			common.HexToHash("0xaa"),
			common.HexToHash("0xbb"),
		},
		Data: word32(value),
	}
}
