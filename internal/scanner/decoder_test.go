package scanner

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/polyscan/internal/ctf"
)

var (
	testExchange = common.HexToAddress("0x4bFb41d5B3570DeFd03C39a9A4D8dE6Bd8B8982E")
	testCTFAddr  = common.HexToAddress("0x4D97DCd97eC945f40cF65F87097ACe5EA0476045")
	testMaker    = common.HexToAddress("0x1111111111111111111111111111111111111111")
	testTaker    = common.HexToAddress("0x2222222222222222222222222222222222222222")
)

func TestDecodeOrderFilled(t *testing.T) {
	tokenID, _ := new(big.Int).SetString("65880048952826049478529409513544679473499839954108378133163705794972106192190", 10)
	lg := orderFilledLog(testExchange, common.HexToHash("0xf00d"), 7, testMaker, testTaker,
		big.NewInt(0), tokenID, big.NewInt(1_000_000), big.NewInt(2_000_000))

	fill, ok := DecodeOrderFilled(lg)
	require.True(t, ok)
	assert.Equal(t, common.HexToHash("0xf00d"), fill.TxHash)
	assert.Equal(t, uint(7), fill.LogIndex)
	assert.Equal(t, uint64(50_000_000), fill.BlockNumber)
	assert.Equal(t, testExchange, fill.Exchange)
	assert.Equal(t, testMaker, fill.Maker)
	assert.Equal(t, testTaker, fill.Taker)
	assert.Zero(t, fill.MakerAssetID.Sign())
	assert.Zero(t, fill.TakerAssetID.Cmp(tokenID))
	assert.Equal(t, int64(1_000_000), fill.MakerAmount.Int64())
	assert.Equal(t, int64(2_000_000), fill.TakerAmount.Int64())
}

func TestDecodeOrderFilledDropsMalformed(t *testing.T) {
	good := orderFilledLog(testExchange, common.HexToHash("0x01"), 0, testMaker, testTaker,
		big.NewInt(0), big.NewInt(1), big.NewInt(2), big.NewInt(3))

	short := good
	short.Data = good.Data[:3*32]
	_, ok := DecodeOrderFilled(short)
	assert.False(t, ok, "short data must be dropped")

	fewTopics := good
	fewTopics.Topics = good.Topics[:3]
	_, ok = DecodeOrderFilled(fewTopics)
	assert.False(t, ok, "missing indexed fields must be dropped")

	empty := types.Log{Address: testExchange, Topics: []common.Hash{ctf.OrderFilledTopic}}
	_, ok = DecodeOrderFilled(empty)
	assert.False(t, ok)
}

func TestDecodeConditionPreparation(t *testing.T) {
	condID := common.HexToHash("0x84265b449289fe2d463eeaaa0e777ee8d34450e7e4e9f8e9265c81206f5426f4")
	oracle := common.HexToAddress("0x157Ce2d672854c848c9b79C49a8Cc6cc89176a49")
	questionID := common.HexToHash("0x6a0d290c8ce1536fba41988277acb17f5ee59df82f0ce52c4565c02e37bc4d09")

	lg := conditionLog(testCTFAddr, condID, oracle, questionID, 2)
	rec, ok := DecodeConditionPreparation(lg)
	require.True(t, ok)
	assert.Equal(t, condID, rec.ConditionID)
	assert.Equal(t, oracle, rec.Oracle)
	assert.Equal(t, questionID, rec.QuestionID)
	assert.Equal(t, uint64(2), rec.OutcomeSlotCount.Uint64())
	assert.Equal(t, uint64(50_000_001), rec.BlockNumber)

	// Extra data beyond the first word does not change the slot count.
	padded := lg
	padded.Data = append(append([]byte{}, lg.Data...), word32(big.NewInt(99))...)
	rec, ok = DecodeConditionPreparation(padded)
	require.True(t, ok)
	assert.Equal(t, uint64(2), rec.OutcomeSlotCount.Uint64())

	fewTopics := lg
	fewTopics.Topics = lg.Topics[:2]
	_, ok = DecodeConditionPreparation(fewTopics)
	assert.False(t, ok)
}
