package scanner

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/polyscan/internal/domain"
)

func TestClassifyBuy(t *testing.T) {
	tokenID, _ := new(big.Int).SetString("65880048952826049478529409513544679473499839954108378133163705794972106192190", 10)

	// Maker pays 1 USDC (6 decimals) for 0.5 tokens (18 decimals): price 2.
	fill := decodedFill(t, orderFilledLog(testExchange, common.HexToHash("0xf00d"), 3, testMaker, testTaker,
		big.NewInt(0), tokenID, big.NewInt(1_000_000), big.NewInt(500_000_000_000_000_000)))

	trade := Classify(fill, 6, 18)
	assert.Equal(t, domain.SideBuy, trade.Side)
	assert.Equal(t, "2.000000", trade.Price)
	assert.Equal(t, "0", trade.MakerAssetID)
	assert.Equal(t, "0x"+tokenID.Text(16), trade.TakerAssetID)
	assert.Equal(t, "0x"+tokenID.Text(16), trade.TokenID)
	assert.Equal(t, "1000000", trade.MakerAmountRaw)
	assert.Equal(t, "500000000000000000", trade.TakerAmountRaw)
	assert.Equal(t, uint32(6), trade.MakerDecimals)
	assert.Equal(t, uint32(18), trade.TakerDecimals)
	assert.Equal(t, common.HexToHash("0xf00d").Hex(), trade.TxHash)
	assert.Equal(t, uint64(3), trade.LogIndex)
	assert.Equal(t, testExchange.Hex(), trade.Exchange)
	assert.Equal(t, testMaker.Hex(), trade.Maker)
	assert.Equal(t, testTaker.Hex(), trade.Taker)
}

func TestClassifySell(t *testing.T) {
	tokenID := big.NewInt(42)

	// Maker sells 2 tokens (6 decimals) for 1.2 USDC (6 decimals): price 0.6.
	fill := decodedFill(t, orderFilledLog(testExchange, common.HexToHash("0x02"), 0, testMaker, testTaker,
		tokenID, big.NewInt(0), big.NewInt(2_000_000), big.NewInt(1_200_000)))

	trade := Classify(fill, 6, 6)
	assert.Equal(t, domain.SideSell, trade.Side)
	assert.Equal(t, "0.600000", trade.Price)
	assert.Equal(t, "0x2a", trade.MakerAssetID)
	assert.Equal(t, "0", trade.TakerAssetID)
	assert.Equal(t, "0x2a", trade.TokenID)
}

func TestClassifyZeroDivisor(t *testing.T) {
	fill := decodedFill(t, orderFilledLog(testExchange, common.HexToHash("0x03"), 0, testMaker, testTaker,
		big.NewInt(0), big.NewInt(42), big.NewInt(1_000_000), big.NewInt(0)))

	trade := Classify(fill, 6, 18)
	require.Equal(t, "0.0", trade.Price, "zero-amount divisor never yields Inf or NaN")
	assert.Equal(t, domain.SideBuy, trade.Side)
}

func TestClassifyBothLegsNonZero(t *testing.T) {
	// Token-for-token fill, an unexpected shape: maker-leg convention, SELL.
	fill := decodedFill(t, orderFilledLog(testExchange, common.HexToHash("0x04"), 0, testMaker, testTaker,
		big.NewInt(7), big.NewInt(9), big.NewInt(3_000_000), big.NewInt(1_000_000)))

	trade := Classify(fill, 6, 6)
	assert.Equal(t, domain.SideSell, trade.Side)
	assert.Equal(t, "3.000000", trade.Price)
	assert.Equal(t, "0x7", trade.MakerAssetID)
	assert.Equal(t, "0x9", trade.TakerAssetID)
	assert.Equal(t, "0x7", trade.TokenID)
}

func TestFormatPriceScalesAcrossDecimals(t *testing.T) {
	// Same human value on both legs at mismatched precisions: price 1.
	price := formatPrice(big.NewInt(1_000_000), 6, big.NewInt(1_000_000_000_000_000_000), 18)
	assert.Equal(t, "1.000000", price)
}
