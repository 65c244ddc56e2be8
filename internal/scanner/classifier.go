package scanner

import (
	"fmt"
	"math/big"

	"github.com/alanyoungcy/polyscan/internal/domain"
)

// Classify combines a decoded fill with its resolved decimals into an output
// TradeRecord.
//
// A zero maker asset id means the maker paid collateral in: the trade is a BUY
// and price = maker amount (collateral units) / taker amount (token units).
// Otherwise it is a SELL and price = taker / maker. When both legs are
// non-zero (an unexpected shape) the maker-leg convention applies. Price is
// always collateral per outcome-token unit.
func Classify(fill domain.RawFill, makerDec, takerDec uint32) domain.TradeRecord {
	makerZero := fill.MakerAssetID.Sign() == 0
	takerZero := fill.TakerAssetID.Sign() == 0

	var price, makerAsset, takerAsset string
	switch {
	case makerZero:
		price = formatPrice(fill.MakerAmount, makerDec, fill.TakerAmount, takerDec)
		makerAsset, takerAsset = "0", hexAssetID(fill.TakerAssetID)
	case takerZero:
		price = formatPrice(fill.TakerAmount, takerDec, fill.MakerAmount, makerDec)
		makerAsset, takerAsset = hexAssetID(fill.MakerAssetID), "0"
	default:
		price = formatPrice(fill.MakerAmount, makerDec, fill.TakerAmount, takerDec)
		makerAsset, takerAsset = hexAssetID(fill.MakerAssetID), hexAssetID(fill.TakerAssetID)
	}

	side := domain.SideSell
	tokenID := fill.MakerAssetID
	if makerZero {
		side = domain.SideBuy
		tokenID = fill.TakerAssetID
	}

	return domain.TradeRecord{
		TxHash:         fill.TxHash.Hex(),
		LogIndex:       uint64(fill.LogIndex),
		Exchange:       fill.Exchange.Hex(),
		Maker:          fill.Maker.Hex(),
		Taker:          fill.Taker.Hex(),
		MakerAssetID:   makerAsset,
		TakerAssetID:   takerAsset,
		MakerAmountRaw: fill.MakerAmount.String(),
		TakerAmountRaw: fill.TakerAmount.String(),
		MakerDecimals:  makerDec,
		TakerDecimals:  takerDec,
		Price:          price,
		TokenID:        hexAssetID(tokenID),
		Side:           side,
	}
}

// formatPrice renders num/den in human units with six fractional digits. A
// zero-valued denominator yields the literal "0.0" rather than Inf or NaN.
func formatPrice(num *big.Int, numDec uint32, den *big.Int, denDec uint32) string {
	denUnits := humanUnits(den, denDec)
	if denUnits == 0.0 {
		return "0.0"
	}
	return fmt.Sprintf("%.6f", humanUnits(num, numDec)/denUnits)
}

// humanUnits converts a raw integer amount to a float scaled by 10^decimals.
func humanUnits(amount *big.Int, decimals uint32) float64 {
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	out, _ := new(big.Float).Quo(
		new(big.Float).SetInt(amount),
		new(big.Float).SetInt(scale),
	).Float64()
	return out
}

// hexAssetID renders an asset id as minimal 0x-hex.
func hexAssetID(id *big.Int) string {
	return "0x" + id.Text(16)
}
