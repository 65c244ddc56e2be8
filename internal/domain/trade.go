package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Side is the direction of a fill relative to the collateral asset: the party
// paying collateral in is buying outcome tokens.
type Side string

const (
	SideBuy     Side = "BUY"
	SideSell    Side = "SELL"
	SideUnknown Side = "UNKNOWN"
)

// RawFill is one decoded OrderFilled log, before decimals resolution. It is
// immutable once decoded and discarded after classification.
type RawFill struct {
	TxHash      common.Hash
	LogIndex    uint
	BlockNumber uint64
	Exchange    common.Address
	Maker       common.Address
	Taker       common.Address

	MakerAssetID *big.Int
	TakerAssetID *big.Int
	MakerAmount  *big.Int
	TakerAmount  *big.Int
}

// TradeRecord is the output record for one classified fill. Asset ids are
// display strings: "0" for the collateral sentinel, 0x-hex otherwise. Price is
// collateral per outcome-token unit with six fractional digits, or the literal
// "0.0" when the divisor leg is zero.
type TradeRecord struct {
	TxHash         string `json:"txHash"`
	LogIndex       uint64 `json:"logIndex"`
	Exchange       string `json:"exchange"`
	Maker          string `json:"maker"`
	Taker          string `json:"taker"`
	MakerAssetID   string `json:"makerAssetId"`
	TakerAssetID   string `json:"takerAssetId"`
	MakerAmountRaw string `json:"makerAmountRaw"`
	TakerAmountRaw string `json:"takerAmountRaw"`
	MakerDecimals  uint32 `json:"makerDecimals"`
	TakerDecimals  uint32 `json:"takerDecimals"`
	Price          string `json:"price"`
	TokenID        string `json:"tokenId"`
	Side           Side   `json:"side"`
}
