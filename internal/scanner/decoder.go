package scanner

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/alanyoungcy/polyscan/internal/domain"
)

// orderFilledDataLen is the minimum data length of a decodable OrderFilled
// log: four 32-byte words (makerAssetId, takerAssetId, makerAmountFilled,
// takerAmountFilled). The on-chain event carries a fifth word (fee) which the
// pipeline does not consume.
const orderFilledDataLen = 4 * 32

// DecodeOrderFilled decodes one OrderFilled log into a RawFill.
//
// Topics: 0 event signature, 1 orderHash, 2 maker (indexed address), 3 taker
// (indexed address). Data words at offsets 0/32/64/96: makerAssetId,
// takerAssetId, makerAmountFilled, takerAmountFilled.
//
// Logs with fewer than 4 topics or fewer than 128 bytes of data return
// ok=false and are dropped by the caller without error: range filters are
// deliberately broad and unrelated events are expected to slip through.
func DecodeOrderFilled(lg types.Log) (domain.RawFill, bool) {
	if len(lg.Topics) < 4 {
		return domain.RawFill{}, false
	}
	if len(lg.Data) < orderFilledDataLen {
		return domain.RawFill{}, false
	}

	word := func(i int) *big.Int {
		return new(big.Int).SetBytes(lg.Data[i*32 : (i+1)*32])
	}

	return domain.RawFill{
		TxHash:      lg.TxHash,
		LogIndex:    lg.Index,
		BlockNumber: lg.BlockNumber,
		Exchange:    lg.Address,
		Maker:       common.BytesToAddress(lg.Topics[2].Bytes()),
		Taker:       common.BytesToAddress(lg.Topics[3].Bytes()),

		MakerAssetID: word(0),
		TakerAssetID: word(1),
		MakerAmount:  word(2),
		TakerAmount:  word(3),
	}, true
}

// DecodeConditionPreparation decodes one ConditionPreparation log.
//
// Topics: 0 event signature, 1 conditionId, 2 oracle (indexed address),
// 3 questionId. Data: outcomeSlotCount as one big-endian uint256 word.
// Logs with fewer than 4 topics return ok=false and are skipped.
func DecodeConditionPreparation(lg types.Log) (domain.ConditionRecord, bool) {
	if len(lg.Topics) < 4 {
		return domain.ConditionRecord{}, false
	}

	data := lg.Data
	if len(data) > 32 {
		data = data[:32]
	}

	return domain.ConditionRecord{
		ConditionID:      lg.Topics[1],
		Oracle:           common.BytesToAddress(lg.Topics[2].Bytes()),
		QuestionID:       lg.Topics[3],
		OutcomeSlotCount: new(big.Int).SetBytes(data),

		TxHash:      lg.TxHash,
		BlockNumber: lg.BlockNumber,
	}, true
}
