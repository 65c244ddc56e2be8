package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ConditionRecord is one decoded ConditionPreparation log.
type ConditionRecord struct {
	ConditionID      common.Hash
	Oracle           common.Address
	QuestionID       common.Hash
	OutcomeSlotCount *big.Int

	TxHash      common.Hash
	BlockNumber uint64
}

// MarketInfo describes a prepared binary market together with the derived
// ERC-1155 token ids of its YES and NO positions.
type MarketInfo struct {
	ConditionID      string `json:"conditionId"`
	QuestionID       string `json:"questionId"`
	Oracle           string `json:"oracle"`
	OutcomeSlotCount uint64 `json:"outcomeSlotCount"`
	CollateralToken  string `json:"collateralToken"`
	YesTokenID       string `json:"yesTokenId"`
	NoTokenID        string `json:"noTokenId"`
}
