// Package ctf implements the Conditional Tokens Framework identifier chain:
// conditionId, collectionId, and positionId. These are the deterministic
// keccak256 hashes the CTF contract uses to name binary-outcome positions.
//
// All derivations hash the word-aligned ABI encoding of their inputs: every
// scalar occupies a full 32-byte slot with addresses left-padded to 32 bytes.
// Tightly packed concatenation yields a different hash and is never used here.
package ctf

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// YesIndexSet and NoIndexSet are the two conventional outcome index sets of a
// binary market. CollectionID itself accepts any non-zero bitmask.
var (
	YesIndexSet = big.NewInt(1)
	NoIndexSet  = big.NewInt(2)
)

// ConditionID returns keccak256(abi.encode(oracle, questionID, outcomeSlotCount)).
func ConditionID(oracle common.Address, questionID common.Hash, outcomeSlotCount *big.Int) common.Hash {
	return crypto.Keccak256Hash(
		common.LeftPadBytes(oracle.Bytes(), 32),
		questionID.Bytes(),
		bigIntTo32Bytes(outcomeSlotCount),
	)
}

// CollectionID returns keccak256(abi.encode(parentCollectionID, conditionID, indexSet)).
// A zero parentCollectionID denotes a top-level collection.
func CollectionID(parentCollectionID, conditionID common.Hash, indexSet *big.Int) common.Hash {
	return crypto.Keccak256Hash(
		parentCollectionID.Bytes(),
		conditionID.Bytes(),
		bigIntTo32Bytes(indexSet),
	)
}

// PositionID returns keccak256(abi.encode(collateralToken, uint256(collectionID))).
// The result, read as a uint256, is the ERC-1155 token id of the position.
func PositionID(collateralToken common.Address, collectionID common.Hash) common.Hash {
	return crypto.Keccak256Hash(
		common.LeftPadBytes(collateralToken.Bytes(), 32),
		collectionID.Bytes(),
	)
}

// bigIntTo32Bytes returns a 32-byte big-endian representation of n.
func bigIntTo32Bytes(n *big.Int) []byte {
	b := n.Bytes()
	if len(b) >= 32 {
		return b[:32]
	}
	padded := make([]byte, 32)
	copy(padded[32-len(b):], b)
	return padded
}
