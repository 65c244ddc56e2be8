package ctf

import "github.com/ethereum/go-ethereum/crypto"

// Event signatures consumed by the scanner. topic0 of a log is the keccak256
// hash of the canonical signature string.
const (
	OrderFilledSig          = "OrderFilled(bytes32,address,address,uint256,uint256,uint256,uint256,uint256)"
	ConditionPreparationSig = "ConditionPreparation(bytes32,address,bytes32,uint256)"
	ERC20TransferSig        = "Transfer(address,address,uint256)"
)

var (
	// OrderFilledTopic is emitted by the CTF Exchange on every fill.
	OrderFilledTopic = crypto.Keccak256Hash([]byte(OrderFilledSig))

	// ConditionPreparationTopic is emitted by the CTF contract when a new
	// condition (market) is prepared.
	ConditionPreparationTopic = crypto.Keccak256Hash([]byte(ConditionPreparationSig))

	// ERC20TransferTopic is the standard ERC-20 Transfer topic, used by the
	// decimals resolver to attribute opaque asset ids to token contracts.
	ERC20TransferTopic = crypto.Keccak256Hash([]byte(ERC20TransferSig))

	// DecimalsSelector is the 4-byte call selector of ERC-20 decimals().
	DecimalsSelector = crypto.Keccak256([]byte("decimals()"))[:4]
)
