package scanner

import (
	"log/slog"

	"github.com/ethereum/go-ethereum/common"

	"github.com/alanyoungcy/polyscan/internal/ctf"
	"github.com/alanyoungcy/polyscan/internal/domain"
)

// Trust selects which condition id a MarketInfo reports when the recomputed id
// disagrees with the one found on-chain. Range and transaction scans trust the
// recomputed value; manual condition-id lookup trusts what the caller
// supplied. The divergence between entry points is deliberate and must not be
// unified without a product decision.
type Trust int

const (
	// TrustDerived reports the conditionId recomputed from the log fields.
	TrustDerived Trust = iota
	// TrustLogged reports the conditionId carried in the log topic (which for
	// manual lookup equals the caller-supplied id).
	TrustLogged
)

// BuildMarketInfo derives a MarketInfo from one ConditionPreparation record.
//
// The condition id is recomputed from (oracle, questionId, outcomeSlotCount)
// and compared to the logged topic; a mismatch is a warning, never fatal. The
// YES/NO collection ids (index sets 1 and 2, zero parent) and position ids are
// always derived from the recomputed condition id.
func BuildMarketInfo(rec domain.ConditionRecord, collateral common.Address, trust Trust, logger *slog.Logger) domain.MarketInfo {
	derived := ctf.ConditionID(rec.Oracle, rec.QuestionID, rec.OutcomeSlotCount)
	if derived != rec.ConditionID {
		logger.Warn("condition id mismatch",
			slog.String("logged", rec.ConditionID.Hex()),
			slog.String("derived", derived.Hex()),
		)
	}

	reported := derived
	if trust == TrustLogged {
		reported = rec.ConditionID
	}

	collYes := ctf.CollectionID(common.Hash{}, derived, ctf.YesIndexSet)
	collNo := ctf.CollectionID(common.Hash{}, derived, ctf.NoIndexSet)

	return domain.MarketInfo{
		ConditionID:      reported.Hex(),
		QuestionID:       rec.QuestionID.Hex(),
		Oracle:           rec.Oracle.Hex(),
		OutcomeSlotCount: rec.OutcomeSlotCount.Uint64(),
		CollateralToken:  collateral.Hex(),
		YesTokenID:       ctf.PositionID(collateral, collYes).Hex(),
		NoTokenID:        ctf.PositionID(collateral, collNo).Hex(),
	}
}
