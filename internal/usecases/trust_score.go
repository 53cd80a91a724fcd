package usecases

import (
	"trustlend.backend/internal/domain/entities"
)

// ScoreReason tags a trust score change in the audit log. Behavioral deltas
// and attestation overrides must stay distinguishable.
type ScoreReason string

const (
	ScoreReasonOnTimePayment ScoreReason = "ON_TIME_PAYMENT"
	ScoreReasonLatePayment   ScoreReason = "LATE_PAYMENT"
	ScoreReasonDefault       ScoreReason = "DEFAULT"
	ScoreReasonLiquidation   ScoreReason = "LIQUIDATION"
	ScoreReasonAttestation   ScoreReason = "HISTORICAL_ATTESTATION"
)

// Behavioral score deltas
const (
	DeltaOnTimePayment = 10
	DeltaDefault       = -50
	DeltaLiquidation   = -25
	// LatePaymentDeltaPerDay is multiplied by the number of days late.
	LatePaymentDeltaPerDay = -2
)

// Attestation scoring parameters. AvgTxValue is measured in units of
// attestationValueUnit base units.
const (
	attestationBaseScore  = 500
	attestationBonusCap   = 100
	attestationPenaltyCap = 400
	attestationValueUnit  = 1_000_000
)

// ApplyDelta applies a signed delta to a trust score, saturating at the
// score bounds. It never wraps or leaves [MinTrustScore, MaxTrustScore].
func ApplyDelta(current, delta int) int {
	next := current + delta
	if next > entities.MaxTrustScore {
		return entities.MaxTrustScore
	}
	if next < entities.MinTrustScore {
		return entities.MinTrustScore
	}
	return next
}

// LateDelta returns the behavioral delta for a payment that is daysLate
// days past due. The magnitude grows unbounded; saturation happens in
// ApplyDelta.
func LateDelta(daysLate int64) int {
	return int(LatePaymentDeltaPerDay * daysLate)
}

// AttestationScore computes a replacement trust score from a verified
// historical activity summary. Each additive term is capped independently
// before summation; the penalty can floor the result at MinTrustScore and
// the sum is capped at MaxTrustScore.
func AttestationScore(s entities.HistoricalSummary) int {
	score := int64(attestationBaseScore)
	score += capAt(s.AccountAge/100_000*10, attestationBonusCap)
	score += capAt(s.TxCount/100*10, attestationBonusCap)
	score += capAt(s.AvgTxValue/attestationValueUnit*5, attestationBonusCap)
	score += capAt(s.PriorLoanCount*10, attestationBonusCap)

	penalty := capAt(s.DefaultRate*400/entities.AttestationRateScale, attestationPenaltyCap)
	score -= penalty

	if score < entities.MinTrustScore {
		return entities.MinTrustScore
	}
	if score > entities.MaxTrustScore {
		return entities.MaxTrustScore
	}
	return int(score)
}

func capAt(v, cap int64) int64 {
	if v > cap {
		return cap
	}
	return v
}
