package usecases

import (
	"trustlend.backend/internal/domain/entities"
	domainerrors "trustlend.backend/internal/domain/errors"
)

// RiskLevelFor derives the qualitative risk tier for a borrower. Any default
// history forces the High tier regardless of trust score.
func RiskLevelFor(profile *entities.UserProfile) entities.RiskLevel {
	if profile.DefaultCount > 0 {
		return entities.RiskLevelHigh
	}
	switch {
	case profile.TrustScore >= 800:
		return entities.RiskLevelVeryLow
	case profile.TrustScore >= 600:
		return entities.RiskLevelLow
	case profile.TrustScore >= 400:
		return entities.RiskLevelMedium
	case profile.TrustScore >= 200:
		return entities.RiskLevelMediumHigh
	default:
		return entities.RiskLevelHigh
	}
}

// gateIssuance decides whether a borrower may receive a new loan.
func gateIssuance(profile *entities.UserProfile) error {
	if profile.Blacklisted {
		return domainerrors.ErrUserBlacklisted
	}
	if RiskLevelFor(profile) == entities.RiskLevelHigh {
		return domainerrors.ErrRiskTooHigh
	}
	return nil
}
