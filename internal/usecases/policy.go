package usecases

import (
	"fmt"
	"sync"

	"trustlend.backend/internal/domain/entities"
	domainerrors "trustlend.backend/internal/domain/errors"
)

// MaxPlatformFeePercent bounds the platform fee an administrator may set.
const MaxPlatformFeePercent = 5

// PolicyStore holds the runtime lending policy. Reads are frequent (every
// issuance and fee computation), updates are rare admin actions.
type PolicyStore struct {
	mu     sync.RWMutex
	policy entities.LendingPolicy
}

// NewPolicyStore creates a policy store with a validated initial policy.
func NewPolicyStore(p entities.LendingPolicy) (*PolicyStore, error) {
	if err := validatePolicy(p); err != nil {
		return nil, err
	}
	return &PolicyStore{policy: p}, nil
}

// Current returns the policy in force.
func (s *PolicyStore) Current() entities.LendingPolicy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy
}

// Update replaces the policy after validation.
func (s *PolicyStore) Update(p entities.LendingPolicy) error {
	if err := validatePolicy(p); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policy = p
	return nil
}

func validatePolicy(p entities.LendingPolicy) error {
	switch {
	case p.MinLoanAmount <= 0:
		return fmt.Errorf("min loan amount must be positive: %w", domainerrors.ErrInvalidInput)
	case p.MaxLoanAmount < p.MinLoanAmount:
		return fmt.Errorf("max loan amount below min: %w", domainerrors.ErrInvalidInput)
	case p.MaxLoanDuration <= 0:
		return fmt.Errorf("max loan duration must be positive: %w", domainerrors.ErrInvalidInput)
	case p.GracePeriodDays < 0:
		return fmt.Errorf("grace period must not be negative: %w", domainerrors.ErrInvalidInput)
	case p.DailyLateFeePercent < 0:
		return fmt.Errorf("late fee percent must not be negative: %w", domainerrors.ErrInvalidInput)
	case p.PlatformFeePercent < 0 || p.PlatformFeePercent > MaxPlatformFeePercent:
		return fmt.Errorf("platform fee percent outside [0, %d]: %w", MaxPlatformFeePercent, domainerrors.ErrInvalidInput)
	}
	return nil
}
