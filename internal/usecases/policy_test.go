package usecases

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"trustlend.backend/internal/domain/entities"
	domainerrors "trustlend.backend/internal/domain/errors"
)

func validLendingPolicy() entities.LendingPolicy {
	return entities.LendingPolicy{
		MinLoanAmount:       100,
		MaxLoanAmount:       1_000_000,
		MaxLoanDuration:     365 * secondsPerDay,
		GracePeriodDays:     3,
		DailyLateFeePercent: 1,
		PlatformFeePercent:  2,
	}
}

func TestNewPolicyStore_RejectsInvalid(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*entities.LendingPolicy)
	}{
		{"zero min amount", func(p *entities.LendingPolicy) { p.MinLoanAmount = 0 }},
		{"max below min", func(p *entities.LendingPolicy) { p.MaxLoanAmount = p.MinLoanAmount - 1 }},
		{"zero duration", func(p *entities.LendingPolicy) { p.MaxLoanDuration = 0 }},
		{"negative grace", func(p *entities.LendingPolicy) { p.GracePeriodDays = -1 }},
		{"negative late fee", func(p *entities.LendingPolicy) { p.DailyLateFeePercent = -1 }},
		{"negative platform fee", func(p *entities.LendingPolicy) { p.PlatformFeePercent = -1 }},
		{"platform fee above cap", func(p *entities.LendingPolicy) { p.PlatformFeePercent = MaxPlatformFeePercent + 1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validLendingPolicy()
			tc.mutate(&p)
			_, err := NewPolicyStore(p)
			assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
		})
	}
}

func TestPolicyStore_UpdateReplacesAtomically(t *testing.T) {
	store, err := NewPolicyStore(validLendingPolicy())
	require.NoError(t, err)
	assert.Equal(t, validLendingPolicy(), store.Current())

	next := validLendingPolicy()
	next.MaxLoanAmount = 5_000_000
	next.GracePeriodDays = 7
	require.NoError(t, store.Update(next))
	assert.Equal(t, next, store.Current())
}

func TestPolicyStore_UpdateRejectionKeepsOldPolicy(t *testing.T) {
	store, err := NewPolicyStore(validLendingPolicy())
	require.NoError(t, err)

	bad := validLendingPolicy()
	bad.PlatformFeePercent = 99
	assert.ErrorIs(t, store.Update(bad), domainerrors.ErrInvalidInput)
	assert.Equal(t, validLendingPolicy(), store.Current())
}

func TestPolicyStore_FeeCapBoundary(t *testing.T) {
	p := validLendingPolicy()
	p.PlatformFeePercent = MaxPlatformFeePercent
	store, err := NewPolicyStore(p)
	require.NoError(t, err)
	assert.Equal(t, int64(MaxPlatformFeePercent), store.Current().PlatformFeePercent)
}
