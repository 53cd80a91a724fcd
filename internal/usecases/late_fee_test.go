package usecases

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"trustlend.backend/internal/domain/entities"
)

func lateFeePolicy() entities.LendingPolicy {
	return entities.LendingPolicy{
		GracePeriodDays:     3,
		DailyLateFeePercent: 1,
	}
}

func TestGraceExpired(t *testing.T) {
	due := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	policy := lateFeePolicy()

	assert.False(t, graceExpired(due, due.Add(-time.Hour), policy))
	assert.False(t, graceExpired(due, due, policy))
	assert.False(t, graceExpired(due, due.Add(72*time.Hour), policy))
	assert.True(t, graceExpired(due, due.Add(72*time.Hour+time.Second), policy))
}

func TestLateFee_Schedule(t *testing.T) {
	due := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	policy := lateFeePolicy()
	loan := &entities.Loan{Principal: 10_000, DueDate: due}

	cases := []struct {
		name     string
		at       time.Time
		wantFee  int64
		wantDays int64
	}{
		{"before due", due.Add(-24 * time.Hour), 0, 0},
		{"at due", due, 0, 0},
		{"inside grace", due.Add(48 * time.Hour), 0, 0},
		{"grace boundary", due.Add(72 * time.Hour), 0, 0},
		{"one day beyond grace", due.Add(96 * time.Hour), 100, 1},
		{"partial day rounds down", due.Add(96*time.Hour + 23*time.Hour), 100, 1},
		{"two days beyond grace", due.Add(120 * time.Hour), 200, 2},
		{"ten days past due", due.Add(240 * time.Hour), 700, 7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fee, days := LateFee(loan, tc.at, policy)
			assert.Equal(t, tc.wantFee, fee)
			assert.Equal(t, tc.wantDays, days)
		})
	}
}

func TestLateFee_ScalesWithPrincipalAndRate(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	policy := lateFeePolicy()
	policy.DailyLateFeePercent = 2
	loan := &entities.Loan{Principal: 1_000_000, DueDate: due}

	fee, days := LateFee(loan, due.Add(5*24*time.Hour), policy)
	assert.Equal(t, int64(2), days)
	assert.Equal(t, int64(40_000), fee)
}

func TestLateFee_ZeroGracePeriod(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	policy := entities.LendingPolicy{GracePeriodDays: 0, DailyLateFeePercent: 1}
	loan := &entities.Loan{Principal: 5_000, DueDate: due}

	fee, days := LateFee(loan, due, policy)
	assert.Zero(t, fee)
	assert.Zero(t, days)

	fee, days = LateFee(loan, due.Add(24*time.Hour+time.Minute), policy)
	assert.Equal(t, int64(1), days)
	assert.Equal(t, int64(50), fee)
}
