package usecases

import (
	"time"

	"trustlend.backend/internal/domain/entities"
)

const secondsPerDay = 86400

// graceExpired reports whether `now` is strictly past the due date plus the
// grace period.
func graceExpired(dueDate, now time.Time, policy entities.LendingPolicy) bool {
	grace := time.Duration(policy.GracePeriodDays*secondsPerDay) * time.Second
	return now.After(dueDate.Add(grace))
}

// chargeableDaysLate returns how many whole days past the grace period a
// payment at `now` is. Zero while still inside the grace period.
func chargeableDaysLate(dueDate, now time.Time, policy entities.LendingPolicy) int64 {
	if !graceExpired(dueDate, now, policy) {
		return 0
	}
	days := int64(now.Sub(dueDate)/time.Second)/secondsPerDay - policy.GracePeriodDays
	if days < 0 {
		return 0
	}
	return days
}

// LateFee computes the accrued late fee for a loan at the given time. The
// fee is zero inside the grace period and grows linearly with each whole
// day beyond it. The fee is reported, not collected.
func LateFee(loan *entities.Loan, now time.Time, policy entities.LendingPolicy) (fee int64, daysLate int64) {
	daysLate = chargeableDaysLate(loan.DueDate, now, policy)
	if daysLate == 0 {
		return 0, 0
	}
	fee = loan.Principal * policy.DailyLateFeePercent * daysLate / 100
	return fee, daysLate
}
