package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/volatiletech/null/v8"
	"trustlend.backend/internal/domain/entities"
	domainerrors "trustlend.backend/internal/domain/errors"
	"trustlend.backend/internal/domain/repositories"
	"trustlend.backend/pkg/metrics"
	"trustlend.backend/pkg/utils"
)

// blacklistDefaultThreshold is the default count at which a borrower is
// permanently barred from new loans.
const blacklistDefaultThreshold = 3

// LoanUsecase drives the loan lifecycle state machine: issue, repay,
// default, liquidate. Every mutating operation runs serialized through the
// dispatcher and atomically inside one unit-of-work transaction.
type LoanUsecase struct {
	loanRepo       repositories.LoanRepository
	profileRepo    repositories.ProfileRepository
	collateralRepo repositories.CollateralRepository
	platformRepo   repositories.PlatformRepository
	eventRepo      repositories.EventRepository
	uow            repositories.UnitOfWork
	policy         *PolicyStore
	dispatch       *Dispatch
	metrics        *metrics.Collector
	now            func() time.Time
}

// NewLoanUsecase creates a new loan usecase
func NewLoanUsecase(
	loanRepo repositories.LoanRepository,
	profileRepo repositories.ProfileRepository,
	collateralRepo repositories.CollateralRepository,
	platformRepo repositories.PlatformRepository,
	eventRepo repositories.EventRepository,
	uow repositories.UnitOfWork,
	policy *PolicyStore,
	dispatch *Dispatch,
	collector *metrics.Collector,
) *LoanUsecase {
	return &LoanUsecase{
		loanRepo:       loanRepo,
		profileRepo:    profileRepo,
		collateralRepo: collateralRepo,
		platformRepo:   platformRepo,
		eventRepo:      eventRepo,
		uow:            uow,
		policy:         policy,
		dispatch:       dispatch,
		metrics:        collector,
		now:            time.Now,
	}
}

// SetClock overrides the time source. The core never reads a wall clock of
// its own beyond this injected function.
func (u *LoanUsecase) SetClock(clock func() time.Time) {
	u.now = clock
}

// Issue creates a new ACTIVE loan backed by the borrower's available
// collateral.
func (u *LoanUsecase) Issue(ctx context.Context, input *entities.IssueLoanInput) (*entities.Loan, error) {
	borrower, err := normalizeAddress(input.Borrower)
	if err != nil {
		return nil, err
	}
	policy := u.policy.Current()
	if input.Amount < policy.MinLoanAmount || input.Amount > policy.MaxLoanAmount {
		return nil, domainerrors.ErrAmountOutOfRange
	}
	// Compare in days to keep durationDays*86400 from overflowing int64.
	if input.DurationDays <= 0 || input.DurationDays > policy.MaxLoanDuration/secondsPerDay {
		return nil, domainerrors.ErrDurationTooLong
	}
	if input.Collateral <= 0 {
		return nil, domainerrors.ErrInsufficientCollateral
	}

	var loan *entities.Loan
	err = u.dispatch.Run(ctx, func(ctx context.Context) error {
		return u.uow.Do(ctx, func(ctx context.Context) error {
			profile, err := u.profileRepo.GetOrCreate(ctx, borrower)
			if err != nil {
				return err
			}
			if err := gateIssuance(profile); err != nil {
				return err
			}

			// Lock collateral out of the available balance.
			if err := u.collateralRepo.Debit(ctx, borrower, input.Collateral); err != nil {
				if errors.Is(err, domainerrors.ErrInsufficientBalance) {
					return domainerrors.ErrInsufficientCollateral
				}
				return err
			}

			now := u.now()
			loan = &entities.Loan{
				Borrower:     borrower,
				Principal:    input.Amount,
				InterestRate: input.InterestRate,
				Collateral:   input.Collateral,
				DueDate:      now.Add(time.Duration(input.DurationDays*secondsPerDay) * time.Second),
				Status:       entities.LoanStatusActive,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := u.loanRepo.Create(ctx, loan); err != nil {
				return err
			}

			profile.TotalBorrowed += input.Amount
			profile.CollateralLocked += input.Collateral
			profile.LastLoanAt = &now
			if err := u.profileRepo.Update(ctx, profile); err != nil {
				return err
			}

			if err := u.platformRepo.AddExposure(ctx, input.Amount); err != nil {
				return err
			}

			return u.eventRepo.Append(ctx, &entities.LedgerEvent{
				ID:        utils.GenerateUUIDv7(),
				Type:      entities.EventLoanIssued,
				User:      borrower,
				LoanID:    null.Int64From(loan.ID),
				Amount:    null.Int64From(input.Amount),
				CreatedAt: now,
			})
		})
	})
	if err != nil {
		return nil, err
	}

	u.metrics.LoanIssued()
	u.metrics.AddExposure(input.Amount)
	return loan, nil
}

// Repay settles an ACTIVE loan. The caller must be the loan's borrower. The
// late fee is computed and reported, the trust score is adjusted, and the
// loan's collateral returns to the available balance.
func (u *LoanUsecase) Repay(ctx context.Context, caller string, loanID int64) (*entities.Loan, error) {
	callerAddr, err := normalizeAddress(caller)
	if err != nil {
		return nil, err
	}

	var (
		loan      *entities.Loan
		principal int64
	)
	err = u.dispatch.Run(ctx, func(ctx context.Context) error {
		return u.uow.Do(ctx, func(ctx context.Context) error {
			loan, err = u.loanRepo.GetByID(ctx, loanID)
			if err != nil {
				return err
			}
			if loan.Borrower != callerAddr {
				return domainerrors.ErrUnauthorized
			}
			if loan.Status != entities.LoanStatusActive {
				return domainerrors.ErrInvalidState
			}

			now := u.now()
			policy := u.policy.Current()
			fee, daysLate := LateFee(loan, now, policy)

			if err := u.loanRepo.RecordRepayment(ctx, loanID, now, fee); err != nil {
				return err
			}
			loan.Status = entities.LoanStatusRepaid
			loan.RepaymentDate = null.TimeFrom(now)
			loan.LateFee = null.Int64From(fee)
			loan.UpdatedAt = now
			principal = loan.Principal

			profile, err := u.profileRepo.GetOrCreate(ctx, loan.Borrower)
			if err != nil {
				return err
			}
			profile.TotalRepaid += loan.Principal
			profile.CollateralLocked -= loan.Collateral

			delta := DeltaOnTimePayment
			reason := ScoreReasonOnTimePayment
			if daysLate > 0 {
				delta = LateDelta(daysLate)
				reason = ScoreReasonLatePayment
				profile.LatePaymentCount++
			} else {
				profile.OnTimePaymentCount++
			}
			newScore, err := u.adjustScore(ctx, profile, delta, reason, now)
			if err != nil {
				return err
			}
			if err := u.profileRepo.Update(ctx, profile); err != nil {
				return err
			}

			// Collateral release happens exactly once, here.
			if err := u.collateralRepo.Credit(ctx, loan.Borrower, loan.Collateral); err != nil {
				return err
			}
			if err := u.platformRepo.AddExposure(ctx, -loan.Principal); err != nil {
				return err
			}

			return u.eventRepo.Append(ctx, &entities.LedgerEvent{
				ID:        utils.GenerateUUIDv7(),
				Type:      entities.EventLoanRepaid,
				User:      loan.Borrower,
				LoanID:    null.Int64From(loanID),
				Amount:    null.Int64From(fee),
				NewScore:  null.Int64From(int64(newScore)),
				CreatedAt: now,
			})
		})
	})
	if err != nil {
		return nil, err
	}

	u.metrics.LoanRepaid()
	u.metrics.AddExposure(-principal)
	return loan, nil
}

// RecordDefault marks an overdue ACTIVE loan as DEFAULTED once its grace
// period has expired. The third default blacklists the borrower for good.
func (u *LoanUsecase) RecordDefault(ctx context.Context, loanID int64) (*entities.Loan, error) {
	var (
		loan      *entities.Loan
		principal int64
	)
	err := u.dispatch.Run(ctx, func(ctx context.Context) error {
		return u.uow.Do(ctx, func(ctx context.Context) error {
			var err error
			loan, err = u.loanRepo.GetByID(ctx, loanID)
			if err != nil {
				return err
			}
			if loan.Status != entities.LoanStatusActive {
				return domainerrors.ErrInvalidState
			}

			now := u.now()
			policy := u.policy.Current()
			if !graceExpired(loan.DueDate, now, policy) {
				return domainerrors.ErrGraceNotExpired
			}

			if err := u.loanRepo.Transition(ctx, loanID, entities.LoanStatusActive, entities.LoanStatusDefaulted, now); err != nil {
				return err
			}
			loan.Status = entities.LoanStatusDefaulted
			loan.UpdatedAt = now
			principal = loan.Principal

			profile, err := u.profileRepo.GetOrCreate(ctx, loan.Borrower)
			if err != nil {
				return err
			}
			profile.DefaultCount++
			if _, err := u.adjustScore(ctx, profile, DeltaDefault, ScoreReasonDefault, now); err != nil {
				return err
			}

			// Blacklisting is one-way and fires its event exactly once.
			if profile.DefaultCount >= blacklistDefaultThreshold && !profile.Blacklisted {
				profile.Blacklisted = true
				if err := u.eventRepo.Append(ctx, &entities.LedgerEvent{
					ID:        utils.GenerateUUIDv7(),
					Type:      entities.EventUserBlacklisted,
					User:      loan.Borrower,
					CreatedAt: now,
				}); err != nil {
					return err
				}
			}
			if err := u.profileRepo.Update(ctx, profile); err != nil {
				return err
			}

			// Exposure tracks ACTIVE loans only; the defaulted principal
			// leaves the aggregate here, not at liquidation.
			if err := u.platformRepo.AddExposure(ctx, -loan.Principal); err != nil {
				return err
			}

			return u.eventRepo.Append(ctx, &entities.LedgerEvent{
				ID:        utils.GenerateUUIDv7(),
				Type:      entities.EventDefaultRecorded,
				User:      loan.Borrower,
				LoanID:    null.Int64From(loanID),
				Amount:    null.Int64From(loan.Principal),
				CreatedAt: now,
			})
		})
	})
	if err != nil {
		return nil, err
	}

	u.metrics.LoanDefaulted()
	u.metrics.AddExposure(-principal)
	return loan, nil
}

// Liquidate disposes of a DEFAULTED loan. The locked collateral moves from
// the borrower's locked total to the protocol treasury.
func (u *LoanUsecase) Liquidate(ctx context.Context, loanID int64) (*entities.Loan, error) {
	var (
		loan       *entities.Loan
		collateral int64
	)
	err := u.dispatch.Run(ctx, func(ctx context.Context) error {
		return u.uow.Do(ctx, func(ctx context.Context) error {
			var err error
			loan, err = u.loanRepo.GetByID(ctx, loanID)
			if err != nil {
				return err
			}
			if loan.Status != entities.LoanStatusDefaulted {
				return domainerrors.ErrInvalidState
			}

			now := u.now()
			if err := u.loanRepo.Transition(ctx, loanID, entities.LoanStatusDefaulted, entities.LoanStatusLiquidated, now); err != nil {
				return err
			}
			loan.Status = entities.LoanStatusLiquidated
			loan.UpdatedAt = now
			collateral = loan.Collateral

			profile, err := u.profileRepo.GetOrCreate(ctx, loan.Borrower)
			if err != nil {
				return err
			}
			profile.CollateralLocked -= loan.Collateral
			if _, err := u.adjustScore(ctx, profile, DeltaLiquidation, ScoreReasonLiquidation, now); err != nil {
				return err
			}
			if err := u.profileRepo.Update(ctx, profile); err != nil {
				return err
			}

			if err := u.platformRepo.CreditTreasury(ctx, loan.Collateral); err != nil {
				return err
			}

			return u.eventRepo.Append(ctx, &entities.LedgerEvent{
				ID:        utils.GenerateUUIDv7(),
				Type:      entities.EventLoanLiquidated,
				User:      loan.Borrower,
				LoanID:    null.Int64From(loanID),
				Amount:    null.Int64From(loan.Collateral),
				CreatedAt: now,
			})
		})
	})
	if err != nil {
		return nil, err
	}

	u.metrics.LoanLiquidated()
	u.metrics.TreasuryCredited(collateral)
	return loan, nil
}

// adjustScore applies a behavioral delta to the profile's trust score and
// records the change in the audit log. The profile itself is persisted by
// the caller.
func (u *LoanUsecase) adjustScore(ctx context.Context, profile *entities.UserProfile, delta int, reason ScoreReason, at time.Time) (int, error) {
	oldScore := profile.TrustScore
	newScore := ApplyDelta(oldScore, delta)
	profile.TrustScore = newScore

	u.metrics.ObserveTrustScore(newScore)
	return newScore, u.eventRepo.Append(ctx, &entities.LedgerEvent{
		ID:        utils.GenerateUUIDv7(),
		Type:      entities.EventTrustScoreUpdated,
		User:      profile.Address,
		OldScore:  null.Int64From(int64(oldScore)),
		NewScore:  null.Int64From(int64(newScore)),
		Reason:    null.StringFrom(string(reason)),
		CreatedAt: at,
	})
}

// GetLoan returns a loan by id
func (u *LoanUsecase) GetLoan(ctx context.Context, loanID int64) (*entities.Loan, error) {
	return u.loanRepo.GetByID(ctx, loanID)
}

// GetUserProfile returns the borrower's profile, creating it on first
// observation.
func (u *LoanUsecase) GetUserProfile(ctx context.Context, user string) (*entities.UserProfile, error) {
	addr, err := normalizeAddress(user)
	if err != nil {
		return nil, err
	}
	return u.profileRepo.GetOrCreate(ctx, addr)
}

// GetUserLoans returns a page of the borrower's loans
func (u *LoanUsecase) GetUserLoans(ctx context.Context, user string, limit, offset int) ([]*entities.Loan, int, error) {
	addr, err := normalizeAddress(user)
	if err != nil {
		return nil, 0, err
	}
	return u.loanRepo.GetByBorrower(ctx, addr, limit, offset)
}

// GetUserLoanStats walks the borrower's loan index once and aggregates it
// by status. The average repayment interval is zero when no loan has been
// repaid.
func (u *LoanUsecase) GetUserLoanStats(ctx context.Context, user string) (*entities.LoanStats, error) {
	addr, err := normalizeAddress(user)
	if err != nil {
		return nil, err
	}
	loans, err := u.loanRepo.ListByBorrower(ctx, addr)
	if err != nil {
		return nil, err
	}

	stats := &entities.LoanStats{}
	var repaymentSeconds int64
	for _, loan := range loans {
		stats.TotalLoans++
		stats.TotalPrincipal += loan.Principal
		switch loan.Status {
		case entities.LoanStatusActive:
			stats.ActiveLoans++
			stats.OutstandingPrincipal += loan.Principal
		case entities.LoanStatusRepaid:
			stats.RepaidLoans++
			if loan.RepaymentDate.Valid {
				repaymentSeconds += int64(loan.RepaymentDate.Time.Sub(loan.CreatedAt) / time.Second)
			}
		case entities.LoanStatusDefaulted:
			stats.DefaultedLoans++
			stats.OutstandingPrincipal += loan.Principal
		case entities.LoanStatusLiquidated:
			stats.LiquidatedLoans++
		}
	}
	if stats.RepaidLoans > 0 {
		stats.AvgRepaymentSeconds = repaymentSeconds / int64(stats.RepaidLoans)
	}
	return stats, nil
}

// CalculateLateFee reports the late fee a loan would accrue if repaid now
func (u *LoanUsecase) CalculateLateFee(ctx context.Context, loanID int64) (int64, error) {
	loan, err := u.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return 0, err
	}
	fee, _ := LateFee(loan, u.now(), u.policy.Current())
	return fee, nil
}

// CalculateUserRiskLevel returns the borrower's current risk tier
func (u *LoanUsecase) CalculateUserRiskLevel(ctx context.Context, user string) (entities.RiskLevel, error) {
	profile, err := u.GetUserProfile(ctx, user)
	if err != nil {
		return "", err
	}
	return RiskLevelFor(profile), nil
}

// GetPlatformState returns the aggregate exposure and treasury balance
func (u *LoanUsecase) GetPlatformState(ctx context.Context) (*entities.PlatformState, error) {
	return u.platformRepo.Get(ctx)
}
