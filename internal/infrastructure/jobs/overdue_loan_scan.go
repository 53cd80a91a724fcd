package jobs

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"trustlend.backend/internal/domain/entities"
	domainerrors "trustlend.backend/internal/domain/errors"
	"trustlend.backend/pkg/logger"
)

const overdueScanBatchSize = 100

// overdueLoanLister is the slice of the loan repository the scanner needs.
type overdueLoanLister interface {
	ListOverdueActive(ctx context.Context, before time.Time, limit int) ([]*entities.Loan, error)
}

// loanDefaulter is the slice of the loan usecase the scanner needs.
type loanDefaulter interface {
	RecordDefault(ctx context.Context, loanID int64) (*entities.Loan, error)
}

// OverdueLoanScanJob periodically sweeps ACTIVE loans past their due date
// and records a default for each one whose grace period has expired.
type OverdueLoanScanJob struct {
	loans     overdueLoanLister
	defaulter loanDefaulter
	interval  time.Duration
	now       func() time.Time
	stop      chan struct{}
}

func NewOverdueLoanScanJob(loans overdueLoanLister, defaulter loanDefaulter, interval time.Duration) *OverdueLoanScanJob {
	return &OverdueLoanScanJob{
		loans:     loans,
		defaulter: defaulter,
		interval:  interval,
		now:       time.Now,
		stop:      make(chan struct{}),
	}
}

// SetClock overrides the time source.
func (j *OverdueLoanScanJob) SetClock(clock func() time.Time) {
	j.now = clock
}

// Start runs the scan loop until the context is cancelled or Stop is called.
func (j *OverdueLoanScanJob) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	logger.Info(ctx, "overdue loan scan started", zap.Duration("interval", j.interval))

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "overdue loan scan stopped", zap.String("reason", "context cancelled"))
			return
		case <-j.stop:
			logger.Info(ctx, "overdue loan scan stopped", zap.String("reason", "stop requested"))
			return
		case <-ticker.C:
			j.processOverdueLoans(ctx)
		}
	}
}

// Stop signals the scan loop to exit.
func (j *OverdueLoanScanJob) Stop() {
	close(j.stop)
}

func (j *OverdueLoanScanJob) processOverdueLoans(ctx context.Context) {
	loans, err := j.loans.ListOverdueActive(ctx, j.now(), overdueScanBatchSize)
	if err != nil {
		logger.Error(ctx, "failed to list overdue loans", zap.Error(err))
		return
	}
	if len(loans) == 0 {
		return
	}

	defaulted := 0
	for _, loan := range loans {
		if _, err := j.defaulter.RecordDefault(ctx, loan.ID); err != nil {
			// Loans still inside the grace window, or already moved out of
			// ACTIVE by a concurrent repayment, are not errors for the sweep.
			if errors.Is(err, domainerrors.ErrGraceNotExpired) || errors.Is(err, domainerrors.ErrInvalidState) {
				continue
			}
			logger.Error(ctx, "failed to record default for overdue loan",
				zap.Int64("loanId", loan.ID),
				zap.Error(err))
			continue
		}
		defaulted++
	}

	if defaulted > 0 {
		logger.Info(ctx, "recorded defaults for overdue loans",
			zap.Int("scanned", len(loans)),
			zap.Int("defaulted", defaulted))
	}
}
