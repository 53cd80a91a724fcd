package repositories

import (
	"context"
	"time"

	"trustlend.backend/internal/domain/entities"
)

// LoanRepository defines loan registry data operations. Loan ids are
// assigned sequentially on Create and never reused; loans are never deleted.
type LoanRepository interface {
	Create(ctx context.Context, loan *entities.Loan) error
	GetByID(ctx context.Context, id int64) (*entities.Loan, error)
	GetByBorrower(ctx context.Context, borrower string, limit, offset int) ([]*entities.Loan, int, error)
	// ListByBorrower returns the borrower's full loan index, oldest first.
	ListByBorrower(ctx context.Context, borrower string) ([]*entities.Loan, error)
	// ListOverdueActive returns ACTIVE loans whose due date is before the
	// given cutoff, oldest first.
	ListOverdueActive(ctx context.Context, before time.Time, limit int) ([]*entities.Loan, error)
	// Transition performs a compare-and-swap on the loan status. It fails
	// with ErrLoanNotFound when the loan does not exist and ErrInvalidState
	// when the current status differs from `from`.
	Transition(ctx context.Context, id int64, from, to entities.LoanStatus, at time.Time) error
	// RecordRepayment is the ACTIVE -> REPAID transition, stamping the
	// repayment date and the accrued late fee.
	RecordRepayment(ctx context.Context, id int64, at time.Time, lateFee int64) error
}
