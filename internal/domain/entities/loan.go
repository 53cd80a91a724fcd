package entities

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// LoanStatus represents the lifecycle state of a loan
type LoanStatus string

const (
	LoanStatusActive     LoanStatus = "ACTIVE"
	LoanStatusRepaid     LoanStatus = "REPAID"
	LoanStatusDefaulted  LoanStatus = "DEFAULTED"
	LoanStatusLiquidated LoanStatus = "LIQUIDATED"
)

// Loan represents a collateral-backed loan. A loan is created ACTIVE and
// moves exactly once, to REPAID, or to DEFAULTED and then LIQUIDATED.
// Amounts are int64 base units of the collateral asset, rates are basis points.
type Loan struct {
	ID            int64      `json:"id" gorm:"primary_key;autoIncrement"`
	Borrower      string     `json:"borrower" gorm:"index"`
	Principal     int64      `json:"principal"`
	InterestRate  int64      `json:"interestRate"`
	Collateral    int64      `json:"collateral"`
	DueDate       time.Time  `json:"dueDate"`
	RepaymentDate null.Time  `json:"repaymentDate,omitempty"`
	LateFee       null.Int64 `json:"lateFee,omitempty"`
	Status        LoanStatus `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// IssueLoanInput represents input for issuing a loan
type IssueLoanInput struct {
	Borrower     string `json:"borrower" binding:"required"`
	Amount       int64  `json:"amount" binding:"required,gt=0"`
	InterestRate int64  `json:"interestRate" binding:"gte=0"`
	Collateral   int64  `json:"collateral" binding:"required,gt=0"`
	DurationDays int64  `json:"durationDays" binding:"required,gt=0"`
}

// LoanStats aggregates a borrower's loan history by status
type LoanStats struct {
	TotalLoans          int   `json:"totalLoans"`
	ActiveLoans         int   `json:"activeLoans"`
	RepaidLoans         int   `json:"repaidLoans"`
	DefaultedLoans      int   `json:"defaultedLoans"`
	LiquidatedLoans     int   `json:"liquidatedLoans"`
	TotalPrincipal      int64 `json:"totalPrincipal"`
	OutstandingPrincipal int64 `json:"outstandingPrincipal"`
	AvgRepaymentSeconds int64 `json:"avgRepaymentSeconds"`
}

// LendingPolicy holds the adjustable lending parameters. PlatformFeePercent
// is bounded at 5, MaxLoanDuration is in seconds.
type LendingPolicy struct {
	MinLoanAmount       int64 `json:"minLoanAmount"`
	MaxLoanAmount       int64 `json:"maxLoanAmount"`
	MaxLoanDuration     int64 `json:"maxLoanDuration"`
	GracePeriodDays     int64 `json:"gracePeriodDays"`
	DailyLateFeePercent int64 `json:"dailyLateFeePercent"`
	PlatformFeePercent  int64 `json:"platformFeePercent"`
}

// PlatformState is the singleton platform-wide bookkeeping row: the running
// principal sum over ACTIVE loans and the treasury balance credited by
// liquidations.
type PlatformState struct {
	ID                int64 `json:"-" gorm:"primary_key"`
	AggregateExposure int64 `json:"aggregateExposure"`
	TreasuryBalance   int64 `json:"treasuryBalance"`
}
