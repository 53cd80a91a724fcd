package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// EventType identifies an audit log entry
type EventType string

const (
	EventLoanIssued           EventType = "LOAN_ISSUED"
	EventLoanRepaid           EventType = "LOAN_REPAID"
	EventDefaultRecorded      EventType = "DEFAULT_RECORDED"
	EventLoanLiquidated       EventType = "LOAN_LIQUIDATED"
	EventTrustScoreUpdated    EventType = "TRUST_SCORE_UPDATED"
	EventCollateralDeposited  EventType = "COLLATERAL_DEPOSITED"
	EventCollateralWithdrawn  EventType = "COLLATERAL_WITHDRAWN"
	EventUserBlacklisted      EventType = "USER_BLACKLISTED"
)

// LedgerEvent is one entry of the append-only audit log. Seq gives the
// total order of occurrence; entries are never updated or deleted.
type LedgerEvent struct {
	Seq       int64       `json:"seq" gorm:"primary_key;autoIncrement"`
	ID        uuid.UUID   `json:"id"`
	Type      EventType   `json:"type" gorm:"index"`
	User      string      `json:"user" gorm:"index"`
	LoanID    null.Int64  `json:"loanId,omitempty"`
	Amount    null.Int64  `json:"amount,omitempty"`
	OldScore  null.Int64  `json:"oldScore,omitempty"`
	NewScore  null.Int64  `json:"newScore,omitempty"`
	Reason    null.String `json:"reason,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}
