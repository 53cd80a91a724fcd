package models

import (
	"time"
)

// Loan is the persistence model of a loan. Rows are append-then-update
// (status and bookkeeping fields only), never deleted.
type Loan struct {
	ID            int64      `gorm:"primaryKey;autoIncrement"`
	Borrower      string     `gorm:"type:varchar(64);not null;index"`
	Principal     int64      `gorm:"not null"`
	InterestRate  int64      `gorm:"not null;default:0"`
	Collateral    int64      `gorm:"not null"`
	DueDate       time.Time  `gorm:"not null"`
	RepaymentDate *time.Time
	LateFee       *int64
	Status        string `gorm:"type:varchar(20);not null;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Loan) TableName() string {
	return "loans"
}
