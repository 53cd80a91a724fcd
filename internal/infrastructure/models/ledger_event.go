package models

import (
	"time"

	"github.com/google/uuid"
)

// LedgerEvent is the persistence model of one audit log entry. Seq orders
// events totally; rows are append-only.
type LedgerEvent struct {
	Seq       int64     `gorm:"primaryKey;autoIncrement"`
	ID        uuid.UUID `gorm:"type:uuid;not null"`
	Type      string    `gorm:"type:varchar(40);not null;index"`
	User      string    `gorm:"column:user_address;type:varchar(64);not null;index"`
	LoanID    *int64    `gorm:"index"`
	Amount    *int64
	OldScore  *int64
	NewScore  *int64
	Reason    *string `gorm:"type:varchar(40)"`
	CreatedAt time.Time
}

func (LedgerEvent) TableName() string {
	return "ledger_events"
}
