package models

import (
	"time"
)

// UserProfile is the persistence model of a borrower's cumulative history
type UserProfile struct {
	Address            string `gorm:"type:varchar(64);primaryKey"`
	TotalBorrowed      int64  `gorm:"not null;default:0"`
	TotalRepaid        int64  `gorm:"not null;default:0"`
	DefaultCount       int    `gorm:"not null;default:0"`
	LatePaymentCount   int    `gorm:"not null;default:0"`
	OnTimePaymentCount int    `gorm:"not null;default:0"`
	TrustScore         int    `gorm:"not null"`
	CollateralLocked   int64  `gorm:"not null;default:0"`
	Blacklisted        bool   `gorm:"not null;default:false"`
	LastLoanAt         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (UserProfile) TableName() string {
	return "user_profiles"
}

// CollateralAccount holds a user's available (unlocked) balance
type CollateralAccount struct {
	Address   string `gorm:"type:varchar(64);primaryKey"`
	Available int64  `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CollateralAccount) TableName() string {
	return "collateral_accounts"
}

// PlatformState is the singleton bookkeeping row (id = 1)
type PlatformState struct {
	ID                int64 `gorm:"primaryKey"`
	AggregateExposure int64 `gorm:"not null;default:0"`
	TreasuryBalance   int64 `gorm:"not null;default:0"`
	UpdatedAt         time.Time
}

func (PlatformState) TableName() string {
	return "platform_state"
}
