package entities

import (
	"time"
)

// Trust score bounds. Scores saturate at the bounds, they never wrap.
const (
	MinTrustScore = 0
	MaxTrustScore = 1000

	// InitialTrustScore is assigned when a profile is first observed.
	InitialTrustScore = 500
)

// RiskLevel is the qualitative tier derived from a borrower's score and
// default history
type RiskLevel string

const (
	RiskLevelVeryLow    RiskLevel = "VERY_LOW"
	RiskLevelLow        RiskLevel = "LOW"
	RiskLevelMedium     RiskLevel = "MEDIUM"
	RiskLevelMediumHigh RiskLevel = "MEDIUM_HIGH"
	RiskLevelHigh       RiskLevel = "HIGH"
)

// UserProfile represents a borrower's cumulative history. Profiles are
// created lazily on first observation and never destroyed. Blacklisted is
// one-way: once set it is never cleared.
type UserProfile struct {
	Address            string     `json:"address" gorm:"primary_key"`
	TotalBorrowed      int64      `json:"totalBorrowed"`
	TotalRepaid        int64      `json:"totalRepaid"`
	DefaultCount       int        `json:"defaultCount"`
	LatePaymentCount   int        `json:"latePaymentCount"`
	OnTimePaymentCount int        `json:"onTimePaymentCount"`
	TrustScore         int        `json:"trustScore"`
	CollateralLocked   int64      `json:"collateralLocked"`
	Blacklisted        bool       `json:"blacklisted"`
	LastLoanAt         *time.Time `json:"lastLoanAt,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// CollateralAccount is a user's available (unlocked) collateral balance,
// disjoint from UserProfile.CollateralLocked.
type CollateralAccount struct {
	Address   string    `json:"address" gorm:"primary_key"`
	Available int64     `json:"available"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
