package repositories

import (
	"context"

	"trustlend.backend/internal/domain/entities"
)

// ProfileRepository defines borrower profile data operations. Profiles are
// created lazily and never deleted.
type ProfileRepository interface {
	// GetOrCreate returns the profile for the address, creating it with the
	// initial trust score on first observation.
	GetOrCreate(ctx context.Context, address string) (*entities.UserProfile, error)
	Get(ctx context.Context, address string) (*entities.UserProfile, error)
	Update(ctx context.Context, profile *entities.UserProfile) error
}

// CollateralRepository defines available-balance accounting. Locked amounts
// live on the borrower profile; only the available side is held here.
type CollateralRepository interface {
	GetOrCreate(ctx context.Context, address string) (*entities.CollateralAccount, error)
	// Credit adds to the available balance.
	Credit(ctx context.Context, address string, amount int64) error
	// Debit removes from the available balance, failing with
	// ErrInsufficientBalance when the balance would go negative.
	Debit(ctx context.Context, address string, amount int64) error
}

// PlatformRepository owns the singleton platform bookkeeping row.
type PlatformRepository interface {
	Get(ctx context.Context) (*entities.PlatformState, error)
	AddExposure(ctx context.Context, delta int64) error
	CreditTreasury(ctx context.Context, amount int64) error
}
