package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"trustlend.backend/internal/domain/entities"
	"trustlend.backend/internal/infrastructure/models"
)

// ProfileRepository implements borrower profile data operations on GORM
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func toProfileEntity(m *models.UserProfile) *entities.UserProfile {
	return &entities.UserProfile{
		Address:            m.Address,
		TotalBorrowed:      m.TotalBorrowed,
		TotalRepaid:        m.TotalRepaid,
		DefaultCount:       m.DefaultCount,
		LatePaymentCount:   m.LatePaymentCount,
		OnTimePaymentCount: m.OnTimePaymentCount,
		TrustScore:         m.TrustScore,
		CollateralLocked:   m.CollateralLocked,
		Blacklisted:        m.Blacklisted,
		LastLoanAt:         m.LastLoanAt,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

// GetOrCreate returns the profile, creating it with the initial trust score
// on first observation.
func (r *ProfileRepository) GetOrCreate(ctx context.Context, address string) (*entities.UserProfile, error) {
	db := GetDB(ctx, r.db).WithContext(ctx)

	var m models.UserProfile
	err := db.First(&m, "address = ?", address).Error
	if err == nil {
		return toProfileEntity(&m), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	m = models.UserProfile{
		Address:    address,
		TrustScore: entities.InitialTrustScore,
	}
	if err := db.Create(&m).Error; err != nil {
		return nil, err
	}
	return toProfileEntity(&m), nil
}

// Get returns the profile or gorm.ErrRecordNotFound
func (r *ProfileRepository) Get(ctx context.Context, address string) (*entities.UserProfile, error) {
	var m models.UserProfile
	if err := GetDB(ctx, r.db).WithContext(ctx).First(&m, "address = ?", address).Error; err != nil {
		return nil, err
	}
	return toProfileEntity(&m), nil
}

// Update persists the full profile row. Callers mutate the entity inside a
// unit-of-work scope, so a plain save is race free.
func (r *ProfileRepository) Update(ctx context.Context, profile *entities.UserProfile) error {
	m := models.UserProfile{
		Address:            profile.Address,
		TotalBorrowed:      profile.TotalBorrowed,
		TotalRepaid:        profile.TotalRepaid,
		DefaultCount:       profile.DefaultCount,
		LatePaymentCount:   profile.LatePaymentCount,
		OnTimePaymentCount: profile.OnTimePaymentCount,
		TrustScore:         profile.TrustScore,
		CollateralLocked:   profile.CollateralLocked,
		Blacklisted:        profile.Blacklisted,
		LastLoanAt:         profile.LastLoanAt,
		CreatedAt:          profile.CreatedAt,
	}
	return GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.UserProfile{}).
		Where("address = ?", profile.Address).
		Select("total_borrowed", "total_repaid", "default_count", "late_payment_count",
			"on_time_payment_count", "trust_score", "collateral_locked", "blacklisted", "last_loan_at").
		Updates(&m).Error
}
