package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"trustlend.backend/internal/domain/entities"
	"trustlend.backend/internal/infrastructure/models"
)

const platformRowID = 1

// PlatformRepository owns the singleton platform bookkeeping row
type PlatformRepository struct {
	db *gorm.DB
}

// NewPlatformRepository creates a new platform repository
func NewPlatformRepository(db *gorm.DB) *PlatformRepository {
	return &PlatformRepository{db: db}
}

func (r *PlatformRepository) ensureRow(ctx context.Context) (*models.PlatformState, error) {
	db := GetDB(ctx, r.db).WithContext(ctx)

	var m models.PlatformState
	err := db.First(&m, "id = ?", platformRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		m = models.PlatformState{ID: platformRowID}
		err = db.Create(&m).Error
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Get returns the platform state, creating the row lazily
func (r *PlatformRepository) Get(ctx context.Context) (*entities.PlatformState, error) {
	m, err := r.ensureRow(ctx)
	if err != nil {
		return nil, err
	}
	return &entities.PlatformState{
		ID:                m.ID,
		AggregateExposure: m.AggregateExposure,
		TreasuryBalance:   m.TreasuryBalance,
	}, nil
}

// AddExposure adjusts the aggregate exposure by a signed delta
func (r *PlatformRepository) AddExposure(ctx context.Context, delta int64) error {
	if _, err := r.ensureRow(ctx); err != nil {
		return err
	}
	return GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.PlatformState{}).
		Where("id = ?", platformRowID).
		Update("aggregate_exposure", gorm.Expr("aggregate_exposure + ?", delta)).Error
}

// CreditTreasury adds liquidated collateral to the treasury balance
func (r *PlatformRepository) CreditTreasury(ctx context.Context, amount int64) error {
	if _, err := r.ensureRow(ctx); err != nil {
		return err
	}
	return GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.PlatformState{}).
		Where("id = ?", platformRowID).
		Update("treasury_balance", gorm.Expr("treasury_balance + ?", amount)).Error
}
