package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"trustlend.backend/internal/domain/entities"
	domainerrors "trustlend.backend/internal/domain/errors"
	"trustlend.backend/internal/infrastructure/models"
)

// CollateralRepository implements available-balance accounting on GORM
type CollateralRepository struct {
	db *gorm.DB
}

// NewCollateralRepository creates a new collateral repository
func NewCollateralRepository(db *gorm.DB) *CollateralRepository {
	return &CollateralRepository{db: db}
}

// GetOrCreate returns the account, creating an empty one on first use
func (r *CollateralRepository) GetOrCreate(ctx context.Context, address string) (*entities.CollateralAccount, error) {
	db := GetDB(ctx, r.db).WithContext(ctx)

	var m models.CollateralAccount
	err := db.First(&m, "address = ?", address).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		m = models.CollateralAccount{Address: address}
		err = db.Create(&m).Error
	}
	if err != nil {
		return nil, err
	}
	return &entities.CollateralAccount{
		Address:   m.Address,
		Available: m.Available,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

// Credit adds to the available balance
func (r *CollateralRepository) Credit(ctx context.Context, address string, amount int64) error {
	if _, err := r.GetOrCreate(ctx, address); err != nil {
		return err
	}
	return GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.CollateralAccount{}).
		Where("address = ?", address).
		Update("available", gorm.Expr("available + ?", amount)).Error
}

// Debit removes from the available balance. The guard is in the WHERE
// clause so the balance can never go negative, even under races.
func (r *CollateralRepository) Debit(ctx context.Context, address string, amount int64) error {
	res := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.CollateralAccount{}).
		Where("address = ? AND available >= ?", address, amount).
		Update("available", gorm.Expr("available - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrInsufficientBalance
	}
	return nil
}
