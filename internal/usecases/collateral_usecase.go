package usecases

import (
	"context"
	"time"

	"github.com/volatiletech/null/v8"
	"trustlend.backend/internal/domain/entities"
	domainerrors "trustlend.backend/internal/domain/errors"
	"trustlend.backend/internal/domain/repositories"
	"trustlend.backend/pkg/metrics"
	"trustlend.backend/pkg/utils"
)

// Custody is the external value-transfer collaborator. Inbound deposits are
// validated at the caller boundary; only outbound releases go through here.
type Custody interface {
	TransferOut(ctx context.Context, user string, amount int64) error
}

// CollateralUsecase manages per-user available collateral balances
type CollateralUsecase struct {
	collateralRepo repositories.CollateralRepository
	eventRepo      repositories.EventRepository
	uow            repositories.UnitOfWork
	custody        Custody
	dispatch       *Dispatch
	metrics        *metrics.Collector
	now            func() time.Time
}

// NewCollateralUsecase creates a new collateral usecase
func NewCollateralUsecase(
	collateralRepo repositories.CollateralRepository,
	eventRepo repositories.EventRepository,
	uow repositories.UnitOfWork,
	custody Custody,
	dispatch *Dispatch,
	collector *metrics.Collector,
) *CollateralUsecase {
	return &CollateralUsecase{
		collateralRepo: collateralRepo,
		eventRepo:      eventRepo,
		uow:            uow,
		custody:        custody,
		dispatch:       dispatch,
		metrics:        collector,
		now:            time.Now,
	}
}

// SetClock overrides the time source
func (u *CollateralUsecase) SetClock(clock func() time.Time) {
	u.now = clock
}

// Deposit credits received value to the user's available balance and
// returns the new balance.
func (u *CollateralUsecase) Deposit(ctx context.Context, user string, amount int64) (int64, error) {
	addr, err := normalizeAddress(user)
	if err != nil {
		return 0, err
	}
	if amount <= 0 {
		return 0, domainerrors.ErrInvalidInput
	}

	var balance int64
	err = u.dispatch.Run(ctx, func(ctx context.Context) error {
		return u.uow.Do(ctx, func(ctx context.Context) error {
			if _, err := u.collateralRepo.GetOrCreate(ctx, addr); err != nil {
				return err
			}
			if err := u.collateralRepo.Credit(ctx, addr, amount); err != nil {
				return err
			}
			account, err := u.collateralRepo.GetOrCreate(ctx, addr)
			if err != nil {
				return err
			}
			balance = account.Available

			return u.eventRepo.Append(ctx, &entities.LedgerEvent{
				ID:        utils.GenerateUUIDv7(),
				Type:      entities.EventCollateralDeposited,
				User:      addr,
				Amount:    null.Int64From(amount),
				CreatedAt: u.now(),
			})
		})
	})
	if err != nil {
		return 0, err
	}

	u.metrics.CollateralDeposited(amount)
	return balance, nil
}

// Withdraw debits the user's available balance and triggers the custody
// release. A custody failure rolls the debit back.
func (u *CollateralUsecase) Withdraw(ctx context.Context, user string, amount int64) (int64, error) {
	addr, err := normalizeAddress(user)
	if err != nil {
		return 0, err
	}
	if amount <= 0 {
		return 0, domainerrors.ErrInvalidInput
	}

	var balance int64
	err = u.dispatch.Run(ctx, func(ctx context.Context) error {
		return u.uow.Do(ctx, func(ctx context.Context) error {
			if err := u.collateralRepo.Debit(ctx, addr, amount); err != nil {
				return err
			}
			if err := u.custody.TransferOut(ctx, addr, amount); err != nil {
				return err
			}
			account, err := u.collateralRepo.GetOrCreate(ctx, addr)
			if err != nil {
				return err
			}
			balance = account.Available

			return u.eventRepo.Append(ctx, &entities.LedgerEvent{
				ID:        utils.GenerateUUIDv7(),
				Type:      entities.EventCollateralWithdrawn,
				User:      addr,
				Amount:    null.Int64From(amount),
				CreatedAt: u.now(),
			})
		})
	})
	if err != nil {
		return 0, err
	}

	u.metrics.CollateralWithdrawn(amount)
	return balance, nil
}

// Balance returns the user's available balance
func (u *CollateralUsecase) Balance(ctx context.Context, user string) (int64, error) {
	addr, err := normalizeAddress(user)
	if err != nil {
		return 0, err
	}
	account, err := u.collateralRepo.GetOrCreate(ctx, addr)
	if err != nil {
		return 0, err
	}
	return account.Available, nil
}
