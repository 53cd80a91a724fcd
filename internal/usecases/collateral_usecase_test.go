package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trustlend.backend/internal/domain/entities"
	domainerrors "trustlend.backend/internal/domain/errors"
)

func TestDeposit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	balance, err := env.coll.Deposit(ctx, testBorrower, 1_000)
	require.NoError(t, err)
	assert.Equal(t, int64(1_000), balance)

	balance, err = env.coll.Deposit(ctx, testBorrower, 500)
	require.NoError(t, err)
	assert.Equal(t, int64(1_500), balance)

	deposits := env.eventsOfType(t, entities.EventCollateralDeposited)
	require.Len(t, deposits, 2)
	assert.Equal(t, int64(1_000), deposits[0].Amount.Int64)
	assert.Equal(t, int64(500), deposits[1].Amount.Int64)
}

func TestDeposit_NormalizesAddress(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.coll.Deposit(ctx, "0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B", 300)
	require.NoError(t, err)

	// Lookups with any casing of the same address hit the same account.
	balance, err := env.coll.Balance(ctx, "0xab5801a7d398351b8be11c439e05c5b3259aec9b")
	require.NoError(t, err)
	assert.Equal(t, int64(300), balance)
}

func TestDeposit_Rejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.coll.Deposit(ctx, "garbage", 100)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidUser)

	_, err = env.coll.Deposit(ctx, testBorrower, 0)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	_, err = env.coll.Deposit(ctx, testBorrower, -100)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestWithdraw(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.coll.Deposit(ctx, testBorrower, 1_000)
	require.NoError(t, err)

	balance, err := env.coll.Withdraw(ctx, testBorrower, 400)
	require.NoError(t, err)
	assert.Equal(t, int64(600), balance)
	assert.Equal(t, int64(400), env.custody.released[testBorrower])

	withdrawals := env.eventsOfType(t, entities.EventCollateralWithdrawn)
	require.Len(t, withdrawals, 1)
	assert.Equal(t, int64(400), withdrawals[0].Amount.Int64)
}

func TestWithdraw_Insufficient(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.coll.Deposit(ctx, testBorrower, 300)
	require.NoError(t, err)

	_, err = env.coll.Withdraw(ctx, testBorrower, 301)
	assert.ErrorIs(t, err, domainerrors.ErrInsufficientBalance)

	balance, err := env.coll.Balance(ctx, testBorrower)
	require.NoError(t, err)
	assert.Equal(t, int64(300), balance)
	assert.Zero(t, env.custody.released[testBorrower])
}

func TestWithdraw_CustodyFailureRollsBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.coll.Deposit(ctx, testBorrower, 1_000)
	require.NoError(t, err)

	custodyErr := errors.New("rpc unreachable")
	env.custody.fail = custodyErr

	_, err = env.coll.Withdraw(ctx, testBorrower, 400)
	assert.ErrorIs(t, err, custodyErr)

	// The debit rolled back and no withdrawal was logged.
	balance, err := env.coll.Balance(ctx, testBorrower)
	require.NoError(t, err)
	assert.Equal(t, int64(1_000), balance)
	assert.Empty(t, env.eventsOfType(t, entities.EventCollateralWithdrawn))
}

func TestWithdraw_Rejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.coll.Withdraw(ctx, "garbage", 100)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidUser)

	_, err = env.coll.Withdraw(ctx, testBorrower, 0)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestBalance_UnknownUserIsZero(t *testing.T) {
	env := newTestEnv(t)
	balance, err := env.coll.Balance(context.Background(), testBorrower)
	require.NoError(t, err)
	assert.Zero(t, balance)
}
