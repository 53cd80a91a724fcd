package usecases_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"trustlend.backend/internal/domain/entities"
	infrarepos "trustlend.backend/internal/infrastructure/repositories"
	"trustlend.backend/internal/usecases"
)

const (
	testBorrower  = "0x1111111111111111111111111111111111111111"
	otherBorrower = "0x2222222222222222222222222222222222222222"
	testKeyID     = "attest-key-test"
)

var ledgerSchema = []string{
	`CREATE TABLE loans (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		borrower TEXT NOT NULL,
		principal INTEGER NOT NULL,
		interest_rate INTEGER NOT NULL DEFAULT 0,
		collateral INTEGER NOT NULL,
		due_date DATETIME NOT NULL,
		repayment_date DATETIME,
		late_fee INTEGER,
		status TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE user_profiles (
		address TEXT PRIMARY KEY,
		total_borrowed INTEGER NOT NULL DEFAULT 0,
		total_repaid INTEGER NOT NULL DEFAULT 0,
		default_count INTEGER NOT NULL DEFAULT 0,
		late_payment_count INTEGER NOT NULL DEFAULT 0,
		on_time_payment_count INTEGER NOT NULL DEFAULT 0,
		trust_score INTEGER NOT NULL,
		collateral_locked INTEGER NOT NULL DEFAULT 0,
		blacklisted BOOLEAN NOT NULL DEFAULT 0,
		last_loan_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE collateral_accounts (
		address TEXT PRIMARY KEY,
		available INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE platform_state (
		id INTEGER PRIMARY KEY,
		aggregate_exposure INTEGER NOT NULL DEFAULT 0,
		treasury_balance INTEGER NOT NULL DEFAULT 0,
		updated_at DATETIME
	);`,
	`CREATE TABLE ledger_events (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL,
		type TEXT NOT NULL,
		user_address TEXT NOT NULL,
		loan_id INTEGER,
		amount INTEGER,
		old_score INTEGER,
		new_score INTEGER,
		reason TEXT,
		created_at DATETIME
	);`,
}

// fakeClock is the injected time source for the usecases under test.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// recordingCustody counts outbound releases. fail makes TransferOut error,
// reenter makes it call back into the ledger to provoke the reentrancy guard.
type recordingCustody struct {
	mu       sync.Mutex
	released map[string]int64
	fail     error
	reenter  func(ctx context.Context) error
}

func newRecordingCustody() *recordingCustody {
	return &recordingCustody{released: make(map[string]int64)}
}

func (c *recordingCustody) TransferOut(ctx context.Context, user string, amount int64) error {
	if c.reenter != nil {
		if err := c.reenter(ctx); err != nil {
			return err
		}
	}
	if c.fail != nil {
		return c.fail
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.released[user] += amount
	return nil
}

type testEnv struct {
	db       *gorm.DB
	clock    *fakeClock
	custody  *recordingCustody
	policy   *usecases.PolicyStore
	loans    *usecases.LoanUsecase
	coll     *usecases.CollateralUsecase
	attest   *usecases.AttestationUsecase
	loanRepo *infrarepos.LoanRepository
	profiles *infrarepos.ProfileRepository
	accounts *infrarepos.CollateralRepository
	platform *infrarepos.PlatformRepository
	events   *infrarepos.EventRepository
}

func defaultTestPolicy() entities.LendingPolicy {
	return entities.LendingPolicy{
		MinLoanAmount:       100,
		MaxLoanAmount:       1_000_000,
		MaxLoanDuration:     365 * 86400,
		GracePeriodDays:     3,
		DailyLateFeePercent: 1,
		PlatformFeePercent:  2,
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	for _, stmt := range ledgerSchema {
		require.NoError(t, db.Exec(stmt).Error)
	}

	policy, err := usecases.NewPolicyStore(defaultTestPolicy())
	require.NoError(t, err)

	env := &testEnv{
		db:       db,
		clock:    newFakeClock(),
		custody:  newRecordingCustody(),
		policy:   policy,
		loanRepo: infrarepos.NewLoanRepository(db),
		profiles: infrarepos.NewProfileRepository(db),
		accounts: infrarepos.NewCollateralRepository(db),
		platform: infrarepos.NewPlatformRepository(db),
		events:   infrarepos.NewEventRepository(db),
	}

	uow := infrarepos.NewUnitOfWork(db)
	dispatch := usecases.NewDispatch()
	env.loans = usecases.NewLoanUsecase(env.loanRepo, env.profiles, env.accounts, env.platform, env.events, uow, policy, dispatch, nil)
	env.loans.SetClock(env.clock.Now)
	env.coll = usecases.NewCollateralUsecase(env.accounts, env.events, uow, env.custody, dispatch, nil)
	env.coll.SetClock(env.clock.Now)
	env.attest = usecases.NewAttestationUsecase(env.profiles, env.events, uow, dispatch, nil, testKeyID)
	env.attest.SetClock(env.clock.Now)
	return env
}

// issueFunded deposits collateral and issues one loan for the borrower.
func (env *testEnv) issueFunded(t *testing.T, borrower string, principal, collateral, durationDays int64) *entities.Loan {
	t.Helper()
	ctx := context.Background()
	_, err := env.coll.Deposit(ctx, borrower, collateral)
	require.NoError(t, err)
	loan, err := env.loans.Issue(ctx, &entities.IssueLoanInput{
		Borrower:     borrower,
		Amount:       principal,
		InterestRate: 500,
		Collateral:   collateral,
		DurationDays: durationDays,
	})
	require.NoError(t, err)
	return loan
}

func (env *testEnv) eventsOfType(t *testing.T, et entities.EventType) []*entities.LedgerEvent {
	t.Helper()
	all, _, err := env.events.List(context.Background(), 1000, 0)
	require.NoError(t, err)
	var out []*entities.LedgerEvent
	for _, e := range all {
		if e.Type == et {
			out = append(out, e)
		}
	}
	return out
}
