package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createLoanTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE loans (
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
	);`)
}

func createProfileTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE user_profiles (
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
	);`)
}

func createCollateralTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE collateral_accounts (
		address TEXT PRIMARY KEY,
		available INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createPlatformTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE platform_state (
		id INTEGER PRIMARY KEY,
		aggregate_exposure INTEGER NOT NULL DEFAULT 0,
		treasury_balance INTEGER NOT NULL DEFAULT 0,
		updated_at DATETIME
	);`)
}

func createEventTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE ledger_events (
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
	);`)
}

func createAllTables(t *testing.T, db *gorm.DB) {
	t.Helper()
	createLoanTable(t, db)
	createProfileTable(t, db)
	createCollateralTable(t, db)
	createPlatformTable(t, db)
	createEventTable(t, db)
}
