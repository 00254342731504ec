package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/erp/ledger/internal/domain/ledger"
	"github.com/erp/ledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupLedgerTestDB opens an in-memory SQLite database with the ledger schema.
// One connection keeps every query on the same in-memory database.
func setupLedgerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.AccountModel{},
		&models.InstallmentModel{},
		&models.PaymentModel{},
		&models.AllocationModel{},
	))
	for _, table := range DefaultReferenceTables() {
		require.NoError(t, db.Exec(fmt.Sprintf(`CREATE TABLE %s (
			id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			name TEXT NOT NULL,
			is_active NUMERIC NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`, table.Name)).Error)
	}
	return db
}

// newTestScope returns a scope that retries immediately and leaves isolation to SQLite
func newTestScope(db *gorm.DB, opts ...TransactionScopeOption) *GormTransactionScope {
	base := []TransactionScopeOption{
		WithTxOptions(nil),
		WithBackOff(func() backoff.BackOff { return &backoff.ZeroBackOff{} }),
	}
	return NewGormTransactionScope(db, append(base, opts...)...)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func createReference(t *testing.T, db *gorm.DB, tenantID uuid.UUID, kind ledger.ReferenceKind, name string) *ledger.Reference {
	t.Helper()
	ref, err := ledger.NewReference(tenantID, kind, name)
	require.NoError(t, err)
	repo := NewGormRepositories(db).References(kind)
	require.NoError(t, repo.Create(context.Background(), ref))
	return ref
}

func createAccount(t *testing.T, db *gorm.DB, tenantID uuid.UUID, accountType ledger.AccountType, amount string, dueDates ...string) *ledger.Account {
	t.Helper()
	dates := make([]time.Time, 0, len(dueDates))
	for _, d := range dueDates {
		dates = append(dates, day(d))
	}
	account, err := ledger.NewAccount(tenantID, ledger.NewAccountParams{
		Type:             accountType,
		CounterpartyID:   uuid.New(),
		Description:      "account " + amount,
		Amount:           dec(amount),
		InstallmentCount: len(dates),
		DueDates:         dates,
	})
	require.NoError(t, err)
	require.NoError(t, NewGormAccountRepository(db).Create(context.Background(), account))
	return account
}
