package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	appledger "github.com/erp/ledger/internal/application/ledger"
	"github.com/erp/ledger/internal/domain/ledger"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDatabase creates a Database instance with a mocked SQL connection
func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	return &Database{DB: gormDB}, mock, mockDB
}

func TestDatabase_Ping(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	mock.ExpectPing()
	assert.NoError(t, db.Ping())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_Close(t *testing.T) {
	db, mock, _ := newMockDatabase(t)

	mock.ExpectClose()
	assert.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_Stats(t *testing.T) {
	db, _, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	stats, err := db.Stats()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.OpenConnections, 0)
	assert.Equal(t, stats.OpenConnections, stats.InUse+stats.Idle)
}

func TestTenantScope(t *testing.T) {
	t.Run("adds tenant predicate", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		id := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "payments" WHERE tenant_id = \$1 AND id = \$2`).
			WithArgs(tenantID, id, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := NewGormPaymentRepository(db.DB).FindByIDForTenant(context.Background(), tenantID, id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("panics on empty tenant", func(t *testing.T) {
		assert.Panics(t, func() {
			tenantScope("tenant_id", uuid.Nil)
		})
	})
}

func TestInstallmentRepository_CountForTenant_SQL(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	tenantID := uuid.New()
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	mock.ExpectQuery(`SELECT count\(\*\) FROM "installments" JOIN accounts ON accounts.id = installments.account_id WHERE accounts.tenant_id = \$1 AND .*accounts.account_type = \$2 AND installments.id IN \(\$3,\$4\)`).
		WithArgs(tenantID, "PAYABLE", ids[0], ids[1]).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := NewGormInstallmentRepository(db.DB).CountForTenant(context.Background(), tenantID, ledger.AccountTypePayable, ids)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTransactionScope_RollsBackOnError(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	scope := NewGormTransactionScope(db.DB, WithTxOptions(nil))
	err := scope.Execute(context.Background(), func(_ appledger.TransactionalRepositories) error {
		return shared.ErrInvalidState
	})
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	assert.NoError(t, mock.ExpectationsWereMet())
}
