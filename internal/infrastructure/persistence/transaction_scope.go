package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	appledger "github.com/erp/ledger/internal/application/ledger"
	"github.com/erp/ledger/internal/domain/ledger"
	"github.com/erp/ledger/internal/domain/shared"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// A serialization failure or deadlock rolls the transaction back and re-runs
// the whole function with exponential backoff until the retry budget is spent.
type GormTransactionScope struct {
	db          *gorm.DB
	txOptions   *sql.TxOptions
	maxRetries  uint64
	newBackOff  func() backoff.BackOff
	logger      *zap.Logger
	onConflict  func(ctx context.Context, attempt int, err error)
	referenceTB map[ledger.ReferenceKind]ReferenceTable
}

// TransactionScopeOption configures a GormTransactionScope
type TransactionScopeOption func(*GormTransactionScope)

// WithTxOptions sets the isolation level; nil uses the driver default
func WithTxOptions(opts *sql.TxOptions) TransactionScopeOption {
	return func(s *GormTransactionScope) {
		s.txOptions = opts
	}
}

// WithMaxRetries bounds how many times a conflicting transaction is re-run
func WithMaxRetries(n int) TransactionScopeOption {
	return func(s *GormTransactionScope) {
		if n < 0 {
			n = 0
		}
		s.maxRetries = uint64(n)
	}
}

// WithRetryInterval sets the first backoff delay
func WithRetryInterval(initial time.Duration) TransactionScopeOption {
	return func(s *GormTransactionScope) {
		s.newBackOff = func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = initial
			b.MaxElapsedTime = 0
			return b
		}
	}
}

// WithBackOff replaces the backoff policy, e.g. with backoff.ZeroBackOff in tests
func WithBackOff(factory func() backoff.BackOff) TransactionScopeOption {
	return func(s *GormTransactionScope) {
		s.newBackOff = factory
	}
}

// WithScopeLogger sets the logger used for retry warnings
func WithScopeLogger(l *zap.Logger) TransactionScopeOption {
	return func(s *GormTransactionScope) {
		s.logger = l
	}
}

// WithConflictObserver registers a callback invoked before each retry
func WithConflictObserver(fn func(ctx context.Context, attempt int, err error)) TransactionScopeOption {
	return func(s *GormTransactionScope) {
		s.onConflict = fn
	}
}

// WithReferenceTables overrides the registered reference tables
func WithReferenceTables(tables map[ledger.ReferenceKind]ReferenceTable) TransactionScopeOption {
	return func(s *GormTransactionScope) {
		s.referenceTB = tables
	}
}

// NewGormTransactionScope creates a new GormTransactionScope.
// Defaults: serializable isolation, 3 retries starting at 20ms.
func NewGormTransactionScope(db *gorm.DB, opts ...TransactionScopeOption) *GormTransactionScope {
	s := &GormTransactionScope{
		db:          db,
		txOptions:   &sql.TxOptions{Isolation: sql.LevelSerializable},
		maxRetries:  3,
		logger:      zap.NewNop(),
		referenceTB: DefaultReferenceTables(),
	}
	WithRetryInterval(20 * time.Millisecond)(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Execute runs fn within a database transaction.
// If fn returns an error, the transaction is rolled back and the error is
// translated into a domain error. Only Conflict errors are retried.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appledger.TransactionalRepositories) error) error {
	attempt := 0
	operation := func() error {
		attempt++
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(newGormRepositories(tx, s.referenceTB))
		}, s.txOptions)
		if err == nil {
			return nil
		}
		err = TranslateError(err)
		if errors.Is(err, shared.ErrConflict) {
			return err
		}
		return backoff.Permanent(err)
	}
	notify := func(err error, wait time.Duration) {
		s.logger.Warn("transaction conflict, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
		if s.onConflict != nil {
			s.onConflict(ctx, attempt, err)
		}
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(s.newBackOff(), s.maxRetries), ctx)
	return backoff.RetryNotify(operation, policy, notify)
}

// NewGormRepositories returns repositories bound to db outside of any transaction, for reads
func NewGormRepositories(db *gorm.DB) appledger.TransactionalRepositories {
	return newGormRepositories(db, DefaultReferenceTables())
}

// gormRepositories provides access to all repositories on one handle
type gormRepositories struct {
	db     *gorm.DB
	tables map[ledger.ReferenceKind]ReferenceTable
}

func newGormRepositories(db *gorm.DB, tables map[ledger.ReferenceKind]ReferenceTable) *gormRepositories {
	return &gormRepositories{db: db, tables: tables}
}

// Accounts returns the account repository scoped to the current handle
func (r *gormRepositories) Accounts() ledger.AccountRepository {
	return NewGormAccountRepository(r.db)
}

// Installments returns the installment repository scoped to the current handle
func (r *gormRepositories) Installments() ledger.InstallmentRepository {
	return NewGormInstallmentRepository(r.db)
}

// Payments returns the payment repository scoped to the current handle
func (r *gormRepositories) Payments() ledger.PaymentRepository {
	return NewGormPaymentRepository(r.db)
}

// Allocations returns the allocation repository scoped to the current handle
func (r *gormRepositories) Allocations() ledger.AllocationRepository {
	return NewGormAllocationRepository(r.db)
}

// References returns the repository of one reference kind
func (r *gormRepositories) References(kind ledger.ReferenceKind) ledger.ReferenceRepository {
	table, ok := r.tables[kind]
	if !ok {
		return nil
	}
	return NewGormReferenceRepository(r.db, kind, table)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appledger.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormRepositories implements TransactionalRepositories
var _ appledger.TransactionalRepositories = (*gormRepositories)(nil)
