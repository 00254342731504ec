package ledger

import (
	"context"

	"github.com/erp/ledger/internal/domain/ledger"
)

// TransactionScope runs ledger writes atomically.
// Execute may invoke fn more than once when the database reports a
// serialization conflict, so fn must not keep state between attempts.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all ledger repositories.
// Inside TransactionScope.Execute they share one database transaction.
type TransactionalRepositories interface {
	// Accounts returns the account aggregate repository
	Accounts() ledger.AccountRepository
	// Installments returns the repository for single installment reads and writes
	Installments() ledger.InstallmentRepository
	// Payments returns the payment aggregate repository
	Payments() ledger.PaymentRepository
	// Allocations returns the allocation row repository used by cascades
	Allocations() ledger.AllocationRepository
	// References returns the repository for one reference kind, or nil if the kind is not registered
	References(kind ledger.ReferenceKind) ledger.ReferenceRepository
}

// NoOpTransactionScope runs fn directly against the given repositories.
// It is used by unit tests that mock the repositories.
type NoOpTransactionScope struct {
	repos TransactionalRepositories
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(repos TransactionalRepositories) *NoOpTransactionScope {
	return &NoOpTransactionScope{repos: repos}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s.repos)
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
