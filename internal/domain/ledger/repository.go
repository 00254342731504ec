package ledger

import (
	"context"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// AccountFilter narrows account lists
type AccountFilter struct {
	shared.Filter
	Type           *AccountType
	Status         *Status
	CounterpartyID *uuid.UUID
	// Today is the day boundary used when Status is StatusOverdue
	Today time.Time
}

// AccountRepository persists accounts together with their installments
type AccountRepository interface {
	// FindByIDForTenant loads an account and its installments ordered by number
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Account, error)

	// FindAllForTenant lists accounts with their installments and the total count
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter AccountFilter) ([]*Account, int64, error)

	// Create inserts an account and all of its installments
	Create(ctx context.Context, account *Account) error

	// Save writes the account's derived fields and every installment row
	Save(ctx context.Context, account *Account) error

	// DeleteForTenant removes the account row only; installments are removed by the caller
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// InstallmentRepository reads and writes individual installments
type InstallmentRepository interface {
	InstallmentCounter

	// FindByIDsForTenant loads installments of any type owned by the tenant
	FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*Installment, error)

	// Save writes one installment
	Save(ctx context.Context, installment *Installment) error

	// DeleteByIDs removes installments
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) error
}

// PaymentRepository persists payments together with their allocations
type PaymentRepository interface {
	// FindByIDForTenant loads a payment and its allocations
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Payment, error)

	// FindByIDsForTenant loads several payments and their allocations
	FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*Payment, error)

	// Create inserts a payment and its allocations
	Create(ctx context.Context, payment *Payment) error

	// Update writes the payment row; allocations are not touched
	Update(ctx context.Context, payment *Payment) error

	// DeleteForTenant removes the payment row
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// AllocationRepository manages allocation rows
type AllocationRepository interface {
	// FindByInstallmentIDs returns allocations targeting any of the installments
	FindByInstallmentIDs(ctx context.Context, installmentIDs []uuid.UUID) ([]Allocation, error)

	// CountByInstallmentID counts allocations targeting one installment
	CountByInstallmentID(ctx context.Context, installmentID uuid.UUID) (int64, error)

	// DeleteByInstallmentIDs removes allocations targeting any of the installments
	DeleteByInstallmentIDs(ctx context.Context, installmentIDs []uuid.UUID) (int64, error)

	// DeleteByPaymentID removes all allocations of a payment
	DeleteByPaymentID(ctx context.Context, paymentID uuid.UUID) error
}

// ReferenceRepository persists one kind of reference entity.
// SupportsSoftDelete decides whether DeleteForTenant deactivates or removes the row.
type ReferenceRepository interface {
	Kind() ReferenceKind
	SupportsSoftDelete() bool
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Reference, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*Reference, int64, error)
	Create(ctx context.Context, ref *Reference) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
	// CountActiveForTenant counts active entities among ids
	CountActiveForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (int64, error)
}

// ReportRepository serves read-side aggregates
type ReportRepository interface {
	SummarizeInstallments(ctx context.Context, tenantID uuid.UUID, from, to, today time.Time) (*InstallmentSummary, error)
}
