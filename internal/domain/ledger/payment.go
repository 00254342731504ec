package ledger

import (
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Allocation applies part of a payment to exactly one installment
type Allocation struct {
	ID                      uuid.UUID
	PaymentID               uuid.UUID
	PayableInstallmentID    *uuid.UUID
	ReceivableInstallmentID *uuid.UUID
	Amount                  decimal.Decimal
	CreatedAt               time.Time
}

// NewAllocationTo builds an allocation request for an installment of the given account type.
// An unknown type leaves both targets unset, which the validator rejects.
func NewAllocationTo(accountType AccountType, installmentID uuid.UUID, amount decimal.Decimal) Allocation {
	alloc := Allocation{Amount: amount}
	id := installmentID
	switch accountType {
	case AccountTypePayable:
		alloc.PayableInstallmentID = &id
	case AccountTypeReceivable:
		alloc.ReceivableInstallmentID = &id
	}
	return alloc
}

// Target returns the account type and installment id the allocation points at.
// ok is false unless exactly one target is set.
func (a Allocation) Target() (accountType AccountType, installmentID uuid.UUID, ok bool) {
	switch {
	case a.PayableInstallmentID != nil && a.ReceivableInstallmentID == nil:
		return AccountTypePayable, *a.PayableInstallmentID, true
	case a.ReceivableInstallmentID != nil && a.PayableInstallmentID == nil:
		return AccountTypeReceivable, *a.ReceivableInstallmentID, true
	}
	return "", uuid.Nil, false
}

// InstallmentID returns the target installment id, or uuid.Nil when the target is ambiguous
func (a Allocation) InstallmentID() uuid.UUID {
	_, id, _ := a.Target()
	return id
}

// Payment is a recorded payment or receipt, composed of allocations
type Payment struct {
	shared.TenantAggregateRoot
	Amount      decimal.Decimal
	PaymentDate time.Time
	Method      PaymentMethod
	Reference   string
	Notes       string
	Allocations []Allocation
}

// NewPaymentParams holds the inputs for NewPayment
type NewPaymentParams struct {
	Amount      decimal.Decimal
	PaymentDate time.Time
	Method      PaymentMethod
	Reference   string
	Notes       string
	Allocations []Allocation
}

// NewPayment creates a payment and stamps its allocations.
// Allocation consistency is checked by AllocationValidator before this is called.
func NewPayment(tenantID uuid.UUID, p NewPaymentParams) (*Payment, error) {
	if !p.Amount.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "payment amount must be positive")
	}
	if p.PaymentDate.IsZero() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "payment date is required")
	}
	if !p.Method.IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "invalid payment method: "+p.Method.String())
	}

	payment := &Payment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Amount:              p.Amount,
		PaymentDate:         DateOf(p.PaymentDate),
		Method:              p.Method,
		Reference:           p.Reference,
		Notes:               p.Notes,
		Allocations:         make([]Allocation, 0, len(p.Allocations)),
	}
	for _, a := range p.Allocations {
		a.ID = uuid.New()
		a.PaymentID = payment.ID
		a.CreatedAt = payment.CreatedAt
		payment.Allocations = append(payment.Allocations, a)
	}
	return payment, nil
}

// PaymentDetails are the editable fields of a payment; nil leaves a field unchanged
type PaymentDetails struct {
	PaymentDate time.Time
	Method      *PaymentMethod
	Reference   *string
	Notes       *string
}

// UpdateDetails changes payment metadata. Amount and allocations are not editable.
func (p *Payment) UpdateDetails(d PaymentDetails) error {
	if d.PaymentDate.IsZero() {
		return shared.NewDomainError(shared.CodeInvalidInput, "payment date is required")
	}
	if d.Method != nil && !d.Method.IsValid() {
		return shared.NewDomainError(shared.CodeInvalidInput, "invalid payment method: "+d.Method.String())
	}
	p.PaymentDate = DateOf(d.PaymentDate)
	if d.Method != nil {
		p.Method = *d.Method
	}
	if d.Reference != nil {
		p.Reference = *d.Reference
	}
	if d.Notes != nil {
		p.Notes = *d.Notes
	}
	p.Touch()
	return nil
}

// AllocatedTotal sums the allocation amounts
func (p *Payment) AllocatedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, a := range p.Allocations {
		total = total.Add(a.Amount)
	}
	return total
}

// IsOrphaned reports whether every allocation has been removed
func (p *Payment) IsOrphaned() bool {
	return len(p.Allocations) == 0
}

// SyncAmountToAllocations shrinks the amount to the remaining allocations after a
// cascade removed some of them. It reports whether the amount changed.
func (p *Payment) SyncAmountToAllocations() bool {
	total := p.AllocatedTotal()
	if valueobject.EqualWithinTolerance(total, p.Amount) {
		return false
	}
	p.Amount = total
	p.Touch()
	return true
}
