package ledger

import (
	"fmt"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account is a payable or receivable, the parent of one or more installments.
// Amount, PaidAmount, Status and TotalInstallments are always derived from the installments.
type Account struct {
	shared.TenantAggregateRoot
	Type              AccountType
	CounterpartyID    uuid.UUID
	CategoryID        *uuid.UUID
	Description       string
	Amount            decimal.Decimal
	PaidAmount        decimal.Decimal
	Status            Status
	TotalInstallments int
	TagIDs            []uuid.UUID
	Installments      []*Installment
}

// NewAccountParams holds the inputs for NewAccount
type NewAccountParams struct {
	Type             AccountType
	CounterpartyID   uuid.UUID
	CategoryID       *uuid.UUID
	Description      string
	Amount           decimal.Decimal
	InstallmentCount int
	DueDates         []time.Time
	TagIDs           []uuid.UUID
}

// NewAccount creates an account with its installments in one step.
// The amount is split evenly to cents with the remainder on the last installment.
func NewAccount(tenantID uuid.UUID, p NewAccountParams) (*Account, error) {
	if !p.Type.IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "account type must be payable or receivable")
	}
	if p.CounterpartyID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "counterparty is required")
	}
	if !p.Amount.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "amount must be positive")
	}
	if p.InstallmentCount < 1 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "installment count must be at least 1")
	}
	if len(p.DueDates) != p.InstallmentCount {
		return nil, shared.NewDomainError(shared.CodeInvalidInput,
			fmt.Sprintf("expected %d due dates, got %d", p.InstallmentCount, len(p.DueDates)))
	}

	amounts, err := valueobject.SplitEvenly(valueobject.RoundMoney(p.Amount), p.InstallmentCount)
	if err != nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, err.Error())
	}

	account := &Account{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Type:                p.Type,
		CounterpartyID:      p.CounterpartyID,
		CategoryID:          p.CategoryID,
		Description:         p.Description,
		TagIDs:              uniqueIDs(p.TagIDs),
		Installments:        make([]*Installment, 0, p.InstallmentCount),
	}
	for idx, due := range p.DueDates {
		inst, err := NewInstallment(account.ID, amounts[idx], due)
		if err != nil {
			return nil, err
		}
		inst.InstallmentNumber = idx + 1
		account.Installments = append(account.Installments, inst)
	}

	Reorder(account.Installments)
	account.Recompute()
	return account, nil
}

// Recompute derives the aggregate fields from the installments
func (a *Account) Recompute() {
	amount := decimal.Zero
	paid := decimal.Zero
	for _, inst := range a.Installments {
		amount = amount.Add(inst.Amount)
		paid = paid.Add(inst.PaidAmount)
		inst.TotalInstallments = len(a.Installments)
	}
	a.Amount = amount
	a.PaidAmount = paid
	a.TotalInstallments = len(a.Installments)
	a.Status = DeriveAccountStatus(a.Installments)
	a.Touch()
}

// Reorder restores chronological numbering of the installments
func (a *Account) Reorder() {
	Reorder(a.Installments)
}

// Installment finds one of the account's installments
func (a *Account) Installment(id uuid.UUID) (*Installment, error) {
	for _, inst := range a.Installments {
		if inst.ID == id {
			return inst, nil
		}
	}
	return nil, shared.NewDomainError(shared.CodeNotFound, "installment not found")
}

// InstallmentIDs lists the ids of all installments
func (a *Account) InstallmentIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(a.Installments))
	for _, inst := range a.Installments {
		ids = append(ids, inst.ID)
	}
	return ids
}

// RemoveInstallment drops an installment, renumbers the rest and recomputes totals.
// An account keeps at least one installment; remove the account instead.
func (a *Account) RemoveInstallment(id uuid.UUID) error {
	if _, err := a.Installment(id); err != nil {
		return err
	}
	if len(a.Installments) == 1 {
		return shared.NewDomainError(shared.CodeInvalidState,
			"cannot delete the only installment of an account, delete the account instead")
	}
	kept := a.Installments[:0]
	for _, inst := range a.Installments {
		if inst.ID != id {
			kept = append(kept, inst)
		}
	}
	a.Installments = kept
	a.Reorder()
	a.Recompute()
	return nil
}

// Outstanding returns amount minus paid amount
func (a *Account) Outstanding() decimal.Decimal {
	return a.Amount.Sub(a.PaidAmount)
}

// HasOverdue reports whether any installment is overdue on the given day
func (a *Account) HasOverdue(today time.Time) bool {
	for _, inst := range a.Installments {
		if inst.IsOverdue(today) {
			return true
		}
	}
	return false
}

// SetTags replaces the tag set
func (a *Account) SetTags(tagIDs []uuid.UUID) {
	a.TagIDs = uniqueIDs(tagIDs)
	a.Touch()
}
