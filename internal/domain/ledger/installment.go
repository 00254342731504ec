package ledger

import (
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Installment is one scheduled sub-payment of an account
type Installment struct {
	shared.BaseEntity
	AccountID         uuid.UUID
	InstallmentNumber int
	TotalInstallments int
	Amount            decimal.Decimal
	PaidAmount        decimal.Decimal
	DueDate           time.Time
	Status            Status
	Notes             string
	TagIDs            []uuid.UUID
}

// NewInstallment creates a pending installment
func NewInstallment(accountID uuid.UUID, amount decimal.Decimal, dueDate time.Time) (*Installment, error) {
	if !amount.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "installment amount must be positive")
	}
	if dueDate.IsZero() {
		return nil, shared.NewDomainError(shared.CodeInvalidDueDate, "installment due date is required")
	}
	return &Installment{
		BaseEntity: shared.NewBaseEntity(),
		AccountID:  accountID,
		Amount:     amount,
		PaidAmount: decimal.Zero,
		DueDate:    DateOf(dueDate),
		Status:     StatusPending,
		TagIDs:     []uuid.UUID{},
	}, nil
}

// Outstanding returns what is still owed
func (i *Installment) Outstanding() decimal.Decimal {
	rest := i.Amount.Sub(i.PaidAmount)
	if rest.IsNegative() {
		return decimal.Zero
	}
	return rest
}

// IsOverdue reports whether the installment is open and its due day is before today
func (i *Installment) IsOverdue(today time.Time) bool {
	return i.Status.IsOpen() && DateOf(i.DueDate).Before(DateOf(today))
}

// ApplyAllocation raises the paid amount and advances the status
func (i *Installment) ApplyAllocation(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.ErrInvalidAllocationAmount
	}
	if i.Status == StatusCancelled {
		return shared.NewDomainError(shared.CodeInvalidState, "cannot allocate to a cancelled installment")
	}
	paid := i.PaidAmount.Add(amount)
	if valueobject.ExceedsWithTolerance(paid, i.Amount) {
		return shared.NewDomainError(shared.CodeOverAllocation,
			"allocation of "+amount.StringFixed(2)+" exceeds outstanding balance "+i.Outstanding().StringFixed(2))
	}
	i.PaidAmount = paid
	i.refreshStatus()
	i.Touch()
	return nil
}

// RevertAllocation lowers the paid amount when a payment is deleted by the user
func (i *Installment) RevertAllocation(amount decimal.Decimal) {
	paid := i.PaidAmount.Sub(amount)
	if paid.IsNegative() {
		paid = decimal.Zero
	}
	i.PaidAmount = paid
	i.refreshStatus()
	i.Touch()
}

func (i *Installment) refreshStatus() {
	if i.Status == StatusCancelled {
		return
	}
	switch {
	case !i.PaidAmount.IsPositive():
		i.Status = StatusPending
	case valueobject.ReachesWithTolerance(i.PaidAmount, i.Amount):
		i.Status = StatusPaid
	default:
		i.Status = StatusPartial
	}
}

// EnsureScheduleEditable fails unless amount and due date may change.
// Allocations are checked first so a partially paid installment reports that it has payments.
func (i *Installment) EnsureScheduleEditable(allocationCount int64) error {
	if allocationCount > 0 || i.PaidAmount.IsPositive() {
		return shared.ErrInstallmentHasPayments
	}
	if i.Status != StatusPending {
		return shared.ErrInstallmentNotEditable
	}
	return nil
}

// ChangeAmount sets a new amount; callers check EnsureScheduleEditable first
func (i *Installment) ChangeAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError(shared.CodeInvalidInput, "installment amount must be positive")
	}
	i.Amount = amount
	i.Touch()
	return nil
}

// ChangeDueDate sets a new due date; callers check EnsureScheduleEditable first
func (i *Installment) ChangeDueDate(dueDate time.Time) {
	i.DueDate = DateOf(dueDate)
	i.Touch()
}

// SetNotes replaces the notes
func (i *Installment) SetNotes(notes string) {
	i.Notes = notes
	i.Touch()
}

// SetTags replaces the tag set
func (i *Installment) SetTags(tagIDs []uuid.UUID) {
	i.TagIDs = uniqueIDs(tagIDs)
	i.Touch()
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
