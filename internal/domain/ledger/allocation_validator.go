package ledger

import (
	"context"
	"fmt"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InstallmentCounter counts installments of one account type owned by a tenant
type InstallmentCounter interface {
	CountForTenant(ctx context.Context, tenantID uuid.UUID, accountType AccountType, ids []uuid.UUID) (int64, error)
}

// AllocationValidator checks proposed allocations before anything is written
type AllocationValidator struct{}

// NewAllocationValidator creates a new AllocationValidator
func NewAllocationValidator() *AllocationValidator {
	return &AllocationValidator{}
}

// Validate runs the sum, target and existence checks in order
func (v *AllocationValidator) Validate(ctx context.Context, counter InstallmentCounter, tenantID uuid.UUID, allocations []Allocation, paymentAmount decimal.Decimal) error {
	if err := v.ValidateSum(allocations, paymentAmount); err != nil {
		return err
	}
	if err := v.ValidateTargets(allocations); err != nil {
		return err
	}
	return v.ValidateInstallmentsExist(ctx, counter, tenantID, allocations)
}

// ValidateSum fails with AmountMismatch unless the allocations add up to the payment amount
func (v *AllocationValidator) ValidateSum(allocations []Allocation, paymentAmount decimal.Decimal) error {
	total := decimal.Zero
	for _, a := range allocations {
		total = total.Add(a.Amount)
	}
	if !valueobject.EqualWithinTolerance(total, paymentAmount) {
		return shared.NewDomainError(shared.CodeAmountMismatch,
			fmt.Sprintf("allocations total %s does not match payment amount %s",
				total.StringFixed(2), paymentAmount.StringFixed(2)))
	}
	return nil
}

// ValidateTargets checks every allocation has exactly one target and a positive amount
func (v *AllocationValidator) ValidateTargets(allocations []Allocation) error {
	for idx, a := range allocations {
		if _, _, ok := a.Target(); !ok {
			return shared.NewDomainError(shared.CodeInvalidAllocationTarget,
				fmt.Sprintf("allocation %d must target exactly one payable or receivable installment", idx+1))
		}
		if !a.Amount.IsPositive() {
			return shared.NewDomainError(shared.CodeInvalidAllocationAmount,
				fmt.Sprintf("allocation %d amount must be positive", idx+1))
		}
	}
	return nil
}

// ValidateInstallmentsExist fails with NotFound unless every referenced installment exists
// under an account of the tenant. Foreign installments look exactly like missing ones.
func (v *AllocationValidator) ValidateInstallmentsExist(ctx context.Context, counter InstallmentCounter, tenantID uuid.UUID, allocations []Allocation) error {
	requested := map[AccountType][]uuid.UUID{}
	seen := map[uuid.UUID]struct{}{}
	for _, a := range allocations {
		accountType, id, ok := a.Target()
		if !ok {
			return shared.ErrInvalidAllocationTarget
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		requested[accountType] = append(requested[accountType], id)
	}

	for _, accountType := range []AccountType{AccountTypePayable, AccountTypeReceivable} {
		ids := requested[accountType]
		if len(ids) == 0 {
			continue
		}
		found, err := counter.CountForTenant(ctx, tenantID, accountType, ids)
		if err != nil {
			return err
		}
		if found != int64(len(ids)) {
			return shared.NewDomainError(shared.CodeNotFound,
				fmt.Sprintf("%d of %d %s installments not found", int64(len(ids))-found, len(ids), accountType))
		}
	}
	return nil
}
