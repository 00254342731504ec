package ledger

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/erp/ledger/internal/domain/ledger"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CascadeResult reports what CascadeInstallmentRemoval changed
type CascadeResult struct {
	DeletedAllocations int64
	DeletedPaymentIDs  []uuid.UUID
	AdjustedPaymentIDs []uuid.UUID
}

// Reconciler keeps derived values consistent after writes.
// All methods run against the repositories of an open transaction.
type Reconciler struct {
	logger *zap.Logger
}

// NewReconciler creates a Reconciler
func NewReconciler(l *zap.Logger) *Reconciler {
	if l == nil {
		l = zap.NewNop()
	}
	return &Reconciler{logger: l}
}

// RecomputeAccountTotals reloads an account, derives amount, paid amount, status and
// installment count from its installments, and writes the result
func (r *Reconciler) RecomputeAccountTotals(ctx context.Context, repos TransactionalRepositories, tenantID, accountID uuid.UUID) (*ledger.Account, error) {
	account, err := repos.Accounts().FindByIDForTenant(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	account.Recompute()
	if err := repos.Accounts().Save(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to save account totals: %w", err)
	}
	return account, nil
}

// CascadeInstallmentRemoval runs before installments are deleted. It removes every
// allocation that targets them, deletes payments left without allocations and
// shrinks the amount of the rest to what is still allocated.
// Paid amounts of other installments are not touched.
func (r *Reconciler) CascadeInstallmentRemoval(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID, installmentIDs []uuid.UUID) (CascadeResult, error) {
	var result CascadeResult
	if len(installmentIDs) == 0 {
		return result, nil
	}

	allocs, err := repos.Allocations().FindByInstallmentIDs(ctx, installmentIDs)
	if err != nil {
		return result, fmt.Errorf("failed to find allocations: %w", err)
	}
	if len(allocs) == 0 {
		return result, nil
	}

	paymentIDs := make([]uuid.UUID, 0, len(allocs))
	seen := make(map[uuid.UUID]struct{}, len(allocs))
	for _, a := range allocs {
		if _, ok := seen[a.PaymentID]; ok {
			continue
		}
		seen[a.PaymentID] = struct{}{}
		paymentIDs = append(paymentIDs, a.PaymentID)
	}

	result.DeletedAllocations, err = repos.Allocations().DeleteByInstallmentIDs(ctx, installmentIDs)
	if err != nil {
		return result, fmt.Errorf("failed to delete allocations: %w", err)
	}

	payments, err := repos.Payments().FindByIDsForTenant(ctx, tenantID, paymentIDs)
	if err != nil {
		return result, fmt.Errorf("failed to load affected payments: %w", err)
	}
	slices.SortFunc(payments, func(a, b *ledger.Payment) int {
		return strings.Compare(a.ID.String(), b.ID.String())
	})

	for _, p := range payments {
		if p.IsOrphaned() {
			if err := repos.Payments().DeleteForTenant(ctx, tenantID, p.ID); err != nil {
				return result, fmt.Errorf("failed to delete orphaned payment: %w", err)
			}
			result.DeletedPaymentIDs = append(result.DeletedPaymentIDs, p.ID)
			continue
		}
		if p.SyncAmountToAllocations() {
			if err := repos.Payments().Update(ctx, p); err != nil {
				return result, fmt.Errorf("failed to adjust payment amount: %w", err)
			}
			result.AdjustedPaymentIDs = append(result.AdjustedPaymentIDs, p.ID)
		}
	}

	r.logger.Debug("Cascaded installment removal",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("installments", len(installmentIDs)),
		zap.Int64("allocations_deleted", result.DeletedAllocations),
		zap.Int("payments_deleted", len(result.DeletedPaymentIDs)),
		zap.Int("payments_adjusted", len(result.AdjustedPaymentIDs)),
	)
	return result, nil
}

// accountSet holds the accounts touched by a payment write, keyed by account id
type accountSet struct {
	accounts     map[uuid.UUID]*ledger.Account
	installments map[uuid.UUID]*ledger.Installment
	order        []uuid.UUID
}

// loadAccountsFor loads every account owning one of the installments, together with
// all of its installments, so paid amounts and totals can be updated in one pass
func loadAccountsFor(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID, installmentIDs []uuid.UUID) (*accountSet, error) {
	set := &accountSet{
		accounts:     map[uuid.UUID]*ledger.Account{},
		installments: map[uuid.UUID]*ledger.Installment{},
	}
	if len(installmentIDs) == 0 {
		return set, nil
	}

	found, err := repos.Installments().FindByIDsForTenant(ctx, tenantID, installmentIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load installments: %w", err)
	}
	for _, inst := range found {
		if _, ok := set.accounts[inst.AccountID]; ok {
			continue
		}
		set.accounts[inst.AccountID] = nil
		set.order = append(set.order, inst.AccountID)
	}
	// Stable lock order across concurrent writers
	slices.SortFunc(set.order, func(a, b uuid.UUID) int {
		return strings.Compare(a.String(), b.String())
	})

	for _, accountID := range set.order {
		account, err := repos.Accounts().FindByIDForTenant(ctx, tenantID, accountID)
		if err != nil {
			return nil, err
		}
		set.accounts[accountID] = account
		for _, inst := range account.Installments {
			set.installments[inst.ID] = inst
		}
	}

	for _, id := range installmentIDs {
		if _, ok := set.installments[id]; !ok {
			return nil, shared.NewDomainError(shared.CodeNotFound, "installment not found")
		}
	}
	return set, nil
}

// saveAll recomputes and writes every loaded account
func (s *accountSet) saveAll(ctx context.Context, repos TransactionalRepositories) error {
	for _, accountID := range s.order {
		account := s.accounts[accountID]
		account.Recompute()
		if err := repos.Accounts().Save(ctx, account); err != nil {
			return fmt.Errorf("failed to save account: %w", err)
		}
	}
	return nil
}
