package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/ledger/internal/domain/ledger"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/domain/shared/valueobject"
	"github.com/erp/ledger/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AccountService manages payables, receivables and their installment schedules
type AccountService struct {
	scope      TransactionScope
	reads      TransactionalRepositories
	reconciler *Reconciler
	settings
}

// NewAccountService creates a new AccountService.
// reads serves queries outside of a transaction.
func NewAccountService(scope TransactionScope, reads TransactionalRepositories, opts ...Option) *AccountService {
	s := newSettings(opts)
	return &AccountService{
		scope:      scope,
		reads:      reads,
		reconciler: NewReconciler(s.logger),
		settings:   s,
	}
}

// CreateAccount creates an account and splits its amount across the installments
func (s *AccountService) CreateAccount(ctx context.Context, in CreateAccountInput) (_ *AccountResponse, err error) {
	started := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, "account", "create",
		telemetry.SpanAttrTenantID, in.TenantID,
		telemetry.SpanAttrAccountType, in.Type,
		telemetry.SpanAttrAmount, in.Amount,
	)
	defer func() {
		telemetry.EndSpan(span, err)
		s.metrics.RecordOperation(ctx, "create_account", started, err)
	}()

	accountType, err := ledger.ParseAccountType(in.Type)
	if err != nil {
		return nil, err
	}
	dueDates := make([]time.Time, 0, len(in.DueDates))
	for _, raw := range in.DueDates {
		due, ok, err := ledger.ParseDueDate(raw)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, shared.NewDomainError(shared.CodeInvalidDueDate, "every installment needs a due date")
		}
		dueDates = append(dueDates, due)
	}

	account, err := ledger.NewAccount(in.TenantID, ledger.NewAccountParams{
		Type:             accountType,
		CounterpartyID:   in.CounterpartyID,
		CategoryID:       in.CategoryID,
		Description:      in.Description,
		Amount:           in.Amount,
		InstallmentCount: in.InstallmentCount,
		DueDates:         dueDates,
		TagIDs:           in.TagIDs,
	})
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := ensureActive(ctx, repos, in.TenantID, accountType.CounterpartyKind(), []uuid.UUID{account.CounterpartyID}); err != nil {
			return err
		}
		if account.CategoryID != nil {
			if err := ensureActive(ctx, repos, in.TenantID, ledger.ReferenceKindCategory, []uuid.UUID{*account.CategoryID}); err != nil {
				return err
			}
		}
		if err := ensureActive(ctx, repos, in.TenantID, ledger.ReferenceKindTag, account.TagIDs); err != nil {
			return err
		}
		return repos.Accounts().Create(ctx, account)
	})
	if err != nil {
		return nil, err
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrAccountID, account.ID)
	s.metrics.RecordAccountCreated(ctx, in.TenantID, accountType.String())
	s.log(ctx).Info("Account created",
		zap.String("account_id", account.ID.String()),
		zap.String("type", accountType.String()),
		zap.String("amount", account.Amount.StringFixed(2)),
		zap.Int("installments", account.TotalInstallments),
	)

	resp := ToAccountResponse(account, s.today())
	return &resp, nil
}

// GetAccount returns an account with its installments in due date order
func (s *AccountService) GetAccount(ctx context.Context, tenantID, accountID uuid.UUID) (*AccountResponse, error) {
	account, err := s.reads.Accounts().FindByIDForTenant(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}
	resp := ToAccountResponse(account, s.today())
	return &resp, nil
}

// ListAccounts returns a page of accounts. Status OVERDUE selects accounts with at
// least one open installment due before today.
func (s *AccountService) ListAccounts(ctx context.Context, in ListAccountsInput) (*shared.Paginated[AccountResponse], error) {
	today := s.today()
	filter := ledger.AccountFilter{
		Filter: shared.Filter{
			Page:     in.Page,
			PageSize: in.PageSize,
			OrderBy:  in.OrderBy,
			OrderDir: in.OrderDir,
			Search:   in.Search,
		}.Normalize(),
		CounterpartyID: in.CounterpartyID,
		Today:          today,
	}
	if in.Type != "" {
		accountType, err := ledger.ParseAccountType(in.Type)
		if err != nil {
			return nil, err
		}
		filter.Type = &accountType
	}
	if in.Status != "" {
		status, err := ledger.ParseStatusFilter(in.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = &status
	}

	accounts, total, err := s.reads.Accounts().FindAllForTenant(ctx, in.TenantID, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToAccountResponses(accounts, today), total, filter.Page, filter.PageSize)
	return &page, nil
}

// UpdateInstallment edits one installment. Amount and due date may only change on a
// pending installment without payments; notes and tags may always change.
// A new due date renumbers the schedule.
func (s *AccountService) UpdateInstallment(ctx context.Context, in UpdateInstallmentInput) (_ *AccountResponse, err error) {
	started := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, "account", "update_installment",
		telemetry.SpanAttrTenantID, in.TenantID,
		telemetry.SpanAttrAccountID, in.AccountID,
		telemetry.SpanAttrInstallmentID, in.InstallmentID,
	)
	defer func() {
		telemetry.EndSpan(span, err)
		s.metrics.RecordOperation(ctx, "update_installment", started, err)
	}()

	var newDueDate time.Time
	hasDueDate := false
	if in.DueDate != nil {
		newDueDate, hasDueDate, err = ledger.ParseDueDate(*in.DueDate)
		if err != nil {
			return nil, err
		}
	}
	if in.Amount != nil && !in.Amount.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "installment amount must be positive")
	}

	var account *ledger.Account
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		account, err = repos.Accounts().FindByIDForTenant(ctx, in.TenantID, in.AccountID)
		if err != nil {
			return err
		}
		inst, err := account.Installment(in.InstallmentID)
		if err != nil {
			return err
		}

		amountChanged := in.Amount != nil && !valueobject.RoundMoney(*in.Amount).Equal(inst.Amount)
		dueDateChanged := hasDueDate && !newDueDate.Equal(ledger.DateOf(inst.DueDate))
		if amountChanged || dueDateChanged {
			count, err := repos.Allocations().CountByInstallmentID(ctx, inst.ID)
			if err != nil {
				return fmt.Errorf("failed to count allocations: %w", err)
			}
			if err := inst.EnsureScheduleEditable(count); err != nil {
				return err
			}
		}

		if amountChanged {
			if err := inst.ChangeAmount(valueobject.RoundMoney(*in.Amount)); err != nil {
				return err
			}
		}
		if dueDateChanged {
			inst.ChangeDueDate(newDueDate)
			account.Reorder()
		}
		if in.Notes != nil {
			inst.SetNotes(*in.Notes)
		}
		if in.TagIDs != nil {
			if err := ensureActive(ctx, repos, in.TenantID, ledger.ReferenceKindTag, in.TagIDs); err != nil {
				return err
			}
			inst.SetTags(in.TagIDs)
		}

		account.Recompute()
		return repos.Accounts().Save(ctx, account)
	})
	if err != nil {
		return nil, err
	}

	s.log(ctx).Info("Installment updated",
		zap.String("account_id", in.AccountID.String()),
		zap.String("installment_id", in.InstallmentID.String()),
	)
	resp := ToAccountResponse(account, s.today())
	return &resp, nil
}

// DeleteInstallment removes one installment of an account with several. Allocations
// targeting it are removed first, the remaining installments are renumbered and
// the account totals are recomputed.
func (s *AccountService) DeleteInstallment(ctx context.Context, tenantID, accountID, installmentID uuid.UUID) (_ *AccountResponse, err error) {
	started := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, "account", "delete_installment",
		telemetry.SpanAttrTenantID, tenantID,
		telemetry.SpanAttrAccountID, accountID,
		telemetry.SpanAttrInstallmentID, installmentID,
	)
	defer func() {
		telemetry.EndSpan(span, err)
		s.metrics.RecordOperation(ctx, "delete_installment", started, err)
	}()

	var (
		account *ledger.Account
		cascade CascadeResult
	)
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		account, err = repos.Accounts().FindByIDForTenant(ctx, tenantID, accountID)
		if err != nil {
			return err
		}
		if err := account.RemoveInstallment(installmentID); err != nil {
			return err
		}
		removed := []uuid.UUID{installmentID}
		cascade, err = s.reconciler.CascadeInstallmentRemoval(ctx, repos, tenantID, removed)
		if err != nil {
			return err
		}
		if err := repos.Installments().DeleteByIDs(ctx, removed); err != nil {
			return fmt.Errorf("failed to delete installment: %w", err)
		}
		return repos.Accounts().Save(ctx, account)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordCascadeDeletions(ctx, tenantID, len(cascade.DeletedPaymentIDs))
	s.log(ctx).Info("Installment deleted",
		zap.String("account_id", accountID.String()),
		zap.String("installment_id", installmentID.String()),
		zap.Int64("allocations_deleted", cascade.DeletedAllocations),
		zap.Int("payments_deleted", len(cascade.DeletedPaymentIDs)),
	)
	resp := ToAccountResponse(account, s.today())
	return &resp, nil
}

// DeleteAccount removes an account, its installments and every allocation that
// targets them. Payments left without allocations are deleted; the others are
// reduced to their remaining allocations.
func (s *AccountService) DeleteAccount(ctx context.Context, tenantID, accountID uuid.UUID) (_ *DeleteAccountResult, err error) {
	started := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, "account", "delete",
		telemetry.SpanAttrTenantID, tenantID,
		telemetry.SpanAttrAccountID, accountID,
	)
	defer func() {
		telemetry.EndSpan(span, err)
		s.metrics.RecordOperation(ctx, "delete_account", started, err)
	}()

	result := &DeleteAccountResult{AccountID: accountID}
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		account, err := repos.Accounts().FindByIDForTenant(ctx, tenantID, accountID)
		if err != nil {
			return err
		}
		ids := account.InstallmentIDs()
		cascade, err := s.reconciler.CascadeInstallmentRemoval(ctx, repos, tenantID, ids)
		if err != nil {
			return err
		}
		if err := repos.Installments().DeleteByIDs(ctx, ids); err != nil {
			return fmt.Errorf("failed to delete installments: %w", err)
		}
		if err := repos.Accounts().DeleteForTenant(ctx, tenantID, accountID); err != nil {
			return err
		}
		result.DeletedInstallments = len(ids)
		result.DeletedAllocations = cascade.DeletedAllocations
		result.DeletedPaymentIDs = cascade.DeletedPaymentIDs
		result.AdjustedPaymentIDs = cascade.AdjustedPaymentIDs
		return nil
	})
	if err != nil {
		return nil, err
	}
	if result.DeletedPaymentIDs == nil {
		result.DeletedPaymentIDs = []uuid.UUID{}
	}
	if result.AdjustedPaymentIDs == nil {
		result.AdjustedPaymentIDs = []uuid.UUID{}
	}

	s.metrics.RecordCascadeDeletions(ctx, tenantID, len(result.DeletedPaymentIDs))
	s.log(ctx).Info("Account deleted",
		zap.String("account_id", accountID.String()),
		zap.Int("installments_deleted", result.DeletedInstallments),
		zap.Int64("allocations_deleted", result.DeletedAllocations),
		zap.Int("payments_deleted", len(result.DeletedPaymentIDs)),
		zap.Int("payments_adjusted", len(result.AdjustedPaymentIDs)),
	)
	return result, nil
}

// ensureActive fails with NotFound unless every id is an active reference of the kind
func ensureActive(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID, kind ledger.ReferenceKind, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	repo := repos.References(kind)
	if repo == nil {
		return fmt.Errorf("no repository registered for %s", kind)
	}
	unique := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	list := make([]uuid.UUID, 0, len(unique))
	for id := range unique {
		list = append(list, id)
	}
	found, err := repo.CountActiveForTenant(ctx, tenantID, list)
	if err != nil {
		return err
	}
	if found != int64(len(list)) {
		return shared.NewDomainError(shared.CodeNotFound, kindLabel(kind)+" not found")
	}
	return nil
}

func kindLabel(kind ledger.ReferenceKind) string {
	switch kind {
	case ledger.ReferenceKindVendor:
		return "vendor"
	case ledger.ReferenceKindCustomer:
		return "customer"
	case ledger.ReferenceKindCategory:
		return "category"
	case ledger.ReferenceKindTag:
		return "tag"
	}
	return "reference"
}
