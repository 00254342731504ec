package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/erp/ledger/internal/domain/ledger"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentService records payments and receipts and spreads them over installments
type PaymentService struct {
	scope     TransactionScope
	reads     TransactionalRepositories
	validator *ledger.AllocationValidator
	settings
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(scope TransactionScope, reads TransactionalRepositories, opts ...Option) *PaymentService {
	return &PaymentService{
		scope:     scope,
		reads:     reads,
		validator: ledger.NewAllocationValidator(),
		settings:  newSettings(opts),
	}
}

// CreatePayment records a payment and applies each allocation to its installment.
// The allocations must add up to the payment amount and every target must exist
// under an account of the tenant. Nothing is written when any check fails.
func (s *PaymentService) CreatePayment(ctx context.Context, in CreatePaymentInput) (_ *PaymentResponse, err error) {
	started := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "create",
		telemetry.SpanAttrTenantID, in.TenantID,
		telemetry.SpanAttrAmount, in.Amount,
		telemetry.SpanAttrAllocationCount, len(in.Allocations),
	)
	defer func() {
		telemetry.EndSpan(span, err)
		s.metrics.RecordOperation(ctx, "create_payment", started, err)
	}()

	allocations := make([]ledger.Allocation, 0, len(in.Allocations))
	for _, a := range in.Allocations {
		target := ledger.AccountType(strings.ToUpper(strings.TrimSpace(a.TargetType)))
		allocations = append(allocations, ledger.NewAllocationTo(target, a.InstallmentID, a.Amount))
	}
	if err := s.validator.ValidateSum(allocations, in.Amount); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateTargets(allocations); err != nil {
		return nil, err
	}
	params := ledger.NewPaymentParams{
		Amount:      in.Amount,
		PaymentDate: in.PaymentDate,
		Method:      ledger.PaymentMethod(strings.ToUpper(strings.TrimSpace(in.Method))),
		Reference:   in.Reference,
		Notes:       in.Notes,
		Allocations: allocations,
	}
	if _, err := ledger.NewPayment(in.TenantID, params); err != nil {
		return nil, err
	}

	var payment *ledger.Payment
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := s.validator.ValidateInstallmentsExist(ctx, repos.Installments(), in.TenantID, allocations); err != nil {
			return err
		}

		var err error
		payment, err = ledger.NewPayment(in.TenantID, params)
		if err != nil {
			return err
		}

		targets := make([]uuid.UUID, 0, len(payment.Allocations))
		for _, a := range payment.Allocations {
			targets = append(targets, a.InstallmentID())
		}
		set, err := loadAccountsFor(ctx, repos, in.TenantID, targets)
		if err != nil {
			return err
		}
		for _, a := range payment.Allocations {
			if err := set.installments[a.InstallmentID()].ApplyAllocation(a.Amount); err != nil {
				return err
			}
		}

		if err := repos.Payments().Create(ctx, payment); err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}
		return set.saveAll(ctx, repos)
	})
	if err != nil {
		return nil, err
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrPaymentID, payment.ID)
	s.metrics.RecordPaymentCreated(ctx, in.TenantID, payment.Method.String(), payment.Amount, len(payment.Allocations))
	s.log(ctx).Info("Payment created",
		zap.String("payment_id", payment.ID.String()),
		zap.String("amount", payment.Amount.StringFixed(2)),
		zap.Int("allocations", len(payment.Allocations)),
	)

	resp := ToPaymentResponse(payment)
	return &resp, nil
}

// QuickPay records a payment that goes entirely to one installment
func (s *PaymentService) QuickPay(ctx context.Context, in QuickPayInput) (*PaymentResponse, error) {
	return s.CreatePayment(ctx, CreatePaymentInput{
		TenantID:    in.TenantID,
		Amount:      in.Amount,
		PaymentDate: in.PaymentDate,
		Method:      in.Method,
		Reference:   in.Reference,
		Notes:       in.Notes,
		Allocations: []AllocationInput{{
			TargetType:    in.Type,
			InstallmentID: in.InstallmentID,
			Amount:        in.Amount,
		}},
	})
}

// UpdatePayment changes date, method, reference or notes. Amount and allocations
// stay as they are; delete and recreate the payment to change them.
func (s *PaymentService) UpdatePayment(ctx context.Context, in UpdatePaymentInput) (_ *PaymentResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "update",
		telemetry.SpanAttrTenantID, in.TenantID,
		telemetry.SpanAttrPaymentID, in.PaymentID,
	)
	defer func() { telemetry.EndSpan(span, err) }()

	if in.PaymentDate == nil || in.PaymentDate.IsZero() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "payment date is required")
	}
	details := ledger.PaymentDetails{
		PaymentDate: *in.PaymentDate,
		Reference:   in.Reference,
		Notes:       in.Notes,
	}
	if in.Method != nil {
		method := ledger.PaymentMethod(strings.ToUpper(strings.TrimSpace(*in.Method)))
		details.Method = &method
	}

	var payment *ledger.Payment
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		payment, err = repos.Payments().FindByIDForTenant(ctx, in.TenantID, in.PaymentID)
		if err != nil {
			return err
		}
		if err := payment.UpdateDetails(details); err != nil {
			return err
		}
		return repos.Payments().Update(ctx, payment)
	})
	if err != nil {
		return nil, err
	}

	resp := ToPaymentResponse(payment)
	return &resp, nil
}

// DeletePayment removes a payment and its allocations, and takes the allocated
// amounts back off the installments they were applied to
func (s *PaymentService) DeletePayment(ctx context.Context, tenantID, paymentID uuid.UUID) (err error) {
	started := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "delete",
		telemetry.SpanAttrTenantID, tenantID,
		telemetry.SpanAttrPaymentID, paymentID,
	)
	defer func() {
		telemetry.EndSpan(span, err)
		s.metrics.RecordOperation(ctx, "delete_payment", started, err)
	}()

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		payment, err := repos.Payments().FindByIDForTenant(ctx, tenantID, paymentID)
		if err != nil {
			return err
		}
		targets := make([]uuid.UUID, 0, len(payment.Allocations))
		for _, a := range payment.Allocations {
			targets = append(targets, a.InstallmentID())
		}
		set, err := loadAccountsFor(ctx, repos, tenantID, targets)
		if err != nil {
			return err
		}
		for _, a := range payment.Allocations {
			set.installments[a.InstallmentID()].RevertAllocation(a.Amount)
		}

		if err := repos.Allocations().DeleteByPaymentID(ctx, payment.ID); err != nil {
			return fmt.Errorf("failed to delete allocations: %w", err)
		}
		if err := repos.Payments().DeleteForTenant(ctx, tenantID, payment.ID); err != nil {
			return err
		}
		return set.saveAll(ctx, repos)
	})
	if err != nil {
		return err
	}

	s.log(ctx).Info("Payment deleted", zap.String("payment_id", paymentID.String()))
	return nil
}

// GetPayment returns a payment with its allocations
func (s *PaymentService) GetPayment(ctx context.Context, tenantID, paymentID uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.reads.Payments().FindByIDForTenant(ctx, tenantID, paymentID)
	if err != nil {
		return nil, err
	}
	resp := ToPaymentResponse(payment)
	return &resp, nil
}
