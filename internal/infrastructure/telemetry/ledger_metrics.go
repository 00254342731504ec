package telemetry

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
)

// LedgerMetrics counts ledger writes.
// A nil *LedgerMetrics is valid and records nothing.
type LedgerMetrics struct {
	accountsCreated    *Counter
	paymentsCreated    *Counter
	paymentAmountCents *Counter
	allocations        *Counter
	cascadeDeletions   *Counter
	txConflicts        *Counter
	operationDuration  *Histogram
}

// NewLedgerMetrics creates the ledger instruments on the given meter.
func NewLedgerMetrics(meter metric.Meter) (*LedgerMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	m := &LedgerMetrics{}
	counters := []struct {
		target      **Counter
		name        string
		description string
		unit        string
	}{
		{&m.accountsCreated, "ledger_accounts_created_total", "Accounts created", "{accounts}"},
		{&m.paymentsCreated, "ledger_payments_created_total", "Payments and receipts recorded", "{payments}"},
		{&m.paymentAmountCents, "ledger_payment_amount_cents_total", "Recorded payment amount in cents", "{cents}"},
		{&m.allocations, "ledger_allocations_total", "Allocations applied to installments", "{allocations}"},
		{&m.cascadeDeletions, "ledger_cascade_payments_deleted_total", "Payments removed because they lost all allocations", "{payments}"},
		{&m.txConflicts, "ledger_tx_conflicts_total", "Serialization conflicts that triggered a retry", "{conflicts}"},
	}
	for _, c := range counters {
		counter, err := NewCounter(meter, c.name, c.description, c.unit)
		if err != nil {
			return nil, err
		}
		*c.target = counter
	}

	duration, err := NewHistogram(meter, HistogramOpts{
		Name:        "ledger_operation_duration_seconds",
		Description: "Duration of ledger write operations",
		Unit:        "s",
		Boundaries:  OperationDurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	m.operationDuration = duration
	return m, nil
}

// RecordAccountCreated counts a created account
func (m *LedgerMetrics) RecordAccountCreated(ctx context.Context, tenantID uuid.UUID, accountType string) {
	if m == nil {
		return
	}
	m.accountsCreated.Inc(ctx, AttrTenantID.String(tenantID.String()), AttrAccountType.String(accountType))
}

// RecordPaymentCreated counts a payment, its amount and its allocations
func (m *LedgerMetrics) RecordPaymentCreated(ctx context.Context, tenantID uuid.UUID, method string, amount decimal.Decimal, allocations int) {
	if m == nil {
		return
	}
	tenant := AttrTenantID.String(tenantID.String())
	m.paymentsCreated.Inc(ctx, tenant, AttrPaymentMethod.String(method))
	m.paymentAmountCents.Add(ctx, amount.Shift(2).IntPart(), tenant)
	m.allocations.Add(ctx, int64(allocations), tenant)
}

// RecordCascadeDeletions counts payments deleted by an account or installment cascade
func (m *LedgerMetrics) RecordCascadeDeletions(ctx context.Context, tenantID uuid.UUID, count int) {
	if m == nil || count == 0 {
		return
	}
	m.cascadeDeletions.Add(ctx, int64(count), AttrTenantID.String(tenantID.String()))
}

// RecordConflict counts a retried serialization conflict
func (m *LedgerMetrics) RecordConflict(ctx context.Context) {
	if m == nil {
		return
	}
	m.txConflicts.Inc(ctx)
}

// RecordOperation records how long an operation took and whether it failed
func (m *LedgerMetrics) RecordOperation(ctx context.Context, operation string, started time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.operationDuration.RecordDuration(ctx, time.Since(started),
		AttrOperation.String(operation),
		AttrOutcome.String(outcome),
	)
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewLedgerMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
