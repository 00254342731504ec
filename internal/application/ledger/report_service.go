package ledger

import (
	"context"

	"github.com/erp/ledger/internal/domain/ledger"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// ReportService serves read-only aggregates over installments
type ReportService struct {
	repo ledger.ReportRepository
	settings
}

// NewReportService creates a new ReportService
func NewReportService(repo ledger.ReportRepository, opts ...Option) *ReportService {
	return &ReportService{repo: repo, settings: newSettings(opts)}
}

// InstallmentSummary groups installments due in [from, to) by account type and
// status, with a separate overdue bucket as of today
func (s *ReportService) InstallmentSummary(ctx context.Context, tenantID uuid.UUID, from, to string) (_ *ledger.InstallmentSummary, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "installment_summary",
		telemetry.SpanAttrTenantID, tenantID,
	)
	defer func() { telemetry.EndSpan(span, err) }()

	start, ok, err := ledger.ParseDueDate(from)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "from date is required")
	}
	end, ok, err := ledger.ParseDueDate(to)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "to date is required")
	}
	if !start.Before(end) {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "from must be before to")
	}

	return s.repo.SummarizeInstallments(ctx, tenantID, start, end, s.today())
}
