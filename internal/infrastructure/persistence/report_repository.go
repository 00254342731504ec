package persistence

import (
	"context"
	"time"

	"github.com/erp/ledger/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReportRepository implements ReportRepository with hand-written SQL
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

const installmentTotalsSQL = `
SELECT a.account_type AS account_type,
       i.status AS status,
       COUNT(*) AS count,
       COALESCE(SUM(i.amount), 0) AS amount,
       COALESCE(SUM(i.paid_amount), 0) AS paid_amount
FROM installments i
JOIN accounts a ON a.id = i.account_id
WHERE a.tenant_id = ?
  AND i.due_date >= ?
  AND i.due_date < ?
GROUP BY a.account_type, i.status
ORDER BY a.account_type, i.status`

const overdueTotalsSQL = `
SELECT a.account_type AS account_type,
       COUNT(*) AS count,
       COALESCE(SUM(i.amount), 0) AS amount,
       COALESCE(SUM(i.paid_amount), 0) AS paid_amount
FROM installments i
JOIN accounts a ON a.id = i.account_id
WHERE a.tenant_id = ?
  AND i.due_date >= ?
  AND i.due_date < ?
  AND i.due_date < ?
  AND i.status IN ?
GROUP BY a.account_type
ORDER BY a.account_type`

type statusTotalRow struct {
	AccountType string
	Status      string
	Count       int64
	Amount      decimal.Decimal
	PaidAmount  decimal.Decimal
}

// SummarizeInstallments groups installments due in [from, to) by account type and stored status.
// The overdue bucket counts open installments in the same range due before today.
func (r *GormReportRepository) SummarizeInstallments(ctx context.Context, tenantID uuid.UUID, from, to, today time.Time) (*ledger.InstallmentSummary, error) {
	from, to, today = ledger.DateOf(from), ledger.DateOf(to), ledger.DateOf(today)
	db := r.db.WithContext(ctx)

	var totals []statusTotalRow
	if err := db.Raw(installmentTotalsSQL, tenantID, from, to).Scan(&totals).Error; err != nil {
		return nil, err
	}

	var overdue []statusTotalRow
	open := []string{string(ledger.StatusPending), string(ledger.StatusPartial)}
	if err := db.Raw(overdueTotalsSQL, tenantID, from, to, today, open).Scan(&overdue).Error; err != nil {
		return nil, err
	}

	summary := &ledger.InstallmentSummary{
		From:    from,
		To:      to,
		Today:   today,
		Totals:  make([]ledger.StatusTotal, 0, len(totals)),
		Overdue: make([]ledger.StatusTotal, 0, len(overdue)),
	}
	for _, row := range totals {
		summary.Totals = append(summary.Totals, row.toDomain(ledger.Status(row.Status)))
	}
	for _, row := range overdue {
		summary.Overdue = append(summary.Overdue, row.toDomain(ledger.StatusOverdue))
	}
	return summary, nil
}

func (row statusTotalRow) toDomain(status ledger.Status) ledger.StatusTotal {
	return ledger.StatusTotal{
		AccountType: ledger.AccountType(row.AccountType),
		Status:      status,
		Count:       row.Count,
		Amount:      row.Amount.Round(2),
		PaidAmount:  row.PaidAmount.Round(2),
	}
}

// Ensure GormReportRepository implements ReportRepository
var _ ledger.ReportRepository = (*GormReportRepository)(nil)
