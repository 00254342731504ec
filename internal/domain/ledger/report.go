package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatusTotal is one group of installments in a summary
type StatusTotal struct {
	AccountType AccountType     `json:"account_type"`
	Status      Status          `json:"status"`
	Count       int64           `json:"count"`
	Amount      decimal.Decimal `json:"amount"`
	PaidAmount  decimal.Decimal `json:"paid_amount"`
}

// InstallmentSummary groups installments due in [From, To) by account type and status.
// Overdue holds one derived bucket per account type, computed against Today.
type InstallmentSummary struct {
	From    time.Time     `json:"from"`
	To      time.Time     `json:"to"`
	Today   time.Time     `json:"today"`
	Totals  []StatusTotal `json:"totals"`
	Overdue []StatusTotal `json:"overdue"`
}
