package ledger

import (
	"cmp"
	"slices"
)

// Reorder sorts installments by due date, keeping the prior number order on ties,
// then renumbers them 1..N.
func Reorder(installments []*Installment) {
	slices.SortStableFunc(installments, func(a, b *Installment) int {
		if c := a.DueDate.Compare(b.DueDate); c != 0 {
			return c
		}
		return cmp.Compare(a.InstallmentNumber, b.InstallmentNumber)
	})
	total := len(installments)
	for idx, inst := range installments {
		inst.InstallmentNumber = idx + 1
		inst.TotalInstallments = total
	}
}

// DeriveAccountStatus folds installment statuses into an account status.
// Cancelled installments are ignored unless every installment is cancelled.
func DeriveAccountStatus(installments []*Installment) Status {
	var pending, partial, paid, cancelled int
	for _, inst := range installments {
		switch inst.Status {
		case StatusPending:
			pending++
		case StatusPartial:
			partial++
		case StatusPaid:
			paid++
		case StatusCancelled:
			cancelled++
		}
	}

	switch {
	case len(installments) == 0:
		return StatusPending
	case cancelled == len(installments):
		return StatusCancelled
	case partial > 0:
		return StatusPartial
	case paid > 0 && pending > 0:
		return StatusPartial
	case paid > 0:
		return StatusPaid
	default:
		return StatusPending
	}
}
