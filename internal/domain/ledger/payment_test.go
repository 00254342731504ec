package ledger

import (
	"testing"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAllocationTo(t *testing.T) {
	id := uuid.New()

	payable := NewAllocationTo(AccountTypePayable, id, dec("10"))
	accountType, target, ok := payable.Target()
	require.True(t, ok)
	assert.Equal(t, AccountTypePayable, accountType)
	assert.Equal(t, id, target)
	assert.Nil(t, payable.ReceivableInstallmentID)

	receivable := NewAllocationTo(AccountTypeReceivable, id, dec("10"))
	accountType, _, ok = receivable.Target()
	require.True(t, ok)
	assert.Equal(t, AccountTypeReceivable, accountType)

	unknown := NewAllocationTo("LOAN", id, dec("10"))
	_, _, ok = unknown.Target()
	assert.False(t, ok)
	assert.Equal(t, uuid.Nil, unknown.InstallmentID())
}

func TestAllocation_TargetBoth(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	alloc := Allocation{PayableInstallmentID: &a, ReceivableInstallmentID: &b}
	_, _, ok := alloc.Target()
	assert.False(t, ok)
}

func newTestPayment(t *testing.T, amounts ...string) *Payment {
	t.Helper()
	allocs := make([]Allocation, 0, len(amounts))
	total := dec("0")
	for _, a := range amounts {
		allocs = append(allocs, NewAllocationTo(AccountTypePayable, uuid.New(), dec(a)))
		total = total.Add(dec(a))
	}
	payment, err := NewPayment(uuid.New(), NewPaymentParams{
		Amount:      total,
		PaymentDate: day("2026-01-20"),
		Method:      PaymentMethodBankTransfer,
		Allocations: allocs,
	})
	require.NoError(t, err)
	return payment
}

func TestNewPayment(t *testing.T) {
	t.Run("stamps allocations", func(t *testing.T) {
		payment := newTestPayment(t, "500", "800")
		assert.True(t, payment.Amount.Equal(dec("1300")))
		require.Len(t, payment.Allocations, 2)
		for _, a := range payment.Allocations {
			assert.NotEqual(t, uuid.Nil, a.ID)
			assert.Equal(t, payment.ID, a.PaymentID)
		}
		assert.True(t, payment.AllocatedTotal().Equal(payment.Amount))
	})

	t.Run("validates metadata", func(t *testing.T) {
		_, err := NewPayment(uuid.New(), NewPaymentParams{Amount: dec("0"), PaymentDate: day("2026-01-01"), Method: PaymentMethodCash})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)

		_, err = NewPayment(uuid.New(), NewPaymentParams{Amount: dec("1"), Method: PaymentMethodCash})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)

		_, err = NewPayment(uuid.New(), NewPaymentParams{Amount: dec("1"), PaymentDate: day("2026-01-01"), Method: "BARTER"})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestPayment_UpdateDetails(t *testing.T) {
	t.Run("requires payment date", func(t *testing.T) {
		payment := newTestPayment(t, "100")
		err := payment.UpdateDetails(PaymentDetails{})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("changes metadata only", func(t *testing.T) {
		payment := newTestPayment(t, "100")
		method := PaymentMethodCheck
		ref := "CHK-0042"
		err := payment.UpdateDetails(PaymentDetails{
			PaymentDate: time.Date(2026, 2, 1, 15, 0, 0, 0, time.UTC),
			Method:      &method,
			Reference:   &ref,
		})
		require.NoError(t, err)
		assert.Equal(t, day("2026-02-01"), payment.PaymentDate)
		assert.Equal(t, PaymentMethodCheck, payment.Method)
		assert.Equal(t, "CHK-0042", payment.Reference)
		assert.Equal(t, "", payment.Notes)
		assert.True(t, payment.Amount.Equal(dec("100")))
		assert.Len(t, payment.Allocations, 1)
	})
}

func TestPayment_SyncAmountToAllocations(t *testing.T) {
	payment := newTestPayment(t, "500", "500")
	assert.False(t, payment.SyncAmountToAllocations())

	payment.Allocations = payment.Allocations[1:]
	assert.True(t, payment.SyncAmountToAllocations())
	assert.True(t, payment.Amount.Equal(dec("500")))
	assert.False(t, payment.IsOrphaned())

	payment.Allocations = nil
	assert.True(t, payment.IsOrphaned())
}
