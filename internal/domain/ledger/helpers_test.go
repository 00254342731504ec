package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func newTestAccount(t *testing.T, amount string, dueDates ...string) *Account {
	t.Helper()
	dates := make([]time.Time, 0, len(dueDates))
	for _, s := range dueDates {
		dates = append(dates, day(s))
	}
	account, err := NewAccount(uuid.New(), NewAccountParams{
		Type:             AccountTypePayable,
		CounterpartyID:   uuid.New(),
		Amount:           dec(amount),
		InstallmentCount: len(dates),
		DueDates:         dates,
	})
	require.NoError(t, err)
	return account
}
