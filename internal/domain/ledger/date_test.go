package ledger

import (
	"testing"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDueDate(t *testing.T) {
	t.Run("empty means unchanged", func(t *testing.T) {
		_, ok, err := ParseDueDate("  ")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("date only", func(t *testing.T) {
		d, ok, err := ParseDueDate("2026-01-01")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, day("2026-01-01"), d)
	})

	t.Run("rfc3339 is truncated to its calendar day", func(t *testing.T) {
		d, ok, err := ParseDueDate("2026-01-01T22:30:00-03:00")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, day("2026-01-01"), d)
	})

	t.Run("garbage", func(t *testing.T) {
		_, _, err := ParseDueDate("01/02/2026")
		assert.ErrorIs(t, err, shared.ErrInvalidDueDate)

		_, _, err = ParseDueDate("2026-02-30")
		assert.ErrorIs(t, err, shared.ErrInvalidDueDate)
	})
}

func TestToday(t *testing.T) {
	now := time.Date(2026, 1, 16, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, day("2026-01-16"), Today(now, nil))

	loc := time.FixedZone("UTC-5", -5*3600)
	assert.Equal(t, day("2026-01-15"), Today(now, loc))
}

func TestParseAccountType(t *testing.T) {
	got, err := ParseAccountType("payable")
	require.NoError(t, err)
	assert.Equal(t, AccountTypePayable, got)

	got, err = ParseAccountType("RECEIVABLE")
	require.NoError(t, err)
	assert.Equal(t, AccountTypeReceivable, got)

	_, err = ParseAccountType("loan")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestParseStatusFilter(t *testing.T) {
	got, err := ParseStatusFilter("overdue")
	require.NoError(t, err)
	assert.Equal(t, StatusOverdue, got)
	assert.False(t, got.IsValid())

	_, err = ParseStatusFilter("LATE")
	assert.Error(t, err)
}
