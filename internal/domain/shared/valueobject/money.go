package valueobject

import (
	"errors"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of decimal places monetary amounts carry
const MoneyScale int32 = 2

// MoneyTolerance absorbs rounding noise when comparing monetary totals
var MoneyTolerance = decimal.New(1, -MoneyScale)

// EqualWithinTolerance reports whether |a-b| <= 0.01
func EqualWithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(MoneyTolerance)
}

// ExceedsWithTolerance reports whether a is greater than b by more than the tolerance
func ExceedsWithTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).GreaterThan(MoneyTolerance)
}

// ReachesWithTolerance reports whether a >= b, counting a shortfall within tolerance as reached
func ReachesWithTolerance(a, b decimal.Decimal) bool {
	return a.GreaterThanOrEqual(b) || EqualWithinTolerance(a, b)
}

// RoundMoney rounds an amount to MoneyScale places
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// Sum adds amounts
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// SplitEvenly divides total into parts amounts truncated to cents.
// The last part absorbs the remainder so the parts always add up to total.
func SplitEvenly(total decimal.Decimal, parts int) ([]decimal.Decimal, error) {
	if parts < 1 {
		return nil, errors.New("parts must be at least 1")
	}
	base := total.Div(decimal.NewFromInt(int64(parts))).Truncate(MoneyScale)
	result := make([]decimal.Decimal, parts)
	allocated := decimal.Zero
	for i := 0; i < parts-1; i++ {
		result[i] = base
		allocated = allocated.Add(base)
	}
	result[parts-1] = total.Sub(allocated)
	return result, nil
}
