// Package money owns the numeric policy for amounts: parsing, the rounding
// applied when a transaction amount is materialized, and the settlement
// threshold below which an instrument counts as fully paid.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Epsilon is the settlement threshold: an outstanding balance at or below
// this is treated as fully paid.
var Epsilon = decimal.NewFromFloat(0.01)

var hundred = decimal.NewFromInt(100)

// Parse reads a decimal amount from a string. Rejects empty input and
// anything decimal.NewFromString rejects.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return d, nil
}

// Round applies banker's rounding to 2 decimal places. Called exactly once,
// at the point a transaction amount is written; accrual intermediates keep
// full precision.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(2)
}

// Clamp returns max(0, d).
func Clamp(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// ApplyRate returns amount * ratePercent / 100, unrounded.
func ApplyRate(amount, ratePercent decimal.Decimal) decimal.Decimal {
	return amount.Mul(ratePercent).Div(hundred)
}

// IsSettled reports whether an outstanding balance is within Epsilon of zero.
func IsSettled(outstanding decimal.Decimal) bool {
	return outstanding.LessThanOrEqual(Epsilon)
}
