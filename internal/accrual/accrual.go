// Package accrual computes interest accrued on an outstanding principal.
// It is pure arithmetic: no I/O, no mutation, results carry full precision
// and are rounded only when a transaction amount is materialized.
package accrual

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bahi-dev/bahi/internal/model"
	"github.com/bahi-dev/bahi/internal/money"
)

var (
	daysInYear  = decimal.NewFromInt(365)
	daysInMonth = decimal.NewFromInt(30)
)

// Elapsed is the time between a reference start date and an as-of date,
// broken down the way the accrual formulas need it. WholeMonths counts
// calendar months from the start's day-of-month; FractionalDays is the
// leftover, valued at a 30-day month.
type Elapsed struct {
	Days           int
	WholeMonths    int
	FractionalDays int
}

// Between computes the elapsed time from one date to another. An as-of date
// before the start clamps to zero elapsed; accrual never runs backwards.
func Between(from, to time.Time) Elapsed {
	from = midnight(from)
	to = midnight(to)
	if to.Before(from) {
		return Elapsed{}
	}

	days := int(to.Sub(from).Hours() / 24)

	months := 0
	cur := from
	for {
		next := cur.AddDate(0, 1, 0)
		if next.After(to) {
			break
		}
		cur = next
		months++
	}
	frac := int(to.Sub(cur).Hours() / 24)

	return Elapsed{Days: days, WholeMonths: months, FractionalDays: frac}
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Interest returns the interest accrued on principal at ratePercent for the
// given elapsed time under the given mode. Always >= 0.
//
//   - none:    0
//   - flat:    principal * rate/100, once, independent of elapsed time
//   - daily:   principal * rate/100 * days/365
//   - monthly: principal * rate/100 * (months + fractionalDays/30)
func Interest(principal, ratePercent decimal.Decimal, mode model.InterestMode, e Elapsed) decimal.Decimal {
	if ratePercent.IsZero() || principal.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	base := money.ApplyRate(principal, ratePercent)

	var accrued decimal.Decimal
	switch mode {
	case model.InterestFlat:
		accrued = base
	case model.InterestDaily:
		accrued = base.Mul(decimal.NewFromInt(int64(e.Days))).Div(daysInYear)
	case model.InterestMonthly:
		span := decimal.NewFromInt(int64(e.WholeMonths)).
			Add(decimal.NewFromInt(int64(e.FractionalDays)).Div(daysInMonth))
		accrued = base.Mul(span)
	default: // model.InterestNone
		return decimal.Zero
	}

	return money.Clamp(accrued)
}
