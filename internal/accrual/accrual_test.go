package accrual

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/bahi-dev/bahi/internal/model"
	"github.com/bahi-dev/bahi/internal/money"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBetween(t *testing.T) {
	tests := []struct {
		name      string
		from, to  time.Time
		wantDays  int
		wantMonth int
		wantFrac  int
	}{
		{"same day", date(2025, 1, 15), date(2025, 1, 15), 0, 0, 0},
		{"ten days", date(2025, 1, 15), date(2025, 1, 25), 10, 0, 10},
		{"one month exact", date(2025, 1, 15), date(2025, 2, 15), 31, 1, 0},
		{"two months", date(2025, 1, 15), date(2025, 3, 15), 59, 2, 0},
		{"month and a half", date(2025, 1, 15), date(2025, 3, 1), 45, 1, 14},
		{"sixty days", date(2025, 1, 1), date(2025, 3, 2), 60, 2, 1},
		{"as-of before origin clamps", date(2025, 5, 1), date(2025, 1, 1), 0, 0, 0},
		{"across year boundary", date(2024, 12, 1), date(2025, 1, 1), 31, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Between(tt.from, tt.to)
			assert.Equal(t, tt.wantDays, e.Days, "days")
			assert.Equal(t, tt.wantMonth, e.WholeMonths, "whole months")
			assert.Equal(t, tt.wantFrac, e.FractionalDays, "fractional days")
		})
	}
}

func TestBetween_IgnoresTimeOfDay(t *testing.T) {
	from := time.Date(2025, 1, 1, 23, 59, 0, 0, time.UTC)
	to := time.Date(2025, 1, 2, 0, 1, 0, 0, time.UTC)
	e := Between(from, to)
	assert.Equal(t, 1, e.Days)
}

func TestInterest_None(t *testing.T) {
	// Mode none always yields zero, whatever the rate or elapsed time.
	got := Interest(dec("5000"), dec("24"), model.InterestNone, Elapsed{Days: 400, WholeMonths: 13})
	assert.True(t, got.IsZero())
}

func TestInterest_ZeroRate(t *testing.T) {
	for _, mode := range []model.InterestMode{model.InterestFlat, model.InterestDaily, model.InterestMonthly} {
		got := Interest(dec("5000"), decimal.Zero, mode, Elapsed{Days: 100, WholeMonths: 3, FractionalDays: 10})
		assert.True(t, got.IsZero(), "mode %s", mode)
	}
}

func TestInterest_Flat(t *testing.T) {
	// One-time charge, independent of elapsed time.
	got := Interest(dec("2000"), dec("5"), model.InterestFlat, Elapsed{})
	assert.True(t, got.Equal(dec("100")), "got %s", got)

	later := Interest(dec("2000"), dec("5"), model.InterestFlat, Elapsed{Days: 365, WholeMonths: 12})
	assert.True(t, later.Equal(dec("100")), "flat must not grow with time")
}

func TestInterest_Daily(t *testing.T) {
	// 1000 * 10/100 * 73/365 = 20
	got := Interest(dec("1000"), dec("10"), model.InterestDaily, Elapsed{Days: 73})
	assert.True(t, got.Equal(dec("20")), "got %s", got)
}

func TestInterest_Monthly(t *testing.T) {
	// 1000 * 10/100 * 2 = 200
	got := Interest(dec("1000"), dec("10"), model.InterestMonthly, Elapsed{WholeMonths: 2})
	assert.True(t, got.Equal(dec("200")), "got %s", got)

	// Fractional month valued at /30: 1000 * 10/100 * (1 + 15/30) = 150
	got = Interest(dec("1000"), dec("10"), model.InterestMonthly, Elapsed{WholeMonths: 1, FractionalDays: 15})
	assert.True(t, got.Equal(dec("150")), "got %s", got)
}

func TestInterest_SixtyDayScenario(t *testing.T) {
	// Principal 1000 at 10% monthly, origin 60 days back: two whole months
	// accrued, roughly 200.
	origin := date(2025, 1, 1)
	asOf := origin.AddDate(0, 0, 60)
	e := Between(origin, asOf)
	got := Interest(dec("1000"), dec("10"), model.InterestMonthly, e)
	rounded := money.Round(got)
	assert.True(t, rounded.GreaterThanOrEqual(dec("200")), "got %s", rounded)
	assert.True(t, rounded.LessThan(dec("210")), "got %s", rounded)
}

func TestInterest_NegativePrincipal(t *testing.T) {
	got := Interest(dec("-100"), dec("10"), model.InterestDaily, Elapsed{Days: 30})
	assert.True(t, got.IsZero())
}

func TestInterest_AsOfBeforeOrigin(t *testing.T) {
	e := Between(date(2025, 6, 1), date(2025, 1, 1))
	got := Interest(dec("1000"), dec("10"), model.InterestDaily, e)
	assert.True(t, got.IsZero(), "accrual must clamp to zero, not go negative")
}
