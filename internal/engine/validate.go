package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bahi-dev/bahi/internal/model"
)

// ValidationError describes a single invariant violation on an instrument.
type ValidationError struct {
	Invariant   int
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invariant %d: %s", e.Invariant, e.Description)
}

// ValidateInstrument enforces the instrument invariants before anything is
// written.
func ValidateInstrument(inst model.Instrument) []ValidationError {
	var errs []ValidationError

	// Invariant 1: principal + fees >= 0.
	if inst.Opening().IsNegative() {
		errs = append(errs, ValidationError{
			Invariant:   1,
			Description: fmt.Sprintf("principal (%s) + fees (%s) must not be negative", inst.Principal, inst.Fees),
		})
	}

	// Invariant 2: interest rate >= 0.
	if inst.InterestRate.IsNegative() {
		errs = append(errs, ValidationError{
			Invariant:   2,
			Description: fmt.Sprintf("interest rate %s must not be negative", inst.InterestRate),
		})
	}

	// Invariant 3: rate must be zero when mode is none.
	if inst.InterestMode == model.InterestNone && !inst.InterestRate.IsZero() {
		errs = append(errs, ValidationError{
			Invariant:   3,
			Description: fmt.Sprintf("interest rate must be 0 with mode none, got %s", inst.InterestRate),
		})
	}

	// Invariant 4: known category and interest mode.
	switch inst.Category {
	case model.CategoryLoan, model.CategoryBill:
	default:
		errs = append(errs, ValidationError{
			Invariant:   4,
			Description: fmt.Sprintf("unknown category %q", inst.Category),
		})
	}
	switch inst.InterestMode {
	case model.InterestNone, model.InterestFlat, model.InterestDaily, model.InterestMonthly:
	default:
		errs = append(errs, ValidationError{
			Invariant:   4,
			Description: fmt.Sprintf("unknown interest mode %q", inst.InterestMode),
		})
	}

	// Invariant 5: origin before due date, when a due date is set.
	if inst.DueDate != nil && inst.DueDate.Before(inst.OriginDate) {
		errs = append(errs, ValidationError{
			Invariant:   5,
			Description: "due date precedes origin date",
		})
	}

	// Invariant 6: exact decimals, no more than 2 decimal places.
	two := decimal.NewFromInt(100)
	for _, check := range []struct {
		name  string
		value decimal.Decimal
	}{{"principal", inst.Principal}, {"fees", inst.Fees}} {
		if !check.value.Mul(two).Equal(check.value.Mul(two).Floor()) {
			errs = append(errs, ValidationError{
				Invariant:   6,
				Description: fmt.Sprintf("%s %s has more than 2 decimal places", check.name, check.value),
			})
		}
	}

	return errs
}
