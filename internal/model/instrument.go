package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category distinguishes the two instrument variants. They are structurally
// identical; the accrual and allocation logic never branches on this.
type Category string

const (
	CategoryLoan Category = "loan"
	CategoryBill Category = "bill"
)

// InterestMode selects the accrual formula for an instrument.
type InterestMode string

const (
	InterestNone    InterestMode = "none"
	InterestFlat    InterestMode = "flat"
	InterestDaily   InterestMode = "daily"
	InterestMonthly InterestMode = "monthly"
)

// ParseInterestMode normalizes the mode names seen in ledger books.
// "simple" is accepted as an alias of daily.
func ParseInterestMode(s string) (InterestMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return InterestNone, nil
	case "flat":
		return InterestFlat, nil
	case "daily", "simple":
		return InterestDaily, nil
	case "monthly":
		return InterestMonthly, nil
	}
	return "", fmt.Errorf("unknown interest mode %q", s)
}

// Instrument is a loan given out or a sale-bill receivable. It is created
// once and only ever gains transactions; it is never deleted, only flipped
// inactive once fully settled.
type Instrument struct {
	ID             uuid.UUID
	Category       Category
	CounterpartyID uuid.UUID
	Label          string
	Principal      decimal.Decimal
	Fees           decimal.Decimal // added once at origination, repaid as principal
	InterestRate   decimal.Decimal // percent, >= 0
	InterestMode   InterestMode
	OriginDate     time.Time
	DueDate        *time.Time
	Active         bool
	Version        int // bumped on every write; guards the read-modify-append path
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Opening returns the balance the instrument starts with: principal plus
// origination fees, both repaid as principal.
func (i Instrument) Opening() decimal.Decimal {
	return i.Principal.Add(i.Fees)
}
