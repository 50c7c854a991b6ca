package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Counterparty is a customer or supplier the firm lends to / trades with.
type Counterparty struct {
	ID        uuid.UUID
	Name      string
	Phone     string
	CreatedAt time.Time
}

// AdvanceKind says which way an advance entry moves the credit balance.
type AdvanceKind string

const (
	AdvanceCredit AdvanceKind = "credit" // overpayment parked with the counterparty
	AdvanceDraw   AdvanceKind = "draw"   // explicit draw-down against a new obligation
)

// AdvanceEntry is one movement on a counterparty's advance credit. The
// balance is never stored; it is replayed from these entries like every
// other balance in the system.
type AdvanceEntry struct {
	ID             uuid.UUID
	CounterpartyID uuid.UUID
	Kind           AdvanceKind
	Amount         decimal.Decimal // always positive
	Reason         string
	EffectiveDate  time.Time
	Seq            int64
	CreatedAt      time.Time
}
