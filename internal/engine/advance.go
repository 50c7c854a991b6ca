package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bahi-dev/bahi/internal/model"
	"github.com/bahi-dev/bahi/internal/money"
	"github.com/bahi-dev/bahi/internal/replay"
)

// AdvanceBalance replays a counterparty's advance entries into the current
// credit balance.
func (e *Engine) AdvanceBalance(counterpartyID uuid.UUID) (decimal.Decimal, error) {
	if _, err := e.store.GetCounterparty(counterpartyID); err != nil {
		return decimal.Zero, err
	}
	entries, err := e.store.FetchAdvanceEntries(counterpartyID)
	if err != nil {
		return decimal.Zero, err
	}
	return replay.Advance(entries), nil
}

// DrawAdvance consumes advance credit against a new obligation. Draw-down is
// always an explicit operation; the engine never offsets advances
// automatically when a new instrument is opened.
func (e *Engine) DrawAdvance(counterpartyID uuid.UUID, amount decimal.Decimal, reason string, asOf time.Time) error {
	if !amount.IsPositive() {
		return model.ErrInvalidAmount
	}
	amount = money.Round(amount)

	balance, err := e.AdvanceBalance(counterpartyID)
	if err != nil {
		return err
	}
	if amount.GreaterThan(balance) {
		return model.ErrInsufficientAdvance
	}

	return e.store.AppendAdvanceEntry(model.AdvanceEntry{
		ID:             uuid.New(),
		CounterpartyID: counterpartyID,
		Kind:           model.AdvanceDraw,
		Amount:         amount,
		Reason:         reason,
		EffectiveDate:  asOf,
		CreatedAt:      time.Now().UTC(),
	})
}
