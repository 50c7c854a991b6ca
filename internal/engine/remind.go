package engine

import (
	"time"

	"github.com/bahi-dev/bahi/internal/model"
)

// Reminder is one instrument needing collection: due on or before the as-of
// date with something still outstanding.
type Reminder struct {
	Instrument  *model.Instrument
	Position    Position
	DaysOverdue int
}

// Reminders lists active instruments with dueDate <= asOf and a positive
// outstanding balance, each annotated with its derived position. The list is
// recomputed on every call; balances can change between renders, so nothing
// here is cached.
func (e *Engine) Reminders(asOf time.Time) ([]Reminder, error) {
	instruments, err := e.store.ListInstruments(true)
	if err != nil {
		return nil, err
	}

	var out []Reminder
	for _, inst := range instruments {
		if inst.DueDate == nil || inst.DueDate.After(asOf) {
			continue
		}

		txns, err := e.store.FetchTransactions(inst.ID)
		if err != nil {
			return nil, err
		}
		pos := e.position(inst, txns, asOf)
		if !pos.PrincipalOutstanding.Add(pos.InterestOutstanding).IsPositive() {
			continue
		}

		overdue := int(asOf.Sub(*inst.DueDate).Hours() / 24)
		out = append(out, Reminder{Instrument: inst, Position: pos, DaysOverdue: overdue})
	}
	return out, nil
}
