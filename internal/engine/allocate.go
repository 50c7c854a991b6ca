package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bahi-dev/bahi/internal/accrual"
	"github.com/bahi-dev/bahi/internal/id"
	"github.com/bahi-dev/bahi/internal/model"
	"github.com/bahi-dev/bahi/internal/money"
	"github.com/bahi-dev/bahi/internal/replay"
	"github.com/bahi-dev/bahi/internal/store"
)

// Position is the derived state of an instrument as of a date. Presentation
// renders this; nothing in it is ever read from a cached counter.
type Position struct {
	PrincipalOutstanding decimal.Decimal
	InterestAccrued      decimal.Decimal
	InterestPaid         decimal.Decimal
	InterestOutstanding  decimal.Decimal
	Settled              bool
}

// Allocation is the outcome of recording one payment: the split, the rows
// written, and the advance credit if the payment overshot.
type Allocation struct {
	Voucher          string
	InterestPortion  decimal.Decimal
	PrincipalPortion decimal.Decimal
	Overpayment      decimal.Decimal
	Transactions     []model.Transaction
	Advance          *model.AdvanceEntry
	Settled          bool
}

// position replays an instrument's history and accrues interest to asOf.
func (e *Engine) position(inst *model.Instrument, txns []model.Transaction, asOf time.Time) Position {
	pos := replay.Instrument(*inst, txns)
	if pos.PrincipalClamped {
		// Invariant violation inside history: clamp and log, never crash
		// the caller or surface a negative figure.
		e.log.Warn("replay produced negative outstanding principal, clamped to zero",
			zap.String("instrument", inst.ID.String()))
	}

	elapsed := accrual.Between(inst.OriginDate, asOf)
	accrued := accrual.Interest(pos.PrincipalOutstanding, inst.InterestRate, inst.InterestMode, elapsed)

	outstanding := money.Clamp(accrued.Sub(pos.InterestPaid))
	return Position{
		PrincipalOutstanding: pos.PrincipalOutstanding,
		InterestAccrued:      accrued,
		InterestPaid:         pos.InterestPaid,
		InterestOutstanding:  outstanding,
		Settled:              money.IsSettled(pos.PrincipalOutstanding.Add(outstanding)),
	}
}

// InstrumentPosition returns the derived position of one instrument.
func (e *Engine) InstrumentPosition(instrumentID uuid.UUID, asOf time.Time) (Position, error) {
	inst, err := e.store.GetInstrument(instrumentID)
	if err != nil {
		return Position{}, err
	}
	txns, err := e.store.FetchTransactions(instrumentID)
	if err != nil {
		return Position{}, err
	}
	return e.position(inst, txns, asOf), nil
}

// split performs the fixed-precedence allocation: interest first, then
// principal, remainder to overpayment. Amounts are materialized with
// banker's rounding; the precedence is not configurable.
func split(pos Position, amount decimal.Decimal) (interest, principal, overpayment decimal.Decimal) {
	interest = money.Round(decimal.Min(pos.InterestOutstanding, amount))
	remainder := amount.Sub(interest)
	principal = money.Round(decimal.Min(pos.PrincipalOutstanding, remainder))
	overpayment = remainder.Sub(principal)
	return interest, principal, overpayment
}

// RecordPayment allocates an incoming payment against an instrument and
// commits the resulting rows atomically. Interest is always paid down before
// principal; anything beyond total outstanding becomes advance credit for
// the instrument's counterparty.
func (e *Engine) RecordPayment(instrumentID uuid.UUID, asOf time.Time, amount decimal.Decimal, mode model.PaymentMode, note string) (*Allocation, error) {
	if !amount.IsPositive() {
		return nil, model.ErrInvalidAmount
	}
	amount = money.Round(amount)

	var alloc *Allocation
	err := e.withRetry("record payment", func() error {
		var err error
		alloc, err = e.allocateAndCommit(instrumentID, asOf, amount, mode, note, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return alloc, nil
}

// allocateAndCommit runs one allocation attempt. exclude lists transaction
// ids left out of the replay baseline and removed on commit (the edit path).
func (e *Engine) allocateAndCommit(instrumentID uuid.UUID, asOf time.Time, amount decimal.Decimal, mode model.PaymentMode, note string, exclude []uuid.UUID) (*Allocation, error) {
	inst, err := e.store.GetInstrument(instrumentID)
	if err != nil {
		return nil, err
	}

	all, err := e.store.FetchTransactions(instrumentID)
	if err != nil {
		return nil, err
	}
	baseline := withoutTxns(all, exclude)

	pos := e.position(inst, baseline, asOf)
	interest, principal, overpayment := split(pos, amount)

	seq, err := e.store.NextVoucherSeq(asOf.Year(), int(asOf.Month()))
	if err != nil {
		return nil, err
	}
	voucher := id.FormatVoucher(asOf.Year(), int(asOf.Month()), seq)

	now := time.Now().UTC()
	alloc := &Allocation{
		Voucher:          voucher,
		InterestPortion:  interest,
		PrincipalPortion: principal,
		Overpayment:      overpayment,
	}

	part := 0
	if interest.IsPositive() {
		alloc.Transactions = append(alloc.Transactions, model.Transaction{
			ID:           uuid.New(),
			InstrumentID: inst.ID,
			Voucher:      id.FormatPart(voucher, part),
			Amount:       interest,
			Kind:         model.TxnInterest,
			PaymentDate:  asOf,
			Mode:         mode,
			Note:         note,
			CreatedAt:    now,
		})
		part++
	}
	if principal.IsPositive() {
		alloc.Transactions = append(alloc.Transactions, model.Transaction{
			ID:           uuid.New(),
			InstrumentID: inst.ID,
			Voucher:      id.FormatPart(voucher, part),
			Amount:       principal,
			Kind:         model.TxnPrincipal,
			PaymentDate:  asOf,
			Mode:         mode,
			Note:         note,
			CreatedAt:    now,
		})
	}
	if overpayment.IsPositive() {
		alloc.Advance = &model.AdvanceEntry{
			ID:             uuid.New(),
			CounterpartyID: inst.CounterpartyID,
			Kind:           model.AdvanceCredit,
			Amount:         overpayment,
			Reason: fmt.Sprintf("overpayment from payment of %s on %s",
				amount.StringFixed(2), asOf.Format("2006-01-02")),
			EffectiveDate: asOf,
			CreatedAt:     now,
		}
	}

	// Settlement check against the post-payment state.
	after := Position{
		PrincipalOutstanding: pos.PrincipalOutstanding.Sub(principal),
		InterestOutstanding:  pos.InterestOutstanding.Sub(interest),
	}
	remaining := after.PrincipalOutstanding.Add(money.Clamp(after.InterestOutstanding))
	alloc.Settled = money.IsSettled(remaining)

	active := !alloc.Settled
	if err := e.store.AppendPayment(store.PaymentWrite{
		InstrumentID: inst.ID,
		Version:      inst.Version,
		Append:       alloc.Transactions,
		Remove:       exclude,
		Advance:      alloc.Advance,
		ActiveAfter:  &active,
	}); err != nil {
		return nil, err
	}

	if alloc.Settled {
		e.log.Info("instrument fully settled",
			zap.String("instrument", inst.ID.String()),
			zap.String("voucher", voucher))
	}
	return alloc, nil
}

// EditPayment re-runs allocation for an amended amount. An edit is never an
// in-place mutation: the old voucher's rows are excluded from the baseline,
// deleted, and the split recomputed from scratch. Confirmed rows refuse.
func (e *Engine) EditPayment(txnID uuid.UUID, asOf time.Time, newAmount decimal.Decimal, mode model.PaymentMode, note string) (*Allocation, error) {
	if !newAmount.IsPositive() {
		return nil, model.ErrInvalidAmount
	}
	newAmount = money.Round(newAmount)

	group, err := e.voucherGroup(txnID)
	if err != nil {
		return nil, err
	}

	var alloc *Allocation
	err = e.withRetry("edit payment", func() error {
		var err error
		alloc, err = e.allocateAndCommit(group.instrumentID, asOf, newAmount, mode, note, group.ids)
		return err
	})
	if err != nil {
		return nil, err
	}
	return alloc, nil
}

// DeletePayment removes an unconfirmed payment (all rows of its voucher).
func (e *Engine) DeletePayment(txnID uuid.UUID) error {
	group, err := e.voucherGroup(txnID)
	if err != nil {
		return err
	}

	return e.withRetry("delete payment", func() error {
		inst, err := e.store.GetInstrument(group.instrumentID)
		if err != nil {
			return err
		}
		all, err := e.store.FetchTransactions(group.instrumentID)
		if err != nil {
			return err
		}
		baseline := withoutTxns(all, group.ids)
		pos := e.position(inst, baseline, time.Now().UTC())

		// Removing a payment can re-open a settled instrument.
		active := !money.IsSettled(pos.PrincipalOutstanding.Add(pos.InterestOutstanding))
		return e.store.AppendPayment(store.PaymentWrite{
			InstrumentID: inst.ID,
			Version:      inst.Version,
			Remove:       group.ids,
			ActiveAfter:  &active,
		})
	})
}

type txnGroup struct {
	instrumentID uuid.UUID
	ids          []uuid.UUID
}

// voucherGroup resolves a transaction to all rows sharing its voucher (the
// interest and principal parts of one payment). Any confirmed row in the
// group locks the whole group.
func (e *Engine) voucherGroup(txnID uuid.UUID) (txnGroup, error) {
	txn, err := e.store.GetTransaction(txnID)
	if err != nil {
		return txnGroup{}, err
	}
	if txn.Confirmed {
		return txnGroup{}, model.ErrTransactionLocked
	}

	all, err := e.store.FetchTransactions(txn.InstrumentID)
	if err != nil {
		return txnGroup{}, err
	}

	group := txnGroup{instrumentID: txn.InstrumentID}
	base := id.Group(txn.Voucher)
	for _, t := range all {
		if id.Group(t.Voucher) != base {
			continue
		}
		if t.Confirmed {
			return txnGroup{}, model.ErrTransactionLocked
		}
		group.ids = append(group.ids, t.ID)
	}
	return group, nil
}

func withoutTxns(txns []model.Transaction, exclude []uuid.UUID) []model.Transaction {
	if len(exclude) == 0 {
		return txns
	}
	skip := make(map[uuid.UUID]bool, len(exclude))
	for _, id := range exclude {
		skip[id] = true
	}
	var out []model.Transaction
	for _, t := range txns {
		if !skip[t.ID] {
			out = append(out, t)
		}
	}
	return out
}
