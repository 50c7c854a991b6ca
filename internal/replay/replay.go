// Package replay derives balances by folding full transaction history.
// Nothing in the system stores a running balance; every balance shown
// anywhere is recomputed here from an opening figure plus the ordered
// transaction list, so a missed update can never cause drift.
package replay

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/bahi-dev/bahi/internal/model"
)

// SignTable maps a firm-account transaction kind to its effect on the
// balance (+1 or -1). Kinds outside the built-ins register their sign here,
// typically from configuration; replay never branches on kind names.
type SignTable map[model.FirmTxnKind]int

// FirmSigns returns the default table for firm accounts. Adjustment is
// deliberately absent: its direction is configured, not assumed.
func FirmSigns() SignTable {
	return SignTable{
		model.FirmDeposit:    +1,
		model.FirmIncome:     +1,
		model.FirmWithdrawal: -1,
		model.FirmExpense:    -1,
		model.FirmRefund:     -1,
	}
}

// Register adds or overrides a kind's sign. Sign must be +1 or -1.
func (t SignTable) Register(kind model.FirmTxnKind, sign int) error {
	if sign != 1 && sign != -1 {
		return fmt.Errorf("sign for kind %q must be +1 or -1, got %d", kind, sign)
	}
	t[kind] = sign
	return nil
}

// Result is the outcome of replaying a firm account.
type Result struct {
	Balance      decimal.Decimal
	TotalsByKind map[model.FirmTxnKind]decimal.Decimal
}

// Firm folds a firm account's transactions over its opening balance.
// A kind missing from the table is an error: an unregistered kind means
// the configuration is incomplete, and guessing a sign corrupts the ledger.
func Firm(opening decimal.Decimal, txns []model.FirmTransaction, table SignTable) (Result, error) {
	sorted := make([]model.FirmTransaction, len(txns))
	copy(sorted, txns)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].EffectiveDate.Equal(sorted[j].EffectiveDate) {
			return sorted[i].EffectiveDate.Before(sorted[j].EffectiveDate)
		}
		return sorted[i].Seq < sorted[j].Seq
	})

	res := Result{
		Balance:      opening,
		TotalsByKind: make(map[model.FirmTxnKind]decimal.Decimal),
	}
	for _, txn := range sorted {
		sign, ok := table[txn.Kind]
		if !ok {
			return Result{}, fmt.Errorf("no sign registered for firm transaction kind %q", txn.Kind)
		}
		effect := txn.Amount.Mul(decimal.NewFromInt(int64(sign)))
		res.Balance = res.Balance.Add(effect)
		res.TotalsByKind[txn.Kind] = res.TotalsByKind[txn.Kind].Add(txn.Amount)
	}
	return res, nil
}

// Position is the outcome of replaying an instrument: how much principal is
// still owed and how much interest has been paid so far. Both are >= 0.
type Position struct {
	PrincipalOutstanding decimal.Decimal
	InterestPaid         decimal.Decimal
	PrincipalClamped     bool // replay hit negative outstanding and clamped
}

// Instrument folds an instrument's payment rows over its opening balance
// (principal + fees). Principal and mixed rows reduce the outstanding
// principal; interest rows accumulate into InterestPaid only. Outstanding
// principal is clamped at zero; the flag tells the caller to log it.
func Instrument(inst model.Instrument, txns []model.Transaction) Position {
	sorted := make([]model.Transaction, len(txns))
	copy(sorted, txns)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].PaymentDate.Equal(sorted[j].PaymentDate) {
			return sorted[i].PaymentDate.Before(sorted[j].PaymentDate)
		}
		return sorted[i].Seq < sorted[j].Seq
	})

	pos := Position{
		PrincipalOutstanding: inst.Opening(),
		InterestPaid:         decimal.Zero,
	}
	for _, txn := range sorted {
		switch txn.Kind {
		case model.TxnInterest:
			pos.InterestPaid = pos.InterestPaid.Add(txn.Amount)
		case model.TxnPrincipal, model.TxnMixed:
			pos.PrincipalOutstanding = pos.PrincipalOutstanding.Sub(txn.Amount)
		}
	}
	if pos.PrincipalOutstanding.IsNegative() {
		pos.PrincipalOutstanding = decimal.Zero
		pos.PrincipalClamped = true
	}
	return pos
}

// Advance folds a counterparty's advance entries into the current credit
// balance. Credits add, draws subtract.
func Advance(entries []model.AdvanceEntry) decimal.Decimal {
	sorted := make([]model.AdvanceEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].EffectiveDate.Equal(sorted[j].EffectiveDate) {
			return sorted[i].EffectiveDate.Before(sorted[j].EffectiveDate)
		}
		return sorted[i].Seq < sorted[j].Seq
	})

	balance := decimal.Zero
	for _, e := range sorted {
		switch e.Kind {
		case model.AdvanceDraw:
			balance = balance.Sub(e.Amount)
		default: // model.AdvanceCredit
			balance = balance.Add(e.Amount)
		}
	}
	return balance
}
