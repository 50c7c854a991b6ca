package engine

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bahi-dev/bahi/internal/model"
	"github.com/bahi-dev/bahi/internal/replay"
)

type memAudit struct {
	entries []string
}

func (a *memAudit) Record(actor, action, ref, details string) error {
	a.entries = append(a.entries, actor+"/"+action+"/"+ref)
	return nil
}

func TestConfirm(t *testing.T) {
	aud := &memAudit{}
	f := newFixture(t, WithAuditor(aud))
	inst := f.flatLoan(t)

	alloc, err := f.engine.RecordPayment(inst.ID, asOf, dec("60"), model.ModeCash, "")
	require.NoError(t, err)
	txnID := alloc.Transactions[0].ID

	require.NoError(t, f.engine.Confirm(txnID, "munshi-1"))

	got, err := f.store.GetTransaction(txnID)
	require.NoError(t, err)
	assert.True(t, got.Confirmed)
	assert.Equal(t, "munshi-1", got.ConfirmedBy)
	require.NotNil(t, got.ConfirmedAt)
	require.Len(t, aud.entries, 1)
	assert.Contains(t, aud.entries[0], "munshi-1/confirm/")

	// Confirming again is a no-op, not an error.
	require.NoError(t, f.engine.Confirm(txnID, "munshi-2"))
	got, err = f.store.GetTransaction(txnID)
	require.NoError(t, err)
	assert.Equal(t, "munshi-1", got.ConfirmedBy, "first confirmation stands")
}

func TestConfirm_RequiresActor(t *testing.T) {
	f := newFixture(t)
	assert.Error(t, f.engine.Confirm(uuid.New(), ""))
}

func TestAdminUnconfirm(t *testing.T) {
	aud := &memAudit{}
	f := newFixture(t, WithAuditor(aud))
	inst := f.flatLoan(t)

	alloc, err := f.engine.RecordPayment(inst.ID, asOf, dec("60"), model.ModeCash, "")
	require.NoError(t, err)
	txnID := alloc.Transactions[0].ID
	require.NoError(t, f.engine.Confirm(txnID, "munshi-1"))

	// Requires a reason; this is an audited override, not a normal edit.
	assert.Error(t, f.engine.AdminUnconfirm(txnID, "owner-1", ""))

	require.NoError(t, f.engine.AdminUnconfirm(txnID, "owner-1", "entered against wrong loan"))
	got, err := f.store.GetTransaction(txnID)
	require.NoError(t, err)
	assert.False(t, got.Confirmed)
	assert.Len(t, aud.entries, 2)

	// After the override the row is editable again.
	_, err = f.engine.EditPayment(txnID, asOf, dec("30"), model.ModeCash, "")
	require.NoError(t, err)
}

func TestCorrectInstrument(t *testing.T) {
	aud := &memAudit{}
	f := newFixture(t, WithAuditor(aud))
	inst := f.flatLoan(t)

	// Corrections are audited overrides: no actor, no correction.
	_, err := f.engine.CorrectInstrument(inst.ID, "", func(i *model.Instrument) {
		i.InterestRate = dec("12")
	})
	assert.Error(t, err)

	updated, err := f.engine.CorrectInstrument(inst.ID, "owner-1", func(i *model.Instrument) {
		i.InterestRate = dec("12")
	})
	require.NoError(t, err)
	assert.True(t, updated.InterestRate.Equal(dec("12")))
	assert.Greater(t, updated.Version, inst.Version)

	require.Len(t, aud.entries, 1)
	assert.Contains(t, aud.entries[0], "owner-1/correct-instrument/")

	// Corrections still revalidate: a negative rate never lands.
	_, err = f.engine.CorrectInstrument(inst.ID, "owner-1", func(i *model.Instrument) {
		i.InterestRate = dec("-1")
	})
	assert.Error(t, err)
}

func TestDrawAdvance(t *testing.T) {
	f := newFixture(t)
	inst := f.flatLoan(t)

	_, err := f.engine.RecordPayment(inst.ID, asOf, dec("1400"), model.ModeCash, "")
	require.NoError(t, err) // overpayment 300 parked as advance

	err = f.engine.DrawAdvance(f.cp.ID, dec("500"), "against new bill", asOf)
	assert.ErrorIs(t, err, model.ErrInsufficientAdvance)

	require.NoError(t, f.engine.DrawAdvance(f.cp.ID, dec("120"), "against new bill", asOf))
	balance, err := f.engine.AdvanceBalance(f.cp.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("180")), "got %s", balance)
}

func TestDrawAdvance_UnknownCounterparty(t *testing.T) {
	f := newFixture(t)
	err := f.engine.DrawAdvance(uuid.New(), dec("10"), "", asOf)
	assert.ErrorIs(t, err, model.ErrCounterpartyNotFound)
}

func newFirmAccount(t *testing.T, f *fixture, opening string) *model.FirmAccount {
	t.Helper()
	acct := &model.FirmAccount{
		ID: uuid.New(), Name: "shop cash", Type: "cash",
		Opening: dec(opening), CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, f.store.CreateFirmAccount(acct))
	return acct
}

func TestFirmBalance_Replay(t *testing.T) {
	f := newFixture(t)
	acct := newFirmAccount(t, f, "5000")

	day := date(2025, 1, 2)
	_, err := f.engine.RecordFirmTransaction(acct.ID, model.FirmDeposit, dec("1000"), day, "", "")
	require.NoError(t, err)
	_, err = f.engine.RecordFirmTransaction(acct.ID, model.FirmExpense, dec("200"), day.AddDate(0, 0, 1), "tea and porterage", "")
	require.NoError(t, err)
	_, err = f.engine.RecordFirmTransaction(acct.ID, model.FirmWithdrawal, dec("300"), day.AddDate(0, 0, 2), "", "")
	require.NoError(t, err)

	res, err := f.engine.FirmBalance(acct.ID)
	require.NoError(t, err)
	assert.True(t, res.Balance.Equal(dec("5500")), "got %s", res.Balance)
}

func TestRecordFirmTransaction_UnknownKind(t *testing.T) {
	f := newFixture(t)
	acct := newFirmAccount(t, f, "0")

	_, err := f.engine.RecordFirmTransaction(acct.ID, model.FirmAdjustment, dec("100"), asOf, "", "")
	assert.ErrorIs(t, err, model.ErrUnknownKind, "adjustment has no default sign")
}

func TestRecordFirmTransaction_ConfiguredKind(t *testing.T) {
	signs := replay.FirmSigns()
	require.NoError(t, signs.Register(model.FirmAdjustment, -1))

	f := newFixture(t, WithSigns(signs))
	acct := newFirmAccount(t, f, "1000")

	_, err := f.engine.RecordFirmTransaction(acct.ID, model.FirmAdjustment, dec("250"), asOf, "stock count correction", "")
	require.NoError(t, err)

	res, err := f.engine.FirmBalance(acct.ID)
	require.NoError(t, err)
	assert.True(t, res.Balance.Equal(dec("750")))
}

func TestImportStatement(t *testing.T) {
	f := newFixture(t)
	acct := newFirmAccount(t, f, "100")

	rows := []model.StatementRow{
		{Date: date(2025, 1, 5), Description: "UPI credit", Amount: dec("500"), Reference: "r1"},
		{Date: date(2025, 1, 6), Description: "rent", Amount: dec("-350"), Reference: "r2"},
		{Date: date(2025, 1, 7), Description: "zero row", Amount: dec("0")},
	}
	txns, err := f.engine.ImportStatement(acct.ID, rows)
	require.NoError(t, err)
	require.Len(t, txns, 2, "zero rows are skipped")
	assert.Equal(t, model.FirmDeposit, txns[0].Kind)
	assert.Equal(t, model.FirmWithdrawal, txns[1].Kind)
	assert.True(t, txns[1].Amount.Equal(dec("350")), "sign moves into the kind")

	res, err := f.engine.FirmBalance(acct.ID)
	require.NoError(t, err)
	assert.True(t, res.Balance.Equal(dec("250")))
}

func TestReminders(t *testing.T) {
	f := newFixture(t)

	due := date(2025, 2, 1)
	overdue, err := f.engine.OpenInstrument(OpenParams{
		Category:       model.CategoryLoan,
		CounterpartyID: f.cp.ID,
		Label:          "overdue loan",
		Principal:      dec("1000"),
		InterestRate:   dec("10"),
		InterestMode:   model.InterestFlat,
		OriginDate:     date(2025, 1, 1),
		DueDate:        &due,
	})
	require.NoError(t, err)

	farDue := date(2026, 1, 1)
	_, err = f.engine.OpenInstrument(OpenParams{
		Category:       model.CategoryLoan,
		CounterpartyID: f.cp.ID,
		Label:          "not due yet",
		Principal:      dec("500"),
		InterestMode:   model.InterestNone,
		OriginDate:     date(2025, 1, 1),
		DueDate:        &farDue,
	})
	require.NoError(t, err)

	_, err = f.engine.OpenInstrument(OpenParams{
		Category:       model.CategoryBill,
		CounterpartyID: f.cp.ID,
		Label:          "no due date",
		Principal:      dec("700"),
		InterestMode:   model.InterestNone,
		OriginDate:     date(2025, 1, 1),
	})
	require.NoError(t, err)

	settledDue := date(2025, 2, 10)
	settled, err := f.engine.OpenInstrument(OpenParams{
		Category:       model.CategoryLoan,
		CounterpartyID: f.cp.ID,
		Label:          "settled loan",
		Principal:      dec("200"),
		InterestMode:   model.InterestNone,
		OriginDate:     date(2025, 1, 1),
		DueDate:        &settledDue,
	})
	require.NoError(t, err)
	_, err = f.engine.RecordPayment(settled.ID, date(2025, 1, 20), dec("200"), model.ModeCash, "")
	require.NoError(t, err)

	reminders, err := f.engine.Reminders(date(2025, 3, 3))
	require.NoError(t, err)
	require.Len(t, reminders, 1, "only the overdue unsettled instrument")
	r := reminders[0]
	assert.Equal(t, overdue.ID, r.Instrument.ID)
	assert.Equal(t, 30, r.DaysOverdue)
	assert.True(t, r.Position.PrincipalOutstanding.Equal(dec("1000")))
	assert.True(t, r.Position.InterestOutstanding.Equal(dec("100")), "flat ten percent on 1000")
}

func TestReminders_RecomputedEachCall(t *testing.T) {
	f := newFixture(t)

	due := date(2025, 2, 1)
	inst, err := f.engine.OpenInstrument(OpenParams{
		Category:       model.CategoryLoan,
		CounterpartyID: f.cp.ID,
		Principal:      dec("1000"),
		InterestMode:   model.InterestNone,
		OriginDate:     date(2025, 1, 1),
		DueDate:        &due,
	})
	require.NoError(t, err)

	when := date(2025, 2, 15)
	first, err := f.engine.Reminders(when)
	require.NoError(t, err)
	require.Len(t, first, 1)

	_, err = f.engine.RecordPayment(inst.ID, when, dec("1000"), model.ModeCash, "")
	require.NoError(t, err)

	second, err := f.engine.Reminders(when)
	require.NoError(t, err)
	assert.Empty(t, second, "settlement must show up on the very next query")
}
