package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/bahi-dev/bahi/internal/model"
)

// PaymentWrite is the atomic multi-row output of one allocation run: rows to
// append, unconfirmed rows to remove (the edit path), an optional advance
// credit, and the instrument version observed at replay time. All of it
// commits together or none of it does.
type PaymentWrite struct {
	InstrumentID uuid.UUID
	Version      int // version observed when the allocator replayed history
	Append       []model.Transaction
	Remove       []uuid.UUID
	Advance      *model.AdvanceEntry
	ActiveAfter  *bool // nil = leave the active flag alone
}

// Store is the persistence contract the engine and commands operate
// against. One SQLite implementation ships; anything providing these
// semantics (versioned instrument writes, atomic payment commits) works.
type Store interface {
	CreateCounterparty(cp *model.Counterparty) error
	GetCounterparty(id uuid.UUID) (*model.Counterparty, error)
	GetCounterpartyByName(name string) (*model.Counterparty, error)
	ListCounterparties() ([]*model.Counterparty, error)

	CreateInstrument(inst *model.Instrument) error
	GetInstrument(id uuid.UUID) (*model.Instrument, error)
	ListInstruments(activeOnly bool) ([]*model.Instrument, error)
	// UpdateInstrument applies an explicit correction. The write is
	// version-checked and bumps the version on success.
	UpdateInstrument(inst *model.Instrument) error

	FetchTransactions(instrumentID uuid.UUID) ([]model.Transaction, error)
	GetTransaction(id uuid.UUID) (*model.Transaction, error)
	// AppendPayment commits one allocation atomically, failing with
	// model.ErrConcurrentModification if the instrument version moved.
	AppendPayment(w PaymentWrite) error
	UpdateConfirmation(id uuid.UUID, confirmed bool, actorID string, at time.Time) error

	CreateFirmAccount(acct *model.FirmAccount) error
	GetFirmAccount(id uuid.UUID) (*model.FirmAccount, error)
	GetFirmAccountByName(name string) (*model.FirmAccount, error)
	ListFirmAccounts() ([]*model.FirmAccount, error)
	AppendFirmTransactions(txns []model.FirmTransaction) error
	FetchFirmTransactions(accountID uuid.UUID) ([]model.FirmTransaction, error)

	AppendAdvanceEntry(entry model.AdvanceEntry) error
	FetchAdvanceEntries(counterpartyID uuid.UUID) ([]model.AdvanceEntry, error)

	// NextVoucherSeq returns the next free voucher sequence for a month.
	NextVoucherSeq(year, month int) (int, error)

	Close() error
}
