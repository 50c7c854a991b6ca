package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TxnKind says what an instrument transaction pays down.
type TxnKind string

const (
	TxnPrincipal TxnKind = "principal"
	TxnInterest  TxnKind = "interest"
	TxnMixed     TxnKind = "mixed" // legacy rows recorded before the allocator split payments
)

// PaymentMode is how the money moved. Open set; new modes need no code change.
type PaymentMode string

const (
	ModeCash PaymentMode = "cash"
	ModeBank PaymentMode = "bank"
)

// Transaction is one recorded payment row against an instrument. Amount is
// always positive; the kind says what it reduces. PaymentDate is the
// effective date and may precede CreatedAt (backdated entries); Seq breaks
// ties between rows on the same date.
type Transaction struct {
	ID           uuid.UUID
	InstrumentID uuid.UUID
	Voucher      string
	Amount       decimal.Decimal
	Kind         TxnKind
	PaymentDate  time.Time
	Mode         PaymentMode
	Note         string
	Confirmed    bool
	ConfirmedAt  *time.Time
	ConfirmedBy  string
	Seq          int64
	CreatedAt    time.Time
}

// FirmAccount is an internal cash or bank pool, independent of any
// instrument. It has no stored balance; the balance is always replayed.
type FirmAccount struct {
	ID        uuid.UUID
	Name      string
	Type      string // "cash", "bank"
	Opening   decimal.Decimal
	CreatedAt time.Time
}

// FirmTxnKind classifies a firm-account transaction. The set is open:
// kinds beyond the built-ins declare their sign through configuration
// (replay.SignTable), never through code branching.
type FirmTxnKind string

const (
	FirmDeposit    FirmTxnKind = "deposit"
	FirmWithdrawal FirmTxnKind = "withdrawal"
	FirmExpense    FirmTxnKind = "expense"
	FirmIncome     FirmTxnKind = "income"
	FirmAdjustment FirmTxnKind = "adjustment"
	FirmRefund     FirmTxnKind = "refund"
)

// FirmTransaction is an append-only row against a firm account. Amount is
// always positive; the sign is carried by the kind.
type FirmTransaction struct {
	ID            uuid.UUID
	AccountID     uuid.UUID
	Kind          FirmTxnKind
	Amount        decimal.Decimal
	EffectiveDate time.Time
	Description   string
	Reference     string
	Seq           int64
	CreatedAt     time.Time
}

// StatementRow is a parsed bank-statement CSV row, before it becomes a
// FirmTransaction. Negative amount = money out.
type StatementRow struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Reference   string
}
