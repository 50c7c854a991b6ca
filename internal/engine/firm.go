package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bahi-dev/bahi/internal/model"
	"github.com/bahi-dev/bahi/internal/money"
	"github.com/bahi-dev/bahi/internal/replay"
)

// RecordFirmTransaction appends one row to a firm account. The kind must
// have a sign in the configured table; an unregistered kind is a
// configuration gap, not a guess the engine makes.
func (e *Engine) RecordFirmTransaction(accountID uuid.UUID, kind model.FirmTxnKind, amount decimal.Decimal, effective time.Time, description, reference string) (*model.FirmTransaction, error) {
	if !amount.IsPositive() {
		return nil, model.ErrInvalidAmount
	}
	if _, ok := e.signs[kind]; !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownKind, kind)
	}
	if _, err := e.store.GetFirmAccount(accountID); err != nil {
		return nil, err
	}

	txn := model.FirmTransaction{
		ID:            uuid.New(),
		AccountID:     accountID,
		Kind:          kind,
		Amount:        money.Round(amount),
		EffectiveDate: effective,
		Description:   description,
		Reference:     reference,
		CreatedAt:     time.Now().UTC(),
	}
	if err := e.store.AppendFirmTransactions([]model.FirmTransaction{txn}); err != nil {
		return nil, err
	}
	return &txn, nil
}

// ImportStatement turns parsed bank-statement rows into firm transactions:
// money in becomes a deposit, money out a withdrawal. Rows are appended
// atomically as one batch.
func (e *Engine) ImportStatement(accountID uuid.UUID, rows []model.StatementRow) ([]model.FirmTransaction, error) {
	if _, err := e.store.GetFirmAccount(accountID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	txns := make([]model.FirmTransaction, 0, len(rows))
	for _, row := range rows {
		if row.Amount.IsZero() {
			continue
		}
		kind := model.FirmDeposit
		amount := row.Amount
		if amount.IsNegative() {
			kind = model.FirmWithdrawal
			amount = amount.Neg()
		}
		txns = append(txns, model.FirmTransaction{
			ID:            uuid.New(),
			AccountID:     accountID,
			Kind:          kind,
			Amount:        money.Round(amount),
			EffectiveDate: row.Date,
			Description:   row.Description,
			Reference:     row.Reference,
			CreatedAt:     now,
		})
	}

	if err := e.store.AppendFirmTransactions(txns); err != nil {
		return nil, err
	}
	return txns, nil
}

// FirmBalance replays a firm account into its current balance and
// per-kind totals.
func (e *Engine) FirmBalance(accountID uuid.UUID) (replay.Result, error) {
	acct, err := e.store.GetFirmAccount(accountID)
	if err != nil {
		return replay.Result{}, err
	}
	txns, err := e.store.FetchFirmTransactions(accountID)
	if err != nil {
		return replay.Result{}, err
	}
	return replay.Firm(acct.Opening, txns, e.signs)
}
