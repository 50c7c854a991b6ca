package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Confirm flips a transaction to confirmed, recording who and when
// atomically with the flag. Confirmation is one-way: a confirmed row can
// never again be edited, deleted, or re-split through the normal flow.
func (e *Engine) Confirm(txnID uuid.UUID, actorID string) error {
	if actorID == "" {
		return fmt.Errorf("confirm requires an actor id")
	}

	txn, err := e.store.GetTransaction(txnID)
	if err != nil {
		return err
	}
	if txn.Confirmed {
		return nil // already terminal
	}

	at := time.Now().UTC()
	if err := e.store.UpdateConfirmation(txnID, true, actorID, at); err != nil {
		return err
	}

	e.recordAudit(actorID, "confirm", txn.Voucher, "")
	return nil
}

// AdminUnconfirm reverses a confirmation. This is not part of the regular
// flow: it is a distinct administrative override and always lands in the
// audit trail with its reason.
func (e *Engine) AdminUnconfirm(txnID uuid.UUID, actorID, reason string) error {
	if actorID == "" {
		return fmt.Errorf("unconfirm requires an actor id")
	}
	if reason == "" {
		return fmt.Errorf("unconfirm requires a reason")
	}

	txn, err := e.store.GetTransaction(txnID)
	if err != nil {
		return err
	}
	if !txn.Confirmed {
		return nil
	}

	if err := e.store.UpdateConfirmation(txnID, false, actorID, time.Now().UTC()); err != nil {
		return err
	}

	e.log.Warn("administrative unconfirm",
		zap.String("transaction", txnID.String()),
		zap.String("actor", actorID),
		zap.String("reason", reason))
	e.recordAudit(actorID, "admin-unconfirm", txn.Voucher, reason)
	return nil
}

func (e *Engine) recordAudit(actor, action, ref, details string) {
	if e.audit == nil {
		return
	}
	if err := e.audit.Record(actor, action, ref, details); err != nil {
		e.log.Error("writing audit entry", zap.Error(err))
	}
}
