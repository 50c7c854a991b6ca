// Package engine is the ledger and interest-accrual core: it derives
// outstanding balances by replay, splits incoming payments interest-first,
// routes overpayment into advance credit, and enforces the one-way
// confirmation lock on historical transactions.
package engine

import (
	"errors"

	"go.uber.org/zap"

	"github.com/bahi-dev/bahi/internal/model"
	"github.com/bahi-dev/bahi/internal/replay"
	"github.com/bahi-dev/bahi/internal/store"
)

// maxRetries bounds automatic retries on version conflicts. Contention is
// per-entity and rare, so there is no backoff.
const maxRetries = 3

// Auditor records administrative actions (confirmations, overrides).
// The audit package provides the CSV-backed implementation.
type Auditor interface {
	Record(actor, action, ref, details string) error
}

// Engine wires the pure calculators to a Store. All operations against one
// instrument serialize through the store's versioned write path; operations
// across entities are independent.
type Engine struct {
	store store.Store
	signs replay.SignTable
	audit Auditor
	log   *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithSigns replaces the default firm-account sign table, typically with
// configured entries for adjustment and any custom kinds.
func WithSigns(t replay.SignTable) Option {
	return func(e *Engine) { e.signs = t }
}

// WithAuditor attaches an audit trail for confirmation actions.
func WithAuditor(a Auditor) Option {
	return func(e *Engine) { e.audit = a }
}

// New creates an Engine. A nil logger is replaced with a no-op one.
func New(st store.Store, log *zap.Logger, opts ...Option) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{store: st, signs: replay.FirmSigns(), log: log}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// withRetry re-runs fn on version conflicts, up to maxRetries attempts.
// Every other error is terminal for the request.
func (e *Engine) withRetry(op string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err = fn()
		if !errors.Is(err, model.ErrConcurrentModification) {
			return err
		}
		e.log.Debug("version conflict, retrying",
			zap.String("op", op), zap.Int("attempt", attempt))
	}
	return err
}
