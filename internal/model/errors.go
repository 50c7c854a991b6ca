package model

import "errors"

// Domain errors are pure sentinels; callers test with errors.Is. Every one
// of them changes what the user is shown, so they are returned, never
// swallowed.
var (
	ErrInvalidAmount      = errors.New("amount must be a positive value")
	ErrInstrumentNotFound = errors.New("instrument not found")
	ErrInstrumentInactive = errors.New("instrument is settled and inactive")

	ErrTransactionNotFound = errors.New("transaction not found")
	ErrTransactionLocked   = errors.New("transaction is confirmed and locked")

	ErrCounterpartyNotFound = errors.New("counterparty not found")
	ErrAccountNotFound      = errors.New("firm account not found")

	// ErrConcurrentModification signals that the version observed at replay
	// time no longer matches the stored row. The only error kind callers
	// retry automatically.
	ErrConcurrentModification = errors.New("instrument modified concurrently, refetch and retry")

	ErrInsufficientAdvance = errors.New("draw exceeds advance credit balance")

	// ErrUnknownKind means a firm transaction kind has no configured sign.
	ErrUnknownKind = errors.New("firm transaction kind has no registered sign")
)
