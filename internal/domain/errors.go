package domain

import "errors"

// Sentinel errors for the failure taxonomy. Services wrap these with
// fmt.Errorf("...: %w", ...) so the HTTP layer can map them to status codes.
var (
	// ErrValidation marks malformed or missing required input.
	ErrValidation = errors.New("invalid input")

	// ErrNotFound marks a referenced member/loan/round that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrLedgerConfirmation marks a rejected, reverted or unreachable chain
	// ledger call. No local state is mutated when this is returned.
	ErrLedgerConfirmation = errors.New("ledger confirmation failed")

	// ErrAlreadySettled marks a payment against a fully paid loan or an
	// already contributed round.
	ErrAlreadySettled = errors.New("already settled")

	// ErrConflict marks a concurrent modification detected by the revision
	// guard; the operation must be retried against fresh state.
	ErrConflict = errors.New("concurrent modification")
)
