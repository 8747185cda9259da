package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the stores, the orchestrator and the transport layer.
// Every error returned by this module wraps exactly one of these sentinels, so
// callers branch with errors.Is.
var (
	// ErrValidation reports malformed or missing input
	ErrValidation = errors.New("validation failed")

	// ErrNotFound reports that no matching transfer (or wallet) exists
	ErrNotFound = errors.New("not found")

	// ErrIllegalState reports an operation invoked against the wrong transfer state
	ErrIllegalState = errors.New("illegal state")

	// ErrConcurrencyConflict reports a compare-and-set whose precondition failed
	ErrConcurrencyConflict = errors.New("concurrency conflict")

	// ErrStore reports a connectivity, timeout or write failure in a store
	ErrStore = errors.New("store failure")
)

// StoreError wraps a driver error so that it matches both ErrStore and the cause
func StoreError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStore, err)
}

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
