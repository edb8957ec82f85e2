package chainmodel

import (
	"errors"
	"fmt"
)

// Sentinel errors for the ledger's invariant violations. These are the
// caller's fault — unknown references or a duplicate write — and are
// surfaced, not recovered from, inside the ledger.
var (
	ErrUnknownWorker         = errors.New("chainmodel: unknown worker pubkey")
	ErrUnknownJob            = errors.New("chainmodel: unknown job id")
	ErrUnknownReceipt        = errors.New("chainmodel: unknown receipt id")
	ErrDuplicateChallenge    = errors.New("chainmodel: receipt already has a challenge")
	ErrDuplicateVerification = errors.New("chainmodel: receipt already has a verification")
	ErrMalformedReceipt      = errors.New("chainmodel: malformed receipt")
)

// LedgerError wraps a sentinel invariant-violation error with the
// operation and identifying context, following the same
// fmt.Errorf("...: %w", err) wrapping convention used throughout this
// module.
type LedgerError struct {
	Op  string // the ledger operation that failed, e.g. "SubmitReceipt"
	ID  string // the id involved, e.g. a job id or receipt id
	Err error  // one of the sentinels above
}

func (e *LedgerError) Error() string {
	return fmt.Sprintf("chainmodel: %s(%s): %v", e.Op, e.ID, e.Err)
}

func (e *LedgerError) Unwrap() error {
	return e.Err
}

// NewLedgerError builds a LedgerError for op operating on id, wrapping
// sentinel err.
func NewLedgerError(op, id string, err error) *LedgerError {
	return &LedgerError{Op: op, ID: id, Err: err}
}
