package zkvm

import (
	"errors"
	"fmt"
)

var (
	// ErrAssertion is returned when a guest assertion fails.
	ErrAssertion = errors.New("guest assertion failed")
	// ErrInputExhausted is returned when a guest reads past its input.
	ErrInputExhausted = errors.New("guest input exhausted")
	// ErrInvalidReceipt is returned for structurally invalid receipts.
	ErrInvalidReceipt = errors.New("invalid receipt")
	// ErrMethodMismatch is returned when a receipt was produced by a
	// different program than the one being verified.
	ErrMethodMismatch = errors.New("method id mismatch")
	// ErrSealMismatch is returned when the seal does not bind the journal,
	// input and trace it claims to.
	ErrSealMismatch = errors.New("seal does not match receipt contents")
	// ErrProverFailed is returned when an external prover reports failure.
	ErrProverFailed = errors.New("prover failed")
	// ErrRejected is returned when an external prover rejects a receipt.
	ErrRejected = errors.New("receipt rejected by prover")
	// ErrInvalidOptions is returned for unsupported proof options.
	ErrInvalidOptions = errors.New("invalid proof options")
)

// IsRejection reports whether err from Engine.Verify is a verdict against
// the receipt, as opposed to a failure to verify it at all.
func IsRejection(err error) bool {
	return errors.Is(err, ErrInvalidReceipt) ||
		errors.Is(err, ErrMethodMismatch) ||
		errors.Is(err, ErrSealMismatch) ||
		errors.Is(err, ErrRejected)
}

// ExecError reports a failed guest execution.
type ExecError struct {
	Program string
	Cycles  uint64
	Err     error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("guest %s failed after %d cycles: %v", e.Program, e.Cycles, e.Err)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}
