package harness

import (
	"errors"
	"fmt"
)

// Phase is a step of the benchmark protocol.
type Phase int

const (
	PhaseInit Phase = iota
	PhaseHostCompute
	PhaseGuestCompute
	PhaseSizeAccounting
	PhaseVerify
	PhaseFalsify
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhaseHostCompute:
		return "host_compute"
	case PhaseGuestCompute:
		return "guest_compute"
	case PhaseSizeAccounting:
		return "size_accounting"
	case PhaseVerify:
		return "verify"
	case PhaseFalsify:
		return "falsify"
	case PhaseDone:
		return "done"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Kind classifies a fatal violation.
type Kind int

const (
	// KindSetup means the job could not be constructed.
	KindSetup Kind = iota + 1
	// KindGuest means guest execution failed, e.g. a program assertion.
	KindGuest
	// KindCorrectness means host and guest outputs differ.
	KindCorrectness
	// KindSoundness means a genuine proof was rejected or a tampered
	// proof was accepted.
	KindSoundness
	// KindEngine means the verifier failed without reaching a verdict,
	// e.g. a prover process crashed.
	KindEngine
)

func (k Kind) String() string {
	switch k {
	case KindSetup:
		return "setup"
	case KindGuest:
		return "guest"
	case KindCorrectness:
		return "correctness"
	case KindSoundness:
		return "soundness"
	case KindEngine:
		return "engine"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

var (
	ErrSetup                 = errors.New("job setup failed")
	ErrGuestFailed           = errors.New("guest execution failed")
	ErrOutputMismatch        = errors.New("host and guest outputs differ")
	ErrProofRejected         = errors.New("genuine proof failed verification")
	ErrTamperedProofAccepted = errors.New("tampered proof accepted by verifier")
	ErrVerifierFailed        = errors.New("verifier failed without a verdict")
)

// Violation is a fatal invariant failure in one job run.
type Violation struct {
	Kind  Kind
	Phase Phase
	Job   string
	Size  uint32
	Err   error
}

func (v *Violation) Error() string {
	return fmt.Sprintf("%s violation in %s phase of %s (size %d): %v",
		v.Kind, v.Phase, v.Job, v.Size, v.Err)
}

func (v *Violation) Unwrap() error {
	return v.Err
}

// Is matches any *Violation of the same kind.
func (v *Violation) Is(target error) bool {
	t, ok := target.(*Violation)
	if !ok {
		return false
	}

	return t.Kind == v.Kind
}

// KindOf returns the kind of the violation carried by err, if any.
func KindOf(err error) (Kind, bool) {
	var v *Violation
	if !errors.As(err, &v) {
		return 0, false
	}

	return v.Kind, true
}

// BatchError reports a batch aborted by a violation.
type BatchError struct {
	Family    string
	Completed int
	Index     int
	Err       error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch %s aborted after %d completed job(s): %v",
		e.Family, e.Completed, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}
