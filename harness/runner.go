package harness

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// RunJob drives job through every protocol phase in order and returns the
// finalized metrics. Any invariant failure stops the run and is returned as
// a *Violation; the metrics recorded up to that point are returned with it.
func RunJob[O Output[O], P any](
	ctx context.Context,
	logger *slog.Logger,
	name string,
	size uint32,
	job Job[O, P],
) (Metrics, error) {
	m := NewMetrics(name, size)

	fail := func(kind Kind, phase Phase, err error) (Metrics, error) {
		return m, &Violation{
			Kind:  kind,
			Phase: phase,
			Job:   name,
			Size:  size,
			Err:   err,
		}
	}

	start := time.Now()
	host, hasHost := job.HostCompute()
	m.HostDuration = time.Since(start)
	m.HostReference = hasHost

	if !hasHost {
		logger.DebugContext(ctx, "no host reference, skipping equivalence check",
			slog.String("job", name),
		)
	}

	start = time.Now()
	output, proof, err := job.GuestCompute(ctx)
	m.ProofDuration = time.Since(start)

	if err != nil {
		return fail(KindGuest, PhaseGuestCompute,
			fmt.Errorf("%w: %w", ErrGuestFailed, err))
	}

	if hasHost && !host.Equal(output) {
		return fail(KindCorrectness, PhaseGuestCompute,
			fmt.Errorf("%w: host %s, guest %s",
				ErrOutputMismatch, host.String(), output.String()))
	}

	m.OutputBytes = job.OutputSize(output, proof)
	m.ProofBytes = job.ProofSize(proof)

	if cc, ok := job.(CycleCounter[P]); ok {
		m.Cycles = cc.Cycles(proof)
	}

	verify := func(p P) (bool, error) {
		if pc, ok := job.(ProofChecker[O, P]); ok {
			return pc.CheckProof(ctx, output, p)
		}

		return job.VerifyProof(ctx, output, p), nil
	}

	start = time.Now()
	valid, err := verify(proof)
	m.VerifyDuration = time.Since(start)

	if err != nil {
		return fail(KindEngine, PhaseVerify,
			fmt.Errorf("%w: %w", ErrVerifierFailed, err))
	}

	if !valid {
		return fail(KindSoundness, PhaseVerify, ErrProofRejected)
	}

	corrupter, ok := job.(Corrupter[P])
	if !ok {
		logger.DebugContext(ctx, "falsification unsupported",
			slog.String("job", name),
		)

		return m, nil
	}

	tampered := corrupter.CorruptProof(proof)

	start = time.Now()
	accepted, err := verify(tampered)
	m.FalsifyDuration = time.Since(start)

	if err != nil {
		return fail(KindEngine, PhaseFalsify,
			fmt.Errorf("%w: %w", ErrVerifierFailed, err))
	}

	m.Falsified = true

	if accepted {
		return fail(KindSoundness, PhaseFalsify, ErrTamperedProofAccepted)
	}

	return m, nil
}
