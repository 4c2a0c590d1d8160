// Package harness drives zkVM workloads through the benchmark protocol:
// host compute, guest compute with proof, equivalence check, proof
// verification and proof falsification, recording the cost of every phase.
package harness

import (
	"context"
	"fmt"
)

// Output is the result of a host or guest computation. Outputs of the same
// job are compared with Equal and printed with String on mismatch.
type Output[O any] interface {
	Equal(O) bool
	fmt.Stringer
}

// Job is a single workload instance built from one spec. A Job is used for
// exactly one run and then discarded.
type Job[O Output[O], P any] interface {
	// HostCompute returns the reference result computed without proving.
	// ok is false when the workload has no meaningful host reference.
	HostCompute() (out O, ok bool)

	// GuestCompute executes the workload inside the zkVM and returns the
	// claimed output together with its proof.
	GuestCompute(ctx context.Context) (O, P, error)

	// VerifyProof reports whether proof attests output. Invalid proofs of
	// any kind yield false.
	VerifyProof(ctx context.Context, output O, proof P) bool

	// OutputSize and ProofSize return serialized artifact sizes in bytes.
	OutputSize(output O, proof P) uint32
	ProofSize(proof P) uint32
}

// Corrupter is implemented by jobs that can produce a tampered proof for
// negative-path testing. Jobs without it skip the falsification phase.
type Corrupter[P any] interface {
	CorruptProof(proof P) P
}

// ProofChecker is implemented by jobs whose verifier can fail without
// reaching a verdict. CheckProof returns (false, nil) for an invalid proof
// and a non-nil error only when verification itself could not run. When
// present it replaces VerifyProof in the verify and falsify phases.
type ProofChecker[O, P any] interface {
	CheckProof(ctx context.Context, output O, proof P) (bool, error)
}

// CycleCounter is implemented by jobs whose proofs report a guest cycle
// count.
type CycleCounter[P any] interface {
	Cycles(proof P) uint64
}

// Family creates jobs of one workload kind from specs of type S.
type Family[S any, O Output[O], P any] interface {
	Name() string
	SizeOf(spec S) uint32
	Create(spec S) (Job[O, P], error)
}
