package workloads

import (
	"bytes"
	"context"
	"fmt"

	"github.com/weiihann/zkbench/harness"
	"github.com/weiihann/zkbench/zkvm"
)

// proverJob runs one guest program through a zkvm.Engine. Families differ
// only in the program, its input, the journal codec and the host reference.
type proverJob[O harness.Output[O]] struct {
	engine zkvm.Engine
	prog   *zkvm.Program
	input  []byte
	opts   zkvm.ProofOptions

	decode func(journal []byte) (O, error)
	encode func(out O) []byte
	host   func() (O, bool)
}

var _ harness.CycleCounter[*zkvm.Receipt] = (*proverJob[Bytes])(nil)

func (j *proverJob[O]) HostCompute() (O, bool) {
	if j.host == nil {
		var zero O
		return zero, false
	}

	return j.host()
}

func (j *proverJob[O]) GuestCompute(ctx context.Context) (O, *zkvm.Receipt, error) {
	var zero O

	receipt, err := j.engine.Prove(ctx, j.prog, j.input, j.opts)
	if err != nil {
		return zero, nil, err
	}

	out, err := j.decode(receipt.Journal)
	if err != nil {
		return zero, nil, fmt.Errorf("decode %s journal: %w", j.prog.Name, err)
	}

	return out, receipt, nil
}

var _ harness.ProofChecker[Bytes, *zkvm.Receipt] = (*proverJob[Bytes])(nil)

// VerifyProof checks the receipt with the engine and then that its journal
// is the claimed output. Engine failures count as rejection here; the
// runner uses CheckProof to tell them apart.
func (j *proverJob[O]) VerifyProof(ctx context.Context, output O, proof *zkvm.Receipt) bool {
	ok, _ := j.CheckProof(ctx, output, proof)
	return ok
}

// CheckProof is VerifyProof with engine failures, such as a crashed prover
// process, returned as errors instead of a false verdict.
func (j *proverJob[O]) CheckProof(ctx context.Context, output O, proof *zkvm.Receipt) (bool, error) {
	if proof == nil {
		return false, nil
	}

	if err := j.engine.Verify(ctx, j.prog, j.input, proof); err != nil {
		if zkvm.IsRejection(err) {
			return false, nil
		}

		return false, fmt.Errorf("verify %s: %w", j.prog.Name, err)
	}

	return bytes.Equal(j.encode(output), proof.Journal), nil
}

func (j *proverJob[O]) OutputSize(_ O, proof *zkvm.Receipt) uint32 {
	return uint32(len(proof.Journal))
}

func (j *proverJob[O]) ProofSize(_ *zkvm.Receipt) uint32 {
	return uint32(zkvm.SealSize())
}

func (j *proverJob[O]) Cycles(proof *zkvm.Receipt) uint64 {
	return proof.Seal.Cycles
}

// corruptAt is the journal byte whose low bit is flipped by CorruptProof.
const corruptAt = 3

// corruptibleJob is a proverJob that supports falsification.
type corruptibleJob[O harness.Output[O]] struct {
	*proverJob[O]
}

var _ harness.Corrupter[*zkvm.Receipt] = corruptibleJob[Bytes]{}

// CorruptProof flips the low bit of journal byte 3.
func (j corruptibleJob[O]) CorruptProof(proof *zkvm.Receipt) *zkvm.Receipt {
	return proof.FlipJournalBit(corruptAt, 0)
}
