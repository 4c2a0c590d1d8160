package zkvm

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/merkle"
	"github.com/weiihann/zkbench/tip5"
)

const sealDomain = "zkbench/seal/v1"

// Local is the in-process reference engine.
type Local struct {
	logger *slog.Logger
}

// NewLocal creates a Local engine. A nil logger discards output.
func NewLocal(logger *slog.Logger) *Local {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Local{logger: logger}
}

// Prove executes prog on input and seals the resulting journal.
func (l *Local) Prove(ctx context.Context, prog *Program, input []byte, opts ProofOptions) (*Receipt, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if prog == nil || prog.Entry == nil {
		return nil, errors.New("prove: program has no entry point")
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("prove %s: %w", prog.Name, err)
	}

	env := newEnv(input)
	if err := prog.Entry(env); err != nil {
		return nil, &ExecError{Program: prog.Name, Cycles: env.cycles, Err: err}
	}

	root, err := commitTrace(env.trace)
	if err != nil {
		return nil, fmt.Errorf("prove %s: %w", prog.Name, err)
	}

	seal := Seal{
		MethodID:     prog.MethodID(),
		SecurityBits: uint16(opts.SecurityBits),
		Cycles:       env.cycles,
		TraceRoot:    root,
	}
	seal.Tag = sealTag(seal, input, env.journal)

	l.logger.DebugContext(ctx, "proved",
		slog.String("program", prog.Name),
		slog.Uint64("cycles", env.cycles),
		slog.Int("trace_rows", len(env.trace)),
		slog.Int("journal_bytes", len(env.journal)),
	)

	return &Receipt{Journal: env.journal, Seal: seal}, nil
}

// Verify checks that receipt was produced by prog on input.
func (l *Local) Verify(_ context.Context, prog *Program, input []byte, receipt *Receipt) error {
	if receipt == nil {
		return fmt.Errorf("%w: nil receipt", ErrInvalidReceipt)
	}

	opts := ProofOptions{SecurityBits: int(receipt.Seal.SecurityBits)}
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidReceipt, err)
	}

	if receipt.Seal.MethodID != prog.MethodID() {
		return fmt.Errorf("%w: receipt %s, want %s", ErrMethodMismatch, receipt.Seal.MethodID, prog.MethodID())
	}

	want := sealTag(receipt.Seal, input, receipt.Journal)
	if subtle.ConstantTimeCompare(want[:], receipt.Seal.Tag[:]) != 1 {
		return ErrSealMismatch
	}

	return nil
}

// commitTrace pads rows to a power of two and returns the encoded Merkle
// root.
func commitTrace(rows []tip5.Digest) ([TraceRootLen]byte, error) {
	var out [TraceRootLen]byte

	n := 2
	for n < len(rows) {
		n <<= 1
	}

	leaves := make([]hash.Digest, n)
	copy(leaves, rows)

	for i := len(rows); i < n; i++ {
		leaves[i] = tip5.Zero()
	}

	tree, err := merkle.New(leaves)
	if err != nil {
		return out, fmt.Errorf("commit trace: %w", err)
	}

	copy(out[:], tip5.Bytes(tree.Root()))

	return out, nil
}

func sealTag(s Seal, input, journal []byte) [32]byte {
	h := sha256.New()
	h.Write([]byte(sealDomain))
	h.Write(s.MethodID[:])

	var nums [10]byte
	binary.BigEndian.PutUint16(nums[:2], s.SecurityBits)
	binary.BigEndian.PutUint64(nums[2:], s.Cycles)
	h.Write(nums[:])
	h.Write(s.TraceRoot[:])

	inputSum := sha256.Sum256(input)
	h.Write(inputSum[:])
	h.Write(journal)

	var tag [32]byte
	copy(tag[:], h.Sum(nil))

	return tag
}
