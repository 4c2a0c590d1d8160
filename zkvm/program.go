// Package zkvm defines the proving engine contract consumed by the benchmark
// harness and ships two engines: Local, an in-process reference engine that
// executes guest programs and seals a commitment to their trace, and Exec,
// which drives an external prover binary over JSON on stdin/stdout.
//
// Local is an attestation engine. It binds the journal to the program, input
// and execution trace, but it is neither zero-knowledge nor sound against a
// malicious prover.
package zkvm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Engine proves and verifies guest program executions.
type Engine interface {
	Prove(ctx context.Context, prog *Program, input []byte, opts ProofOptions) (*Receipt, error)
	Verify(ctx context.Context, prog *Program, input []byte, receipt *Receipt) error
}

// Entry is the body of a guest program.
type Entry func(env *Env) error

// Resolver looks up a guest entry point by program name.
type Resolver func(name string) (Entry, bool)

// MethodID identifies a program image.
type MethodID [32]byte

func (id MethodID) String() string {
	return hex.EncodeToString(id[:])
}

// ParseMethodID decodes a hex method ID.
func ParseMethodID(s string) (MethodID, error) {
	var id MethodID

	b, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("decode method id: %w", err)
	}
	if len(b) != len(id) {
		return id, fmt.Errorf("method id length %d, want %d", len(b), len(id))
	}

	copy(id[:], b)

	return id, nil
}

// Program is a guest program: a name, an optional image whose bytes
// contribute to the method ID, and the entry point executed by Local.
type Program struct {
	Name  string
	Image []byte
	Entry Entry

	id MethodID
}

// NewProgram builds a program and computes its method ID.
func NewProgram(name string, image []byte, entry Entry) *Program {
	return &Program{
		Name:  name,
		Image: image,
		Entry: entry,
		id:    ComputeMethodID(name, image),
	}
}

// MethodID returns the program's method ID.
func (p *Program) MethodID() MethodID {
	return p.id
}

// ComputeMethodID derives the method ID of a named image.
func ComputeMethodID(name string, image []byte) MethodID {
	h := sha256.New()
	h.Write([]byte("zkbench/method/v1"))
	h.Write([]byte(name))
	h.Write([]byte{0})
	h.Write(image)

	var id MethodID
	copy(id[:], h.Sum(nil))

	return id
}
