package zkvm

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/weiihann/zkbench/tip5"
	"golang.org/x/crypto/blake2s"
)

type opcode uint64

const (
	opRead opcode = iota + 1
	opCommit
	opAssert
	opSHA256
	opBlake2s
	opTip5Hash
	opTip5Merge
)

// Cycle costs charged per operation.
const (
	cyclesPerIO       = 1
	cyclesPerAssert   = 1
	cyclesPerSHABlock = 68
	cyclesPerBlake    = 80
	cyclesPerTip5     = 8
)

// Env is the guest's view of the machine: a private input tape, a public
// journal and hashing coprocessors. Every call is recorded in the trace.
type Env struct {
	input   []byte
	pos     int
	journal []byte
	trace   []tip5.Digest
	cycles  uint64
}

func newEnv(input []byte) *Env {
	return &Env{input: input}
}

// Cycles returns the cycles consumed so far.
func (e *Env) Cycles() uint64 {
	return e.cycles
}

// Remaining returns the number of unread input bytes.
func (e *Env) Remaining() int {
	return len(e.input) - e.pos
}

// Read consumes n bytes of input.
func (e *Env) Read(n int) ([]byte, error) {
	if n < 0 || n > e.Remaining() {
		return nil, fmt.Errorf("%w: read %d bytes at offset %d of %d",
			ErrInputExhausted, n, e.pos, len(e.input))
	}

	b := e.input[e.pos : e.pos+n]
	e.pos += n
	e.record(opRead, cyclesPerIO, uint64(n))

	return b, nil
}

// ReadU32 consumes a little-endian uint32.
func (e *Env) ReadU32() (uint32, error) {
	b, err := e.Read(4)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(b), nil
}

// ReadU64 consumes a little-endian uint64.
func (e *Env) ReadU64() (uint64, error) {
	b, err := e.Read(8)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint64(b), nil
}

// ReadDigest consumes a Tip5 digest encoded with tip5.Bytes.
func (e *Env) ReadDigest() (tip5.Digest, error) {
	b, err := e.Read(len(tip5.Zero()) * 8)
	if err != nil {
		return tip5.Zero(), err
	}

	return tip5.FromBytes(b)
}

// Commit appends b to the public journal.
func (e *Env) Commit(b []byte) {
	e.journal = append(e.journal, b...)
	e.record(opCommit, cyclesPerIO, uint64(len(b)))
}

// CommitU32s appends big-endian words to the journal.
func (e *Env) CommitU32s(words ...uint32) {
	b := make([]byte, 0, len(words)*4)
	for _, w := range words {
		b = binary.BigEndian.AppendUint32(b, w)
	}

	e.Commit(b)
}

// CommitU64s appends little-endian words to the journal.
func (e *Env) CommitU64s(words ...uint64) {
	b := make([]byte, 0, len(words)*8)
	for _, w := range words {
		b = binary.LittleEndian.AppendUint64(b, w)
	}

	e.Commit(b)
}

// Assert returns an error wrapping ErrAssertion when cond is false.
func (e *Env) Assert(cond bool, format string, args ...any) error {
	if cond {
		e.record(opAssert, cyclesPerAssert, 1)
		return nil
	}

	e.record(opAssert, cyclesPerAssert, 0)

	return fmt.Errorf("%w: %s", ErrAssertion, fmt.Sprintf(format, args...))
}

// SHA256 hashes b on the SHA-256 coprocessor.
func (e *Env) SHA256(b []byte) [32]byte {
	sum := sha256.Sum256(b)
	blocks := uint64(len(b)+9+63) / 64
	e.record(opSHA256, blocks*cyclesPerSHABlock, bytesToValues(sum[:])...)

	return sum
}

// Blake2s hashes b on the BLAKE2s coprocessor.
func (e *Env) Blake2s(b []byte) [32]byte {
	sum := blake2s.Sum256(b)
	blocks := uint64(len(b)+63) / 64
	if blocks == 0 {
		blocks = 1
	}

	e.record(opBlake2s, blocks*cyclesPerBlake, bytesToValues(sum[:])...)

	return sum
}

// Tip5Hash10 hashes exactly tip5.Rate elements.
func (e *Env) Tip5Hash10(in [tip5.Rate]field.Element) tip5.Digest {
	out := tip5.Hash10(in)
	e.record(opTip5Hash, cyclesPerTip5, tip5.Values(out)...)

	return out
}

// Tip5Step performs one Tip5 chain iteration.
func (e *Env) Tip5Step(state tip5.Digest) tip5.Digest {
	out := tip5.Step(state)
	e.record(opTip5Hash, cyclesPerTip5, tip5.Values(out)...)

	return out
}

// Tip5Merge hashes two Merkle children into their parent.
func (e *Env) Tip5Merge(left, right tip5.Digest) tip5.Digest {
	out := tip5.Merge(left, right)
	e.record(opTip5Merge, cyclesPerTip5, tip5.Values(out)...)

	return out
}

// record appends a trace row binding the operation, its position and its
// result.
func (e *Env) record(op opcode, cost uint64, operands ...uint64) {
	e.cycles += cost

	row := make([]field.Element, 0, len(operands)+3)
	row = append(row,
		field.New(uint64(op)),
		field.New(uint64(len(e.trace))),
		field.New(e.cycles),
	)

	for _, v := range operands {
		row = append(row, field.New(v))
	}

	e.trace = append(e.trace, tip5.HashVarlen(row))
}

func bytesToValues(b []byte) []uint64 {
	elems := tip5.Elements(b)
	out := make([]uint64, len(elems))

	for i, el := range elems {
		out[i] = el.Value()
	}

	return out
}
