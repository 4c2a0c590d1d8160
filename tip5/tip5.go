// Package tip5 provides Tip5 hash chains and binary Merkle trees over the
// Goldilocks field, shared by host reference code and guest programs.
package tip5

import (
	"encoding/binary"
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"
)

// Rate is the number of field elements absorbed by one Hash10 call.
const Rate = 10

// MaxDepth bounds trees built in memory.
const MaxDepth = 24

// Digest is a Tip5 digest.
type Digest = hash.Digest

// Hash10 hashes exactly Rate elements.
func Hash10(in [Rate]field.Element) Digest {
	var d Digest = hash.Hash10(in)
	return d
}

// HashVarlen hashes an arbitrary number of elements.
func HashVarlen(in []field.Element) Digest {
	var d Digest = hash.HashVarlen(in)
	return d
}

// Merge hashes two child digests into their parent.
func Merge(left, right Digest) Digest {
	var in [Rate]field.Element
	for i := range in {
		in[i] = field.Zero
	}

	copy(in[:len(left)], left[:])
	copy(in[len(left):], right[:])

	return Hash10(in)
}

// Chain applies Hash10 n times to the zero state, feeding each digest back
// as the first elements of the next input.
func Chain(n uint32) Digest {
	state := Zero()

	for i := uint32(0); i < n; i++ {
		state = Step(state)
	}

	return state
}

// Step performs one iteration of Chain.
func Step(state Digest) Digest {
	var in [Rate]field.Element
	for i := range in {
		in[i] = field.Zero
	}

	copy(in[:], state[:])

	return Hash10(in)
}

// Zero returns the all-zero digest.
func Zero() Digest {
	var d Digest
	for i := range d {
		d[i] = field.Zero
	}

	return d
}

// FromValues builds a digest from up to len(Digest) canonical values,
// padding with zeros.
func FromValues(vals ...uint64) Digest {
	d := Zero()
	for i := 0; i < len(d) && i < len(vals); i++ {
		d[i] = field.New(vals[i])
	}

	return d
}

// Values returns the canonical values of d.
func Values(d Digest) []uint64 {
	out := make([]uint64, len(d))
	for i, e := range d {
		out[i] = e.Value()
	}

	return out
}

// Bytes encodes d little-endian, 8 bytes per element.
func Bytes(d Digest) []byte {
	out := make([]byte, len(d)*8)
	for i, e := range d {
		binary.LittleEndian.PutUint64(out[i*8:], e.Value())
	}

	return out
}

// FromBytes decodes a digest written by Bytes.
func FromBytes(b []byte) (Digest, error) {
	d := Zero()
	if len(b) != len(d)*8 {
		return d, fmt.Errorf("digest length %d, want %d", len(b), len(d)*8)
	}

	for i := range d {
		d[i] = field.New(binary.LittleEndian.Uint64(b[i*8:]))
	}

	return d, nil
}

// Elements packs b into field elements, 8 little-endian bytes at a time.
// A trailing partial chunk is zero-padded.
func Elements(b []byte) []field.Element {
	out := make([]field.Element, 0, (len(b)+7)/8)

	for i := 0; i < len(b); i += 8 {
		var chunk [8]byte
		copy(chunk[:], b[i:])
		out = append(out, field.New(binary.LittleEndian.Uint64(chunk[:])))
	}

	return out
}

// Equal reports whether a and b hold the same canonical values.
func Equal(a, b Digest) bool {
	for i := range a {
		if a[i].Value() != b[i].Value() {
			return false
		}
	}

	return true
}
