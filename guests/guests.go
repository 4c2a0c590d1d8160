// Package guests holds the guest programs benchmarked by zkbench and the
// encoders for their private inputs. The same entry points run in-process
// under zkvm.Local and inside the zkprover binary.
package guests

import (
	"encoding/binary"
	"slices"

	"github.com/weiihann/zkbench/tip5"
	"github.com/weiihann/zkbench/zkvm"
)

// Program names.
const (
	IterSHA2    = "iter_sha2"
	BigSHA2     = "big_sha2"
	IterBlake2s = "iter_blake2s"
	IterTip5    = "iter_tip5"
	MerklePath  = "merkle_path"
)

// SeedLen is the length of the hash chain seed.
const SeedLen = 32

var entries = map[string]zkvm.Entry{
	IterSHA2:    iterSHA2,
	BigSHA2:     bigSHA2,
	IterBlake2s: iterBlake2s,
	IterTip5:    iterTip5,
	MerklePath:  merklePath,
}

// Lookup returns the entry point of the named program. It satisfies
// zkvm.Resolver.
func Lookup(name string) (zkvm.Entry, bool) {
	e, ok := entries[name]
	return e, ok
}

// Names returns all program names in sorted order.
func Names() []string {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// IterInput encodes the input of the iterated hash programs: the iteration
// count followed by the seed.
func IterInput(n uint32, seed [SeedLen]byte) []byte {
	b := make([]byte, 0, 4+SeedLen)
	b = binary.LittleEndian.AppendUint32(b, n)

	return append(b, seed[:]...)
}

// WordsInput encodes a length-prefixed buffer of little-endian words.
func WordsInput(words []uint32) []byte {
	b := make([]byte, 0, 4+len(words)*4)
	b = binary.LittleEndian.AppendUint32(b, uint32(len(words)))

	for _, w := range words {
		b = binary.LittleEndian.AppendUint32(b, w)
	}

	return b
}

// WordsBytes returns the bytes hashed by big_sha2 for words.
func WordsBytes(words []uint32) []byte {
	return WordsInput(words)[4:]
}

// MerkleInput encodes a membership batch: the tree depth, first leaf index,
// number of leaves and claimed root, followed by one sibling path per leaf.
func MerkleInput(depth uint32, index uint64, root tip5.Digest, paths [][]tip5.Digest) []byte {
	b := make([]byte, 0, 16+len(tip5.Bytes(root))*(1+len(paths)*int(depth)))
	b = binary.LittleEndian.AppendUint32(b, depth)
	b = binary.LittleEndian.AppendUint64(b, index)
	b = binary.LittleEndian.AppendUint32(b, uint32(len(paths)))
	b = append(b, tip5.Bytes(root)...)

	for _, path := range paths {
		for _, sibling := range path {
			b = append(b, tip5.Bytes(sibling)...)
		}
	}

	return b
}
