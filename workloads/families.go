// Package workloads implements the benchmark workload families. Each family
// turns a spec into a harness.Job that runs one guest program through a
// zkvm.Engine and computes the same result natively for cross-checking.
package workloads

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/weiihann/zkbench/guests"
	"github.com/weiihann/zkbench/harness"
	"github.com/weiihann/zkbench/tip5"
	"github.com/weiihann/zkbench/zkvm"
	"golang.org/x/crypto/blake2s"
)

// Options are shared by every family.
type Options struct {
	Engine   zkvm.Engine
	ImageDir string
	Proof    zkvm.ProofOptions
	Seed     int64
}

// program validates opts and binds the named guest to its image.
func (o Options) program(name string) (*zkvm.Program, error) {
	if o.Engine == nil {
		return nil, errors.New("no proving engine configured")
	}

	if err := o.Proof.Validate(); err != nil {
		return nil, err
	}

	entry, ok := guests.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown guest program %q", name)
	}

	image, err := zkvm.LoadImage(o.ImageDir, name)
	if err != nil {
		return nil, err
	}

	return zkvm.NewProgram(name, image, entry), nil
}

func newJob[O harness.Output[O]](opts Options, prog *zkvm.Program, input []byte) *proverJob[O] {
	return &proverJob[O]{
		engine: opts.Engine,
		prog:   prog,
		input:  input,
		opts:   opts.Proof,
	}
}

// IterSHA2 hashes 32 zero bytes n times with SHA-256.
type IterSHA2 struct {
	opts Options
}

// NewIterSHA2 creates the iter_sha2 family.
func NewIterSHA2(opts Options) *IterSHA2 {
	return &IterSHA2{opts: opts}
}

func (f *IterSHA2) Name() string { return guests.IterSHA2 }

func (f *IterSHA2) SizeOf(n uint32) uint32 { return n }

func (f *IterSHA2) Create(n uint32) (harness.Job[Words32, *zkvm.Receipt], error) {
	if n == 0 {
		return nil, errors.New("iterations must be at least 1")
	}

	prog, err := f.opts.program(guests.IterSHA2)
	if err != nil {
		return nil, err
	}

	var seed [guests.SeedLen]byte

	job := newJob[Words32](f.opts, prog, guests.IterInput(n, seed))
	job.decode = WordsFromBytes
	job.encode = Words32.Bytes
	job.host = func() (Words32, bool) {
		digest := seed
		for i := uint32(0); i < n; i++ {
			digest = sha256.Sum256(digest[:])
		}

		w, _ := WordsFromBytes(digest[:])

		return w, true
	}

	return corruptibleJob[Words32]{job}, nil
}

// BigSHA2 hashes one word buffer with SHA-256.
type BigSHA2 struct {
	opts Options
}

// NewBigSHA2 creates the big_sha2 family.
func NewBigSHA2(opts Options) *BigSHA2 {
	return &BigSHA2{opts: opts}
}

func (f *BigSHA2) Name() string { return guests.BigSHA2 }

func (f *BigSHA2) SizeOf(words []uint32) uint32 { return uint32(len(words) * 4) }

func (f *BigSHA2) Create(words []uint32) (harness.Job[Bytes, *zkvm.Receipt], error) {
	prog, err := f.opts.program(guests.BigSHA2)
	if err != nil {
		return nil, err
	}

	job := newJob[Bytes](f.opts, prog, guests.WordsInput(words))
	job.decode = decodeBytes
	job.encode = encodeBytes
	job.host = func() (Bytes, bool) {
		sum := sha256.Sum256(guests.WordsBytes(words))
		return Bytes(sum[:]), true
	}

	return corruptibleJob[Bytes]{job}, nil
}

// IterBlake2s hashes 32 zero bytes n times with BLAKE2s-256.
type IterBlake2s struct {
	opts Options
}

// NewIterBlake2s creates the iter_blake2s family.
func NewIterBlake2s(opts Options) *IterBlake2s {
	return &IterBlake2s{opts: opts}
}

func (f *IterBlake2s) Name() string { return guests.IterBlake2s }

func (f *IterBlake2s) SizeOf(n uint32) uint32 { return n }

func (f *IterBlake2s) Create(n uint32) (harness.Job[Bytes, *zkvm.Receipt], error) {
	if n == 0 {
		return nil, errors.New("iterations must be at least 1")
	}

	prog, err := f.opts.program(guests.IterBlake2s)
	if err != nil {
		return nil, err
	}

	var seed [guests.SeedLen]byte

	job := newJob[Bytes](f.opts, prog, guests.IterInput(n, seed))
	job.decode = decodeBytes
	job.encode = encodeBytes
	job.host = func() (Bytes, bool) {
		digest := seed
		for i := uint32(0); i < n; i++ {
			digest = blake2s.Sum256(digest[:])
		}

		return Bytes(digest[:]), true
	}

	return corruptibleJob[Bytes]{job}, nil
}

// IterTip5 applies the Tip5 permutation chain n times to the zero state.
// It has no falsification step.
type IterTip5 struct {
	opts Options
}

// NewIterTip5 creates the iter_tip5 family.
func NewIterTip5(opts Options) *IterTip5 {
	return &IterTip5{opts: opts}
}

func (f *IterTip5) Name() string { return guests.IterTip5 }

func (f *IterTip5) SizeOf(n uint32) uint32 { return n }

func (f *IterTip5) Create(n uint32) (harness.Job[Elements, *zkvm.Receipt], error) {
	prog, err := f.opts.program(guests.IterTip5)
	if err != nil {
		return nil, err
	}

	job := newJob[Elements](f.opts, prog, binary.LittleEndian.AppendUint32(nil, n))
	job.decode = ElementsFromBytes
	job.encode = Elements.Bytes
	job.host = func() (Elements, bool) {
		return Elements(tip5.Values(tip5.Chain(n))), true
	}

	return job, nil
}

// MerkleSpec selects Count consecutive leaves starting at Index in a tree
// of 2^Depth leaves. A non-nil Root replaces the true root as the claimed
// one.
type MerkleSpec struct {
	Depth uint32
	Index uint64
	Count uint32
	Root  Elements
}

// MerklePath proves membership of a run of leaves. The guest fails unless
// every path leads to the claimed root, so there is no host reference.
type MerklePath struct {
	opts Options
}

// NewMerklePath creates the merkle_path family.
func NewMerklePath(opts Options) *MerklePath {
	return &MerklePath{opts: opts}
}

func (f *MerklePath) Name() string { return guests.MerklePath }

func (f *MerklePath) SizeOf(spec MerkleSpec) uint32 { return spec.Count }

func (f *MerklePath) Create(spec MerkleSpec) (harness.Job[Elements, *zkvm.Receipt], error) {
	if spec.Count == 0 {
		return nil, errors.New("merkle_path count must be at least 1")
	}

	prog, err := f.opts.program(guests.MerklePath)
	if err != nil {
		return nil, err
	}

	tree, err := tip5.NewTree(spec.Depth, tip5.Leaf)
	if err != nil {
		return nil, err
	}

	root := tree.Root()
	if spec.Root != nil {
		if len(spec.Root) != len(root) {
			return nil, fmt.Errorf("root has %d elements, want %d", len(spec.Root), len(root))
		}

		root = tip5.FromValues(spec.Root...)
	}

	paths := make([][]tip5.Digest, 0, spec.Count)
	for i := uint64(0); i < uint64(spec.Count); i++ {
		path, err := tree.Path(spec.Index + i)
		if err != nil {
			// Out-of-tree leaves get blank advice; the guest rejects the
			// index before reading it.
			path = make([]tip5.Digest, spec.Depth)
			for k := range path {
				path[k] = tip5.Zero()
			}
		}

		paths = append(paths, path)
	}

	job := newJob[Elements](f.opts, prog, guests.MerkleInput(spec.Depth, spec.Index, root, paths))
	job.decode = ElementsFromBytes
	job.encode = Elements.Bytes

	return corruptibleJob[Elements]{job}, nil
}

func decodeBytes(b []byte) (Bytes, error) {
	if len(b) != sha256.Size {
		return nil, fmt.Errorf("journal length %d, want %d", len(b), sha256.Size)
	}

	return Bytes(b), nil
}

func encodeBytes(b Bytes) []byte {
	return b
}
