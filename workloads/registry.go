package workloads

import (
	"fmt"
	"strings"

	"github.com/weiihann/zkbench/guests"
	"github.com/weiihann/zkbench/harness"
	"github.com/weiihann/zkbench/workload"
	"github.com/weiihann/zkbench/zkvm"
)

// Default merkle_path tree.
const (
	DefaultMerkleDepth = 16
	DefaultMerkleIndex = 0
)

// SpecSet lists the specs of one batch. Only the fields relevant to a
// family are read: Iterations for the iterated hashes, Words (buffer
// lengths) for big_sha2, and Depth, Index and Counts for merkle_path.
//
// When Buffers is non-zero, big_sha2 ignores Words and draws that many
// lengths from Sizes.
type SpecSet struct {
	Iterations []uint32
	Words      []int
	Depth      uint32
	Index      uint64
	Counts     []uint32
	Buffers    int
	Sizes      workload.Config
}

// Known returns the supported family names in run order.
func Known() []string {
	return []string{
		guests.IterSHA2, guests.BigSHA2, guests.IterBlake2s,
		guests.IterTip5, guests.MerklePath,
	}
}

// DefaultSpecs returns the default spec set of a family.
func DefaultSpecs(name string) (SpecSet, error) {
	switch name {
	case guests.IterSHA2:
		return SpecSet{Iterations: workload.Ladder(1, 10, 5)}, nil
	case guests.BigSHA2:
		return SpecSet{Words: []int{1024, 2048, 4096, 8192}}, nil
	case guests.IterBlake2s, guests.IterTip5:
		return SpecSet{Iterations: workload.Ladder(10, 10, 3)}, nil
	case guests.MerklePath:
		return SpecSet{
			Depth:  DefaultMerkleDepth,
			Index:  DefaultMerkleIndex,
			Counts: workload.Ladder(10, 10, 3),
		}, nil
	default:
		return SpecSet{}, fmt.Errorf("unknown workload %q", name)
	}
}

// Describe renders the specs of set for the named family.
func Describe(name string, set SpecSet) string {
	switch name {
	case guests.BigSHA2:
		if set.Buffers > 0 {
			dist := set.Sizes.Distribution
			if dist == "" {
				dist = workload.DistUniform
			}

			return fmt.Sprintf("buffers=%d %s words=%d..%d",
				set.Buffers, dist, set.Sizes.MinWords, set.Sizes.MaxWords)
		}

		return "words=" + joinInts(set.Words)
	case guests.MerklePath:
		return fmt.Sprintf("depth=%d index=%d count=%s", set.Depth, set.Index, joinInts(set.Counts))
	default:
		return "iterations=" + joinInts(set.Iterations)
	}
}

// NewBatch binds the named family to set, or to its defaults when set is
// nil.
func NewBatch(name string, opts Options, set *SpecSet) (harness.Batch, error) {
	specs, err := DefaultSpecs(name)
	if err != nil {
		return nil, err
	}

	if set != nil {
		specs = *set
	}

	switch name {
	case guests.IterSHA2:
		return harness.NewBatch[uint32, Words32, *zkvm.Receipt](NewIterSHA2(opts), specs.Iterations), nil

	case guests.BigSHA2:
		seed := opts.Seed
		if seed == 0 {
			seed = workload.DefaultSeed
		}

		cfg := specs.Sizes
		cfg.Seed = seed
		gen := workload.NewGenerator(cfg)

		words := specs.Words
		if specs.Buffers > 0 {
			words, err = gen.Sizes(specs.Buffers)
			if err != nil {
				return nil, fmt.Errorf("draw %s sizes: %w", name, err)
			}
		}

		buffers, err := gen.Buffers(words)
		if err != nil {
			return nil, fmt.Errorf("generate %s buffers: %w", name, err)
		}

		return harness.NewBatch[[]uint32, Bytes, *zkvm.Receipt](NewBigSHA2(opts), buffers), nil

	case guests.IterBlake2s:
		return harness.NewBatch[uint32, Bytes, *zkvm.Receipt](NewIterBlake2s(opts), specs.Iterations), nil

	case guests.IterTip5:
		return harness.NewBatch[uint32, Elements, *zkvm.Receipt](NewIterTip5(opts), specs.Iterations), nil

	default:
		merkle := make([]MerkleSpec, 0, len(specs.Counts))
		for _, c := range specs.Counts {
			merkle = append(merkle, MerkleSpec{Depth: specs.Depth, Index: specs.Index, Count: c})
		}

		return harness.NewBatch[MerkleSpec, Elements, *zkvm.Receipt](NewMerklePath(opts), merkle), nil
	}
}

func joinInts[T ~int | ~uint32](vals []T) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprint(v)
	}

	return strings.Join(parts, ",")
}
