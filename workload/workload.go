// Package workload generates deterministic inputs for zkVM benchmarks:
// pseudo-random word buffers for the big_sha2 family, buffer sizes drawn
// from a distribution, and iteration ladders.
package workload

import (
	"fmt"
	"math"
	mrand "math/rand"
	"slices"
)

// DefaultSeed is the seed of the default big_sha2 buffers.
const DefaultSeed = 1337

// Config controls buffer generation. MinWords, MaxWords and Distribution
// are read only by Sizes.
type Config struct {
	Seed         int64
	MinWords     int
	MaxWords     int
	Distribution string
}

// Generator produces deterministic buffers from a Config.
type Generator struct {
	cfg Config
	rng *mrand.Rand
}

// NewGenerator creates a Generator from the given Config.
func NewGenerator(cfg Config) *Generator {
	return &Generator{
		cfg: cfg,
		rng: mrand.New(mrand.NewSource(cfg.Seed)),
	}
}

// Words returns n pseudo-random words.
func (g *Generator) Words(n int) []uint32 {
	words := make([]uint32, n)
	for i := range words {
		words[i] = g.rng.Uint32()
	}

	return words
}

// Buffers returns one buffer per requested length, in order.
func (g *Generator) Buffers(lengths []int) ([][]uint32, error) {
	out := make([][]uint32, 0, len(lengths))

	for _, n := range lengths {
		if n < 0 {
			return nil, fmt.Errorf("negative buffer length %d", n)
		}

		out = append(out, g.Words(n))
	}

	return out, nil
}

// Size distributions accepted by Sizes. The empty name means uniform.
const (
	DistUniform     = "uniform"
	DistPowerLaw    = "power-law"
	DistExponential = "exponential"
)

// paretoShape is the tail index of the power-law sizes.
const paretoShape = 1.5

// Validate checks the size range and distribution used by Sizes.
func (c Config) Validate() error {
	switch c.Distribution {
	case "", DistUniform, DistPowerLaw, DistExponential:
	default:
		return fmt.Errorf("unknown distribution %q, want %s, %s or %s",
			c.Distribution, DistUniform, DistPowerLaw, DistExponential)
	}

	if c.MinWords < 1 || c.MaxWords < c.MinWords {
		return fmt.Errorf("word range [%d, %d] is empty", c.MinWords, c.MaxWords)
	}

	return nil
}

// Sizes draws count buffer lengths in [MinWords, MaxWords] and returns them
// in ascending order, so a batch proves its smallest buffer first.
//
// power-law is Pareto with scale MinWords; exponential puts the median a
// quarter of the range above MinWords. Draws above MaxWords are clamped.
func (g *Generator) Sizes(count int) ([]int, error) {
	if err := g.cfg.Validate(); err != nil {
		return nil, err
	}

	if count < 0 {
		return nil, fmt.Errorf("negative size count %d", count)
	}

	lo, hi := float64(g.cfg.MinWords), float64(g.cfg.MaxWords)

	var draw func() float64

	switch g.cfg.Distribution {
	case DistPowerLaw:
		draw = func() float64 {
			return lo / math.Pow(1-g.rng.Float64(), 1/paretoShape)
		}
	case DistExponential:
		rate := math.Ln2 / math.Max(1, (hi-lo)/4)
		draw = func() float64 {
			return lo + g.rng.ExpFloat64()/rate
		}
	default:
		span := g.cfg.MaxWords - g.cfg.MinWords + 1
		draw = func() float64 {
			return lo + float64(g.rng.Intn(span))
		}
	}

	sizes := make([]int, count)
	for i := range sizes {
		sizes[i] = int(math.Min(draw(), hi))
	}

	slices.Sort(sizes)

	return sizes, nil
}

// Ladder returns n values starting at start, each factor times the
// previous one: Ladder(1, 10, 5) is 1, 10, 100, 1000, 10000.
func Ladder(start, factor uint32, n int) []uint32 {
	out := make([]uint32, 0, n)

	v := start
	for i := 0; i < n; i++ {
		out = append(out, v)

		if factor > 1 && v > math.MaxUint32/factor {
			break
		}

		v *= factor
	}

	return out
}
