package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/weiihann/zkbench/guests"
	"github.com/weiihann/zkbench/workload"
	"github.com/weiihann/zkbench/workloads"
	"gopkg.in/yaml.v3"
)

// Plan selects which workloads to run and with which specs.
type Plan struct {
	Batches []PlanEntry `yaml:"batches"`
}

// PlanEntry overrides the default specs of one workload. Depth and Index
// default to the standard merkle_path tree when omitted. A big_sha2 entry
// either lists words or draws buffers lengths from distribution between
// min_words and max_words.
type PlanEntry struct {
	Workload     string   `yaml:"workload"`
	Iterations   []uint32 `yaml:"iterations,omitempty"`
	Words        []int    `yaml:"words,omitempty"`
	Buffers      int      `yaml:"buffers,omitempty"`
	Distribution string   `yaml:"distribution,omitempty"`
	MinWords     int      `yaml:"min_words,omitempty"`
	MaxWords     int      `yaml:"max_words,omitempty"`
	Depth        *uint32  `yaml:"depth,omitempty"`
	Index        uint64   `yaml:"index,omitempty"`
	Count        []uint32 `yaml:"count,omitempty"`
}

// LoadPlan reads and validates a YAML plan.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan %s: %w", path, err)
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parse plan %s: %w", path, err)
	}

	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("plan %s: %w", path, err)
	}

	return &plan, nil
}

// Validate checks that every entry names a known workload and carries the
// specs that workload reads.
func (p *Plan) Validate() error {
	if len(p.Batches) == 0 {
		return errors.New("no batches")
	}

	known := workloads.Known()

	for i, e := range p.Batches {
		if !slices.Contains(known, e.Workload) {
			return fmt.Errorf("batch %d: unknown workload %q", i, e.Workload)
		}

		var n int

		switch e.Workload {
		case guests.BigSHA2:
			if e.Buffers < 0 {
				return fmt.Errorf("batch %d: negative buffers %d", i, e.Buffers)
			}

			if e.Buffers > 0 {
				if len(e.Words) > 0 {
					return fmt.Errorf("batch %d: words and buffers are mutually exclusive", i)
				}

				if err := e.sizes().Validate(); err != nil {
					return fmt.Errorf("batch %d: %w", i, err)
				}
			}

			n = len(e.Words) + e.Buffers
		case guests.MerklePath:
			if slices.Contains(e.Count, 0) {
				return fmt.Errorf("batch %d: merkle_path count must be at least 1", i)
			}

			n = len(e.Count)
		case guests.IterSHA2, guests.IterBlake2s:
			if slices.Contains(e.Iterations, 0) {
				return fmt.Errorf("batch %d: %s iterations must be at least 1", i, e.Workload)
			}

			n = len(e.Iterations)
		default:
			n = len(e.Iterations)
		}

		if n == 0 {
			return fmt.Errorf("batch %d: no specs for %s", i, e.Workload)
		}
	}

	return nil
}

// SpecSet converts e to the spec set consumed by workloads.NewBatch.
func (e PlanEntry) SpecSet() *workloads.SpecSet {
	depth := uint32(workloads.DefaultMerkleDepth)
	if e.Depth != nil {
		depth = *e.Depth
	}

	return &workloads.SpecSet{
		Iterations: e.Iterations,
		Words:      e.Words,
		Depth:      depth,
		Index:      e.Index,
		Counts:     e.Count,
		Buffers:    e.Buffers,
		Sizes:      e.sizes(),
	}
}

func (e PlanEntry) sizes() workload.Config {
	return workload.Config{
		MinWords:     e.MinWords,
		MaxWords:     e.MaxWords,
		Distribution: e.Distribution,
	}
}
