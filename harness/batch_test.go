package harness

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// fakeFamily builds jobs from int specs. A negative spec fails setup and
// spec 13 produces a host/guest mismatch.
type fakeFamily struct {
	created []int
}

func (f *fakeFamily) Name() string { return "fake_family" }

func (f *fakeFamily) SizeOf(spec int) uint32 { return uint32(spec * 2) }

func (f *fakeFamily) Create(spec int) (Job[word, *fakeProof], error) {
	if spec < 0 {
		return nil, fmt.Errorf("negative spec %d", spec)
	}

	f.created = append(f.created, spec)

	guest := word{byte(spec)}
	if spec == 13 {
		guest = word{0xff}
	}

	return corruptingJob{&fakeJob{
		host:    word{byte(spec)},
		hasHost: true,
		guest:   guest,
	}}, nil
}

func TestRunBatchInOrder(t *testing.T) {
	family := &fakeFamily{}
	specs := []int{3, 1, 2}

	results, err := RunBatch[int, word, *fakeProof](context.Background(), discardLogger(), family, specs, "run-1")
	if err != nil {
		t.Fatalf("RunBatch failed: %v", err)
	}

	if len(results) != len(specs) {
		t.Fatalf("got %d results, want %d", len(results), len(specs))
	}

	for i, spec := range specs {
		if results[i].JobSize != uint32(spec*2) {
			t.Errorf("results[%d].JobSize = %d, want %d", i, results[i].JobSize, spec*2)
		}
		if results[i].RunID != "run-1" {
			t.Errorf("results[%d].RunID = %q, want run-1", i, results[i].RunID)
		}
		if results[i].JobName != "fake_family" {
			t.Errorf("results[%d].JobName = %q, want fake_family", i, results[i].JobName)
		}
	}
}

func TestRunBatchAbortsOnViolation(t *testing.T) {
	family := &fakeFamily{}
	specs := []int{1, 13, 2}

	results, err := RunBatch[int, word, *fakeProof](context.Background(), discardLogger(), family, specs, "")
	if err == nil {
		t.Fatal("expected batch to abort")
	}

	if len(results) != 1 {
		t.Errorf("got %d results, want 1", len(results))
	}

	var be *BatchError
	if !errors.As(err, &be) {
		t.Fatalf("error %T is not a *BatchError", err)
	}
	if be.Completed != 1 {
		t.Errorf("completed = %d, want 1", be.Completed)
	}
	if be.Index != 1 {
		t.Errorf("index = %d, want 1", be.Index)
	}
	if be.Family != "fake_family" {
		t.Errorf("family = %q, want fake_family", be.Family)
	}
	if !errors.Is(err, ErrOutputMismatch) {
		t.Errorf("error %v does not wrap ErrOutputMismatch", err)
	}
	if kind, _ := KindOf(err); kind != KindCorrectness {
		t.Errorf("kind = %s, want correctness", kind)
	}

	// Spec 2 must never be constructed once the batch aborted.
	if len(family.created) != 2 {
		t.Errorf("created %v, want only the first two specs", family.created)
	}
}

func TestRunBatchSetupError(t *testing.T) {
	family := &fakeFamily{}

	results, err := RunBatch[int, word, *fakeProof](context.Background(), discardLogger(), family, []int{-1, 1}, "")
	if err == nil {
		t.Fatal("expected setup failure")
	}

	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
	if !errors.Is(err, ErrSetup) {
		t.Errorf("error %v does not wrap ErrSetup", err)
	}

	var v *Violation
	if !errors.As(err, &v) {
		t.Fatalf("error %v carries no violation", err)
	}
	if v.Kind != KindSetup || v.Phase != PhaseInit {
		t.Errorf("kind/phase = %s/%s, want setup/init", v.Kind, v.Phase)
	}
}

func TestNewBatch(t *testing.T) {
	b := NewBatch[int, word, *fakeProof](&fakeFamily{}, []int{1, 2})

	if b.Name() != "fake_family" {
		t.Errorf("name = %q, want fake_family", b.Name())
	}
	if b.Len() != 2 {
		t.Errorf("len = %d, want 2", b.Len())
	}

	results, err := b.Run(context.Background(), discardLogger(), "run-2")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("got %d results, want 2", len(results))
	}
}
