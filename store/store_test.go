package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/weiihann/zkbench/harness"
)

func tempDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "history_test.db")
}

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := OpenStore(tempDBPath(t))
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}

	t.Cleanup(func() { s.Close() })

	return s
}

func sampleMetrics(run, job string, size uint32) harness.Metrics {
	return harness.Metrics{
		RunID:           run,
		JobName:         job,
		JobSize:         size,
		HostDuration:    3 * time.Microsecond,
		ProofDuration:   2 * time.Second,
		VerifyDuration:  15 * time.Millisecond,
		FalsifyDuration: 14 * time.Millisecond,
		OutputBytes:     32,
		ProofBytes:      118,
		Cycles:          9001,
		HostReference:   true,
		Falsified:       true,
	}
}

func TestOpenStoreCreatesFile(t *testing.T) {
	path := tempDBPath(t)

	s, err := OpenStore(path)
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("database file should exist after OpenStore")
	}
}

func TestInsertAndRecent(t *testing.T) {
	s := openTestStore(t)

	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	want := sampleMetrics("run-1", "iter_sha2", 10)
	if err := s.Insert("bench-1", want); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	records, err := s.Recent("", 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	got := records[0]
	if got.Metrics != want {
		t.Errorf("metrics = %+v, want %+v", got.Metrics, want)
	}
	if got.Host != "bench-1" {
		t.Errorf("host = %q, want bench-1", got.Host)
	}
	if !got.CreatedAt.Equal(fixed) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, fixed)
	}
}

func TestInsertBatchOrderAndFilter(t *testing.T) {
	s := openTestStore(t)

	batch := []harness.Metrics{
		sampleMetrics("run-1", "iter_sha2", 1),
		sampleMetrics("run-1", "iter_sha2", 10),
		sampleMetrics("run-1", "merkle_path", 10),
	}

	if err := s.InsertBatch("bench-1", batch); err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}

	records, err := s.Recent("", 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].JobName != "merkle_path" || records[1].JobSize != 10 {
		t.Errorf("records not newest first: %+v", records)
	}

	sha, err := s.Recent("iter_sha2", 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(sha) != 2 {
		t.Errorf("got %d iter_sha2 records, want 2", len(sha))
	}
}

func TestInsertKeepsRepeatedJobs(t *testing.T) {
	s := openTestStore(t)

	// Two merkle_path batches of different depths with the same count.
	shallow := sampleMetrics("run-1", "merkle_path", 10)
	deep := shallow
	deep.ProofDuration = time.Second

	if err := s.InsertBatch("bench-1", []harness.Metrics{shallow, deep}); err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}

	if err := s.Insert("bench-1", shallow); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	records, err := s.Recent("merkle_path", 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if records[1].ProofDuration != time.Second {
		t.Errorf("second newest proof duration = %v, want 1s", records[1].ProofDuration)
	}
}

func TestInsertBatchEmpty(t *testing.T) {
	s := openTestStore(t)

	if err := s.InsertBatch("bench-1", nil); err != nil {
		t.Fatalf("InsertBatch(nil): %v", err)
	}
}
