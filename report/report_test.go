package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/weiihann/zkbench/harness"
)

func sampleRun() Run {
	return Run{
		ID: "run-42",
		Host: Host{
			Hostname:     "bench-1",
			OS:           "linux",
			CPUModel:     "Test CPU",
			LogicalCores: 8,
			MemoryBytes:  16 * 1024 * 1024 * 1024,
		},
		Results: []harness.Metrics{
			{
				JobName:         "iter_sha2",
				JobSize:         10,
				HostDuration:    20 * time.Microsecond,
				ProofDuration:   1500 * time.Millisecond,
				VerifyDuration:  12 * time.Millisecond,
				FalsifyDuration: 11 * time.Millisecond,
				OutputBytes:     32,
				ProofBytes:      118,
				Cycles:          1234,
				HostReference:   true,
				Falsified:       true,
			},
			{
				JobName:        "merkle_path",
				JobSize:        100,
				ProofDuration:  3 * time.Second,
				VerifyDuration: 5 * time.Millisecond,
				OutputBytes:    40,
				ProofBytes:     118,
			},
		},
	}
}

func TestGenerate(t *testing.T) {
	var buf bytes.Buffer
	if err := Generate(&buf, sampleRun()); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	output := buf.String()

	for _, want := range []string{
		"run-42", "Test CPU", "8 cores", "16 GB RAM",
		"iter_sha2", "merkle_path", "1.50s", "3.00s", "12ms", "11ms",
		"1234", "118 B",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestGenerateEmpty(t *testing.T) {
	var buf bytes.Buffer

	err := Generate(&buf, Run{})
	if !errors.Is(err, ErrNoResults) {
		t.Errorf("error = %v, want ErrNoResults", err)
	}
}

func TestGenerateJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := GenerateJSON(&buf, sampleRun()); err != nil {
		t.Fatalf("GenerateJSON failed: %v", err)
	}

	var parsed Run
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if len(parsed.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(parsed.Results))
	}
	if parsed.Results[0].ProofDuration != 1500*time.Millisecond {
		t.Errorf("proof duration = %v, want 1.5s", parsed.Results[0].ProofDuration)
	}
	if parsed.Host.CPUModel != "Test CPU" {
		t.Errorf("cpu model = %q, want Test CPU", parsed.Host.CPUModel)
	}
}

func TestGenerateCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := GenerateCSV(&buf, sampleRun()); err != nil {
		t.Fatalf("GenerateCSV failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(rows))
	}

	if rows[0][0] != "Instance type + job name + job size" {
		t.Errorf("first header = %q", rows[0][0])
	}

	want := []string{"bench-1 iter_sha2 10", "1.5", "0.012", "32", "118", "0.00002", "0.011", "1234", "true", "true"}
	for i, cell := range want {
		if rows[1][i] != cell {
			t.Errorf("row 1 column %d = %q, want %q", i, rows[1][i], cell)
		}
	}
}

func TestGeneratePrometheus(t *testing.T) {
	var buf bytes.Buffer
	if err := GeneratePrometheus(&buf, sampleRun()); err != nil {
		t.Fatalf("GeneratePrometheus failed: %v", err)
	}

	output := buf.String()

	for _, want := range []string{
		`zkbench_phase_duration_seconds{job="iter_sha2",phase="guest_compute",run_id="run-42",size="10"} 1.5`,
		`zkbench_phase_duration_seconds{job="iter_sha2",phase="falsify",run_id="run-42",size="10"} 0.011`,
		`zkbench_artifact_bytes{artifact="proof",job="merkle_path",run_id="run-42",size="100"} 118`,
		`zkbench_guest_cycles{job="iter_sha2",run_id="run-42",size="10"} 1234`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}

	if strings.Contains(output, `job="merkle_path",phase="falsify"`) {
		t.Error("falsify duration emitted for a job without falsification")
	}
}

func TestWritePrometheusFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zkbench.prom")

	if err := WritePrometheusFile(path, sampleRun()); err != nil {
		t.Fatalf("WritePrometheusFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(string(data), "zkbench_artifact_bytes") {
		t.Error("textfile is missing artifact gauges")
	}
}

func TestHostString(t *testing.T) {
	tests := []struct {
		host Host
		want string
	}{
		{Host{}, ""},
		{Host{OS: "linux"}, "linux"},
		{Host{CPUModel: "X", LogicalCores: 4, Platform: "ubuntu 24.04", OS: "linux"}, "X, 4 cores, ubuntu 24.04"},
	}

	for _, tt := range tests {
		if got := tt.host.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}

	if got := (Host{OS: "linux"}).Instance(); got != "linux" {
		t.Errorf("Instance() = %q, want linux", got)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		input uint64
		want  string
	}{
		{0, "-"},
		{512, "512 B"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{1048576, "1 MB"},
		{1073741824, "1 GB"},
	}

	for _, tt := range tests {
		got := formatBytes(tt.input)
		if got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		input time.Duration
		want  string
	}{
		{0, "0µs"},
		{250 * time.Microsecond, "250µs"},
		{500 * time.Millisecond, "500ms"},
		{999 * time.Millisecond, "999ms"},
		{time.Second, "1.00s"},
		{1500 * time.Millisecond, "1.50s"},
		{time.Minute, "60.00s"},
	}

	for _, tt := range tests {
		got := formatDuration(tt.input)
		if got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
