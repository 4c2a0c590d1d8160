package harness

import (
	"log/slog"
	"time"
)

// Metrics holds the measurements of one completed job run.
type Metrics struct {
	RunID           string        `json:"run_id,omitempty"`
	JobName         string        `json:"job_name"`
	JobSize         uint32        `json:"job_size"`
	HostDuration    time.Duration `json:"host_duration_ns"`
	ProofDuration   time.Duration `json:"proof_duration_ns"`
	VerifyDuration  time.Duration `json:"verify_duration_ns"`
	FalsifyDuration time.Duration `json:"falsify_duration_ns,omitempty"`
	OutputBytes     uint32        `json:"output_bytes"`
	ProofBytes      uint32        `json:"proof_bytes"`
	Cycles          uint64        `json:"cycles,omitempty"`
	HostReference   bool          `json:"host_reference"`
	Falsified       bool          `json:"falsified"`
}

// NewMetrics returns an empty record for a job of the given family and size.
func NewMetrics(jobName string, jobSize uint32) Metrics {
	return Metrics{
		JobName: jobName,
		JobSize: jobSize,
	}
}

// LogValue implements slog.LogValuer.
func (m Metrics) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("job_name", m.JobName),
		slog.Any("job_size", m.JobSize),
		slog.Duration("host_duration", m.HostDuration),
		slog.Duration("proof_duration", m.ProofDuration),
		slog.Duration("verify_duration", m.VerifyDuration),
	}

	if m.Falsified {
		attrs = append(attrs, slog.Duration("falsify_duration", m.FalsifyDuration))
	}

	attrs = append(attrs,
		slog.Any("output_bytes", m.OutputBytes),
		slog.Any("proof_bytes", m.ProofBytes),
		slog.Bool("host_reference", m.HostReference),
		slog.Bool("falsified", m.Falsified),
	)

	if m.Cycles > 0 {
		attrs = append(attrs, slog.Uint64("cycles", m.Cycles))
	}

	return slog.GroupValue(attrs...)
}
