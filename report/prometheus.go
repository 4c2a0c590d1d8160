package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Registry builds a registry holding the gauges of run: phase durations in
// seconds, artifact sizes in bytes and guest cycles, labelled by job and
// size.
func Registry(run Run) (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()

	constLabels := prometheus.Labels{}
	if run.ID != "" {
		constLabels["run_id"] = run.ID
	}

	durations := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name:        "zkbench_phase_duration_seconds",
		Help:        "Wall time of one protocol phase of a job.",
		ConstLabels: constLabels,
	}, []string{"job", "size", "phase"})

	artifacts := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name:        "zkbench_artifact_bytes",
		Help:        "Serialized size of a job artifact.",
		ConstLabels: constLabels,
	}, []string{"job", "size", "artifact"})

	cycles := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name:        "zkbench_guest_cycles",
		Help:        "Guest cycles reported by the prover.",
		ConstLabels: constLabels,
	}, []string{"job", "size"})

	for _, c := range []prometheus.Collector{durations, artifacts, cycles} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}

	for _, m := range run.Results {
		size := strconv.FormatUint(uint64(m.JobSize), 10)

		durations.WithLabelValues(m.JobName, size, "host_compute").Set(m.HostDuration.Seconds())
		durations.WithLabelValues(m.JobName, size, "guest_compute").Set(m.ProofDuration.Seconds())
		durations.WithLabelValues(m.JobName, size, "verify").Set(m.VerifyDuration.Seconds())

		if m.Falsified {
			durations.WithLabelValues(m.JobName, size, "falsify").Set(m.FalsifyDuration.Seconds())
		}

		artifacts.WithLabelValues(m.JobName, size, "output").Set(float64(m.OutputBytes))
		artifacts.WithLabelValues(m.JobName, size, "proof").Set(float64(m.ProofBytes))

		if m.Cycles > 0 {
			cycles.WithLabelValues(m.JobName, size).Set(float64(m.Cycles))
		}
	}

	return reg, nil
}

// GeneratePrometheus writes run in the Prometheus text exposition format.
func GeneratePrometheus(w io.Writer, run Run) error {
	reg, err := Registry(run)
	if err != nil {
		return err
	}

	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	enc := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode metric %s: %w", mf.GetName(), err)
		}
	}

	return nil
}

// WritePrometheusFile atomically writes run to path for the node exporter
// textfile collector.
func WritePrometheusFile(path string, run Run) error {
	reg, err := Registry(run)
	if err != nil {
		return err
	}

	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}
