// Package report formats benchmark results as tables, JSON, CSV and
// Prometheus text.
package report

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/weiihann/zkbench/harness"
)

// Run is one benchmark invocation: its ID, the machine it ran on and the
// metrics of every completed job.
type Run struct {
	ID      string            `json:"run_id"`
	Host    Host              `json:"host"`
	Results []harness.Metrics `json:"results"`
}

// ErrNoResults is returned when there is nothing to report.
var ErrNoResults = errors.New("no results to report")

// Generate writes a human readable table for run.
func Generate(w io.Writer, run Run) error {
	if len(run.Results) == 0 {
		return ErrNoResults
	}

	fmt.Fprintln(w, "## Benchmark Results")
	fmt.Fprintln(w)

	if run.ID != "" {
		fmt.Fprintf(w, "Run: %s\n", run.ID)
	}

	if h := run.Host.String(); h != "" {
		fmt.Fprintf(w, "Host: %s\n", h)
	}

	fmt.Fprintln(w)

	table := tablewriter.NewWriter(w)
	table.Header("Job", "Size", "Host", "Proof", "Verify", "Falsify",
		"Output", "Proof Size", "Cycles", "Host Ref", "Falsified")

	for _, m := range run.Results {
		falsify := "-"
		if m.Falsified {
			falsify = formatDuration(m.FalsifyDuration)
		}

		cycles := "-"
		if m.Cycles > 0 {
			cycles = strconv.FormatUint(m.Cycles, 10)
		}

		if err := table.Append(
			m.JobName,
			strconv.FormatUint(uint64(m.JobSize), 10),
			formatDuration(m.HostDuration),
			formatDuration(m.ProofDuration),
			formatDuration(m.VerifyDuration),
			falsify,
			formatBytes(uint64(m.OutputBytes)),
			formatBytes(uint64(m.ProofBytes)),
			cycles,
			yesNo(m.HostReference),
			yesNo(m.Falsified),
		); err != nil {
			return fmt.Errorf("append row: %w", err)
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("render table: %w", err)
	}

	return nil
}

// GenerateJSON writes run as JSON to w.
func GenerateJSON(w io.Writer, run Run) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(run)
}

// csvHeader lists the results sheet columns, then the host and
// falsification columns.
var csvHeader = []string{
	"Instance type + job name + job size", "Proof duration",
	"Verify duration", "Output bytes", "Proof bytes",
	"Host duration", "Falsify duration", "Cycles",
	"Host reference", "Falsified",
}

// GenerateCSV writes one row per job. Durations are in seconds.
func GenerateCSV(w io.Writer, run Run) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	instance := run.Host.Instance()

	for _, m := range run.Results {
		first := strings.TrimSpace(fmt.Sprintf("%s %s %d", instance, m.JobName, m.JobSize))

		row := []string{
			first,
			seconds(m.ProofDuration),
			seconds(m.VerifyDuration),
			strconv.FormatUint(uint64(m.OutputBytes), 10),
			strconv.FormatUint(uint64(m.ProofBytes), 10),
			seconds(m.HostDuration),
			seconds(m.FalsifyDuration),
			strconv.FormatUint(m.Cycles, 10),
			strconv.FormatBool(m.HostReference),
			strconv.FormatBool(m.Falsified),
		}

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()

	return cw.Error()
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}

	return "no"
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
}

func formatBytes(b uint64) string {
	if b == 0 {
		return "-"
	}

	units := []string{"B", "KB", "MB", "GB", "TB"}
	size := float64(b)
	unit := 0

	for size >= 1024 && unit < len(units)-1 {
		size /= 1024
		unit++
	}

	formatted := fmt.Sprintf("%.1f", size)
	formatted = strings.TrimRight(formatted, "0")
	formatted = strings.TrimRight(formatted, ".")

	return formatted + " " + units[unit]
}
