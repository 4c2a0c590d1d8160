package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/weiihann/zkbench/config"
	"github.com/weiihann/zkbench/harness"
	"github.com/weiihann/zkbench/report"
	"github.com/weiihann/zkbench/store"
	"github.com/weiihann/zkbench/workloads"
	"github.com/weiihann/zkbench/zkvm"
)

func newRunCmd(logger *slog.Logger, load configLoader) *cobra.Command {
	var noHistory bool

	cmd := &cobra.Command{
		Use:   "run [workload...]",
		Short: "Run benchmark batches",
		Long: `Run one batch per workload, in order. With no arguments every known
workload runs with its default specs; --plan selects workloads and specs from a
YAML file. The first violation aborts the run; results of completed jobs are
still reported.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}

			return runBenchmark(cmd.Context(), logger, cmd.OutOrStdout(), runConfig{
				cfg:       cfg,
				workloads: args,
				noHistory: noHistory,
			})
		},
	}

	flags := cmd.Flags()
	flags.String("engine", config.EngineLocal,
		"Proving engine: local or exec")
	flags.String("prover-binary", "",
		"Prover binary for the exec engine")
	flags.StringSlice("prover-args", nil,
		"Extra arguments passed to the prover binary before the command")
	flags.String("image-dir", "",
		"Directory holding <workload>.img guest images")
	flags.Int("security-bits", zkvm.DefaultProofOptions().SecurityBits,
		"Proof security level: 96 or 128")
	flags.Int64("seed", 1337,
		"Seed for generated big_sha2 buffers")
	flags.String("db-path", "zkbench.db",
		"SQLite run history database")
	flags.String("output", config.OutputTable,
		"Output format: table, json, csv or prometheus")
	flags.String("prom-file", "",
		"Also write Prometheus textfile metrics to this path")
	flags.String("plan", "",
		"YAML plan selecting workloads and specs")
	flags.BoolVar(&noHistory, "no-history", false,
		"Do not record results in the history database")

	return cmd
}

type runConfig struct {
	cfg       *config.Config
	workloads []string
	noHistory bool
}

type plannedBatch struct {
	name string
	set  *workloads.SpecSet
}

func runBenchmark(
	ctx context.Context,
	logger *slog.Logger,
	out io.Writer,
	rc runConfig,
) error {
	cfg := rc.cfg

	batches, err := planBatches(cfg, rc.workloads)
	if err != nil {
		return err
	}

	engine, err := newEngine(cfg, logger)
	if err != nil {
		return err
	}

	opts := workloads.Options{
		Engine:   engine,
		ImageDir: cfg.ImageDir,
		Proof:    cfg.ProofOptions(),
		Seed:     cfg.Seed,
	}

	runID := uuid.NewString()

	host, err := report.CollectHost(ctx)
	if err != nil {
		logger.WarnContext(ctx, "incomplete host facts",
			slog.String("error", err.Error()),
		)
	}

	logger.InfoContext(ctx, "starting benchmark",
		slog.String("run_id", runID),
		slog.String("engine", cfg.Engine),
		slog.Int("security_bits", cfg.SecurityBits),
		slog.Int("batches", len(batches)),
		slog.String("host", host.String()),
	)

	var (
		results []harness.Metrics
		runErr  error
	)

	for _, pb := range batches {
		batch, err := workloads.NewBatch(pb.name, opts, pb.set)
		if err != nil {
			runErr = fmt.Errorf("prepare %s: %w", pb.name, err)
			break
		}

		metrics, err := batch.Run(ctx, logger, runID)
		results = append(results, metrics...)

		if err != nil {
			runErr = err
			break
		}
	}

	run := report.Run{ID: runID, Host: host, Results: results}

	if err := persist(ctx, logger, cfg, rc.noHistory, run); err != nil {
		return errors.Join(runErr, err)
	}

	if len(results) > 0 {
		if err := writeReport(out, cfg.Output, run); err != nil {
			return errors.Join(runErr, err)
		}
	}

	if runErr != nil {
		return runErr
	}

	goodColor.Fprintf(os.Stderr, "PASS: %d job(s) cross-validated\n", len(results))
	logger.InfoContext(ctx, "benchmark complete", slog.String("run_id", runID))

	return nil
}

func planBatches(cfg *config.Config, names []string) ([]plannedBatch, error) {
	if cfg.Plan != "" {
		if len(names) > 0 {
			return nil, errors.New("workload arguments and --plan are mutually exclusive")
		}

		plan, err := config.LoadPlan(cfg.Plan)
		if err != nil {
			return nil, err
		}

		out := make([]plannedBatch, 0, len(plan.Batches))
		for _, e := range plan.Batches {
			out = append(out, plannedBatch{name: e.Workload, set: e.SpecSet()})
		}

		return out, nil
	}

	if len(names) == 0 {
		names = workloads.Known()
	}

	out := make([]plannedBatch, 0, len(names))
	for _, name := range names {
		if !slices.Contains(workloads.Known(), name) {
			return nil, fmt.Errorf("unknown workload %q (see zkbench list)", name)
		}

		out = append(out, plannedBatch{name: name})
	}

	return out, nil
}

func newEngine(cfg *config.Config, logger *slog.Logger) (zkvm.Engine, error) {
	switch cfg.Engine {
	case config.EngineLocal:
		return zkvm.NewLocal(logger), nil
	case config.EngineExec:
		return zkvm.NewExec(cfg.ProverBinary, cfg.ProverArgs, nil, logger), nil
	default:
		return nil, fmt.Errorf("unknown engine %q", cfg.Engine)
	}
}

func persist(
	ctx context.Context,
	logger *slog.Logger,
	cfg *config.Config,
	noHistory bool,
	run report.Run,
) error {
	if !noHistory && cfg.DBPath != "" && len(run.Results) > 0 {
		st, err := store.OpenStore(cfg.DBPath)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.InsertBatch(run.Host.Instance(), run.Results); err != nil {
			return fmt.Errorf("record history: %w", err)
		}

		logger.DebugContext(ctx, "recorded history",
			slog.String("db_path", cfg.DBPath),
			slog.Int("jobs", len(run.Results)),
		)
	}

	if cfg.PromFile != "" {
		if err := report.WritePrometheusFile(cfg.PromFile, run); err != nil {
			return err
		}
	}

	return nil
}

func writeReport(w io.Writer, format string, run report.Run) error {
	switch format {
	case config.OutputJSON:
		if err := report.GenerateJSON(w, run); err != nil {
			return fmt.Errorf("generate JSON report: %w", err)
		}
	case config.OutputCSV:
		if err := report.GenerateCSV(w, run); err != nil {
			return fmt.Errorf("generate CSV report: %w", err)
		}
	case config.OutputProm:
		if err := report.GeneratePrometheus(w, run); err != nil {
			return fmt.Errorf("generate Prometheus report: %w", err)
		}
	default:
		if err := report.Generate(w, run); err != nil {
			return fmt.Errorf("generate report: %w", err)
		}
	}

	return nil
}
