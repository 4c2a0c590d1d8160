// Package main provides the CLI entry point for zkbench, a cross-validating
// benchmark harness for zkVM proving systems.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/weiihann/zkbench/config"
	"github.com/weiihann/zkbench/workloads"
	"github.com/weiihann/zkbench/zkvm"
)

var (
	goodColor = color.New(color.FgGreen, color.Bold)
	badColor  = color.New(color.FgRed, color.Bold)
)

func main() {
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(logger, level)
	if err := root.ExecuteContext(ctx); err != nil {
		badColor.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger, level *slog.LevelVar) *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   "zkbench",
		Short: "Cross-validating benchmark harness for zkVM provers",
		Long: `zkbench runs parameterized workloads through a zkVM, checks every guest
result against a native host computation, verifies each proof, confirms that a
tampered proof is rejected, and reports the cost of every phase.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "",
		"Config file (YAML, TOML or JSON)")
	flags.String("log-level", "info",
		"Log level: debug, info, warn, error")

	load := func(cmd *cobra.Command) (*config.Config, error) {
		cfg, err := config.Load(cfgFile, cmd.Flags())
		if err != nil {
			return nil, err
		}

		if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}

		return cfg, nil
	}

	root.AddCommand(
		newRunCmd(logger, load),
		newListCmd(),
		newHistoryCmd(load),
		newBuildProverCmd(logger),
	)

	return root
}

type configLoader func(cmd *cobra.Command) (*config.Config, error)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List known workloads and their default specs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("Workload", "Default Specs")

			for _, name := range workloads.Known() {
				set, err := workloads.DefaultSpecs(name)
				if err != nil {
					return err
				}

				if err := table.Append(name, workloads.Describe(name, set)); err != nil {
					return fmt.Errorf("append row: %w", err)
				}
			}

			return table.Render()
		},
	}
}

func newBuildProverCmd(logger *slog.Logger) *cobra.Command {
	var srcDir, binDir string

	cmd := &cobra.Command{
		Use:   "build-prover",
		Short: "Compile the bundled prover for the exec engine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bin, err := zkvm.BuildProver(cmd.Context(), logger, srcDir, zkvm.ResolveProver(binDir))
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), bin)

			return nil
		},
	}

	cmd.Flags().StringVar(&srcDir, "src", ".", "zkbench module root")
	cmd.Flags().StringVar(&binDir, "bin-dir", "bin", "Output directory")

	return cmd
}
