package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/weiihann/zkbench/store"
)

func newHistoryCmd(load configLoader) *cobra.Command {
	var (
		job   string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded job runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}

			st, err := store.OpenStore(cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			records, err := st.Recent(job, limit)
			if err != nil {
				return err
			}

			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")
				return nil
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("When", "Run", "Host", "Job", "Size", "Proof", "Verify", "Proof Size", "Falsified")

			for _, r := range records {
				if err := table.Append(
					r.CreatedAt.Local().Format(time.DateTime),
					shortID(r.RunID),
					r.Host,
					r.JobName,
					strconv.FormatUint(uint64(r.JobSize), 10),
					r.ProofDuration.Round(time.Millisecond).String(),
					r.VerifyDuration.Round(time.Microsecond).String(),
					strconv.FormatUint(uint64(r.ProofBytes), 10),
					strconv.FormatBool(r.Falsified),
				); err != nil {
					return fmt.Errorf("append row: %w", err)
				}
			}

			return table.Render()
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&job, "job", "",
		"Only show runs of this workload")
	flags.IntVar(&limit, "limit", 20,
		"Maximum number of rows")
	flags.String("db-path", "zkbench.db",
		"SQLite run history database")

	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}

	return id
}
