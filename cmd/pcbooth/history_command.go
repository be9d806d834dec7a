package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"pcbooth/internal/ledger"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recent pipeline runs from the ledger",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			history, err := ledger.Open(cfg.Ledger.Path)
			if err != nil {
				return fmt.Errorf("open run history: %w", err)
			}
			defer history.Close()

			if len(args) == 1 {
				return showRunJobs(cmd, history, args[0], jsonOutput)
			}
			return showRecentRuns(cmd, history, limit, jsonOutput)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of runs to show")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit machine-readable JSON")
	return cmd
}

func showRecentRuns(cmd *cobra.Command, history *ledger.Ledger, limit int, jsonOutput bool) error {
	runs, err := history.RecentRuns(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	if jsonOutput {
		return writeJSON(cmd, runs)
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.ID,
			run.Project,
			run.Preset,
			run.Status,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			runDuration(run.StartedAt, run.FinishedAt),
			run.Error,
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Run", "Project", "Preset", "Status", "Started", "Elapsed", "Error"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	))
	return nil
}

func showRunJobs(cmd *cobra.Command, history *ledger.Ledger, runID string, jsonOutput bool) error {
	jobs, err := history.RunJobs(cmd.Context(), runID)
	if err != nil {
		return fmt.Errorf("list run jobs: %w", err)
	}

	if jsonOutput {
		return writeJSON(cmd, jobs)
	}

	rows := make([][]string, 0, len(jobs))
	for _, record := range jobs {
		rows = append(rows, []string{
			strconv.Itoa(record.Seq),
			record.Name,
			record.Status,
			fmt.Sprintf("%d/%d", record.Renders, record.Total),
			runDuration(record.StartedAt, record.FinishedAt),
			record.Error,
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Seq", "Job", "Status", "Renders", "Elapsed", "Error"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	))
	return nil
}

func runDuration(startedAt time.Time, finishedAt *time.Time) string {
	if finishedAt == nil {
		return "running"
	}
	return finishedAt.Sub(startedAt).Round(time.Millisecond).String()
}
