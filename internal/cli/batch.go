package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/brothertop/svgdiff/pkg/report"
	"github.com/brothertop/svgdiff/pkg/svgio"
)

// batchCommand creates the batch command for manifest-driven runs.
//
// The manifest lists one pair per line, tab-separated:
//
//	baseline/logo.svg	candidate/logo.svg
//	baseline/chart.svg	candidate/chart.svg
//
// Failing pairs are recorded and the batch continues; the command exits
// non-zero when any pair failed or, with --max-diff, when any pair's
// difference percentage exceeds the limit.
func (c *CLI) batchCommand() *cobra.Command {
	var (
		cf          compareFlags
		rf          runnerFlags
		workers     int
		jsonPath    string
		save        bool
		maxDiff     float64
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "batch <manifest>",
		Short: "Compare many SVG pairs from a manifest file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs, err := svgio.ImportPairs(args[0])
			if err != nil {
				return exitError(err)
			}

			opts, err := c.options(&cf)
			if err != nil {
				return exitError(err)
			}
			opts.Workers = workers
			runner, err := c.newRunner(cmd.Context(), &rf)
			if err != nil {
				return exitError(err)
			}

			prog := newProgress(loggerFromContext(cmd.Context()))
			spin := newSpinnerWithContext(cmd.Context(), fmt.Sprintf("Comparing %d pairs", len(pairs)))
			spin.Start()
			batch, err := runner.RunBatch(cmd.Context(), pairs, opts)
			spin.Stop()
			if err != nil {
				return exitError(err)
			}
			prog.done(fmt.Sprintf("Compared %d pairs", batch.Total))

			printBatchSummary(batch)

			if jsonPath != "" {
				if err := svgio.ExportReport(batch, jsonPath); err != nil {
					return exitError(err)
				}
				printFile(jsonPath)
			}
			if save {
				store, err := c.newReportStore(cmd)
				if err != nil {
					return exitError(err)
				}
				defer store.Close(cmd.Context())
				rec := report.NewBatchRecord(batch)
				if err := store.Set(cmd.Context(), rec); err != nil {
					return exitError(err)
				}
				printDetail("Report: %s", rec.ID)
			}

			if interactive {
				model := NewBatchModel(batch)
				if _, err := tea.NewProgram(model, tea.WithContext(cmd.Context())).Run(); err != nil {
					return err
				}
			}

			if batch.Failed > 0 {
				return fmt.Errorf("%d of %d pairs failed", batch.Failed, batch.Total)
			}
			if maxDiff >= 0 {
				for _, item := range batch.Items {
					if item.Result != nil && item.Result.RoundedPercentage() > maxDiff {
						return fmt.Errorf("pair %s vs %s differs by %.2f%% (limit %.2f%%)",
							item.Pair.SVG1Path, item.Pair.SVG2Path,
							item.Result.RoundedPercentage(), maxDiff)
					}
				}
			}
			return nil
		},
	}

	cf.register(cmd)
	rf.register(cmd)
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent comparisons (default 1)")
	cmd.Flags().StringVarP(&jsonPath, "json", "j", "", "write the batch report to this JSON file")
	cmd.Flags().BoolVar(&save, "save", false, "persist the report to the report store")
	cmd.Flags().Float64Var(&maxDiff, "max-diff", -1, "fail when any pair differs by more than this percentage")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse results interactively after the run")

	return cmd
}
