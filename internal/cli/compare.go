package cli

import (
	"github.com/spf13/cobra"

	"github.com/brothertop/svgdiff/pkg/report"
	"github.com/brothertop/svgdiff/pkg/svgio"
)

// compareCommand creates the compare command for single document pairs.
//
// Default settings:
//   - threshold: 1 (any channel difference counts)
//   - tolerance: 0.001 aspect ratio units
//   - scale: 4x render resolution
//   - resolution: viewbox, alignment: origin
func (c *CLI) compareCommand() *cobra.Command {
	var (
		cf       compareFlags
		rf       runnerFlags
		diffPath string
		jsonPath string
		save     bool
	)

	cmd := &cobra.Command{
		Use:   "compare <svg1> <svg2>",
		Short: "Compare two SVG documents pixel by pixel",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(&cf)
			if err != nil {
				return exitError(err)
			}
			runner, err := c.newRunner(cmd.Context(), &rf)
			if err != nil {
				return exitError(err)
			}

			prog := newProgress(loggerFromContext(cmd.Context()))
			spin := newSpinnerWithContext(cmd.Context(), "Comparing documents")
			spin.Start()
			result, err := runner.ComparePaths(cmd.Context(), args[0], args[1], opts)
			spin.Stop()
			if err != nil {
				if result != nil && result.AspectRatioMismatch {
					printResult(result)
				}
				return exitError(err)
			}
			prog.done("Comparison finished")

			printResult(result)

			if diffPath != "" && result.DiffImage != nil {
				if err := svgio.SaveDiffImage(result.DiffImage, diffPath); err != nil {
					return exitError(err)
				}
				printFile(diffPath)
			}
			if jsonPath != "" {
				if err := svgio.ExportReport(result, jsonPath); err != nil {
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
				rec := report.NewCompareRecord(result)
				if err := store.Set(cmd.Context(), rec); err != nil {
					return exitError(err)
				}
				printDetail("Report: %s", rec.ID)
			}
			return nil
		},
	}

	cf.register(cmd)
	rf.register(cmd)
	cmd.Flags().StringVarP(&diffPath, "diff-image", "d", "", "write the diff image to this PNG file")
	cmd.Flags().StringVarP(&jsonPath, "json", "j", "", "write the result to this JSON file")
	cmd.Flags().BoolVar(&save, "save", false, "persist the result to the report store")

	return cmd
}
