package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brothertop/svgdiff/pkg/report"
	"github.com/brothertop/svgdiff/pkg/svgio"
)

// reportsCommand creates the stored-report management command.
func (c *CLI) reportsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Manage stored comparison reports",
	}

	cmd.AddCommand(c.reportsListCommand())
	cmd.AddCommand(c.reportsShowCommand())
	cmd.AddCommand(c.reportsDeleteCommand())

	return cmd
}

func (c *CLI) withReportStore(cmd *cobra.Command, fn func(store report.Store) error) error {
	store, err := c.newReportStore(cmd)
	if err != nil {
		return exitError(err)
	}
	defer store.Close(context.Background())
	return fn(store)
}

// reportsListCommand creates the "reports list" subcommand.
func (c *CLI) reportsListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored reports, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withReportStore(cmd, func(store report.Store) error {
				records, err := store.List(cmd.Context(), limit)
				if err != nil {
					return exitError(err)
				}
				if len(records) == 0 {
					printInfo("No stored reports")
					return nil
				}
				for _, rec := range records {
					printRecordLine(rec)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of reports to list")
	return cmd
}

// reportsShowCommand creates the "reports show" subcommand.
func (c *CLI) reportsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print one stored report as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withReportStore(cmd, func(store report.Store) error {
				rec, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return exitError(err)
				}
				if rec == nil {
					return fmt.Errorf("report not found: %s", args[0])
				}
				return svgio.WriteReport(rec, cmd.OutOrStdout())
			})
		},
	}
}

// reportsDeleteCommand creates the "reports delete" subcommand.
func (c *CLI) reportsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withReportStore(cmd, func(store report.Store) error {
				if err := store.Delete(cmd.Context(), args[0]); err != nil {
					return exitError(err)
				}
				printSuccess("Deleted %s", args[0])
				return nil
			})
		},
	}
}
