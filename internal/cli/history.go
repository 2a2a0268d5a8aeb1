package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewHistoryCmd lists, shows or clears stored results.
func NewHistoryCmd(configPath *string) *cobra.Command {
	var (
		clearAll bool
		resultID string
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past results, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			service, cleanup, err := buildService(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			switch {
			case clearAll:
				if err := service.ClearHistory(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(out, "history cleared")
				return nil
			case resultID != "":
				report, err := service.Report(cmd.Context(), resultID)
				if err != nil {
					return err
				}
				printReport(out, report)
				return nil
			}

			results, err := service.History(cmd.Context())
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Fprintln(out, "no results yet")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDATE\tTIER\tTYPE")
			for _, r := range results {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Tier, r.Type)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&clearAll, "clear", false, "delete every stored result")
	cmd.Flags().StringVar(&resultID, "id", "", "show the full report for one result")
	return cmd
}
