package gmtreplay

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"gmtrace/internal/history"
)

func newHistoryCommand() *cobra.Command {
	var dbPath string
	var limit int

	cmd := &cobra.Command{
		Use:   "history <test-file>",
		Short: "List recent recorded runs for a test file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := history.Open(dbPath)
			if err != nil {
				return fmt.Errorf("history: %w", err)
			}
			defer store.Close()

			runs, err := store.RecentRuns(context.Background(), args[0], limit)
			if err != nil {
				return fmt.Errorf("history: %w", err)
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no runs recorded")
				return nil
			}
			for _, run := range runs {
				status := "pass"
				if run.Failed {
					status = "fail"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-6s  %-6s  frames=%d assertions=%d  %s\n",
					run.StartedAt.Format("2006-01-02T15:04:05Z"), run.Mode, status, run.FrameCount, run.AssertionCount, run.RunID)
				if run.Failed && run.FailureDetail != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "    %s\n", run.FailureDetail)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "gmtrace_history.db", "path to the run-history database")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to list")
	return cmd
}
