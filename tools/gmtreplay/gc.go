package gmtreplay

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"gmtrace/internal/archive"
	"gmtrace/internal/config"
	"gmtrace/internal/history"
)

func newGCCommand() *cobra.Command {
	var dir string
	var dbPath string

	cmd := &cobra.Command{
		Use:   "gc",
		Short: "Sweep archived test files and history rows per the configured retention policy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("gc: %w", err)
			}

			cleaner := archive.NewCleaner(dir, archive.PolicyFromConfig(cfg.Archive), nil)
			cleaner.RunOnce()

			stats := cleaner.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "swept %s: %d runs kept, %d bytes\n", dir, stats.Runs, stats.Bytes)

			if dbPath == "" || cfg.Archive.MaxAge <= 0 {
				return nil
			}
			store, err := history.Open(dbPath)
			if err != nil {
				return fmt.Errorf("gc: %w", err)
			}
			defer store.Close()

			cutoff := time.Now().Add(-cfg.Archive.MaxAge)
			removed, err := store.PruneOlderThan(context.Background(), cutoff)
			if err != nil {
				return fmt.Errorf("gc: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pruned %d history rows older than %s\n", removed, cfg.Archive.MaxAge)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "directory of archived test files to sweep")
	cmd.Flags().StringVar(&dbPath, "db", "", "optional run-history database to prune alongside the file sweep")
	return cmd
}
