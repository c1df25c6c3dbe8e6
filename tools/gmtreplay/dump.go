package gmtreplay

import (
	"fmt"

	"github.com/spf13/cobra"

	"gmtrace/internal/archive"
	"gmtrace/internal/platform"
	"gmtrace/internal/wire"
)

func newDumpCommand() *cobra.Command {
	var out string
	var compress bool

	cmd := &cobra.Command{
		Use:   "dump <test-file>",
		Short: "Decode a test file and write a human-readable or compressed copy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			decoded, err := wire.LoadFile(platform.OSFileSystem{}, path)
			if err != nil {
				return fmt.Errorf("dump: %w", err)
			}

			if compress {
				dst := out
				if dst == "" {
					dst = path + ".zst"
				}
				if err := archive.CompressTestFile(path, dst); err != nil {
					return fmt.Errorf("dump: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", dst)
				return nil
			}

			dst := out
			if dst == "" {
				dst = path + ".jsonl"
			}
			if err := archive.DumpHumanReadable(decoded, dst); err != nil {
				return fmt.Errorf("dump: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d frames, %d signals, %d pins, %d tracks)\n",
				dst, len(decoded.Frames), len(decoded.Signals), len(decoded.Pins), len(decoded.Tracks))
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "output path (default: <test-file>.jsonl or .zst)")
	cmd.Flags().BoolVar(&compress, "compress", false, "write a zstd-compressed copy instead of JSONL")
	return cmd
}
