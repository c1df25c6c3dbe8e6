package gmtreplay

import (
	"fmt"

	"github.com/spf13/cobra"

	"gmtrace/internal/platform"
	"gmtrace/internal/wire"
)

func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <test-file>",
		Short: "Decode a test file and report whether it is well-formed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			decoded, err := wire.LoadFile(platform.OSFileSystem{}, path)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "invalid: %v\n", err)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "valid: version=%d frames=%d signals=%d pins=%d tracks=%d\n",
				decoded.Header.Version, len(decoded.Frames), len(decoded.Signals), len(decoded.Pins), len(decoded.Tracks))
			return nil
		},
	}
	return cmd
}
