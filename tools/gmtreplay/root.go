// Package gmtreplay implements the gmtreplay command-line tool: inspecting,
// validating, and watching gmtrace test files and their run history outside
// of the host process that recorded them.
package gmtreplay

import "github.com/spf13/cobra"

// NewRootCommand builds the gmtreplay root command with all subcommands
// attached.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "gmtreplay",
		Short:         "Inspect and manage gmtrace test files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newDumpCommand())
	cmd.AddCommand(newValidateCommand())
	cmd.AddCommand(newHistoryCommand())
	cmd.AddCommand(newWatchCommand())
	cmd.AddCommand(newGCCommand())

	return cmd
}
