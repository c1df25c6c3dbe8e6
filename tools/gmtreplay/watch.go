package gmtreplay

import (
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"gmtrace/internal/telemetry"
)

func newWatchCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream live telemetry events from a running gmtrace host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, _, err := websocket.DefaultDialer.Dial(addr, nil)
			if err != nil {
				return fmt.Errorf("watch: dial %s: %w", addr, err)
			}
			defer conn.Close()

			for {
				_, data, err := conn.ReadMessage()
				if err != nil {
					return fmt.Errorf("watch: %w", err)
				}
				var ev telemetry.Event
				if err := json.Unmarshal(data, &ev); err != nil {
					continue
				}
				printEvent(cmd, ev)
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "ws://127.0.0.1:8787/telemetry", "telemetry websocket URL")
	return cmd
}

func printEvent(cmd *cobra.Command, ev telemetry.Event) {
	switch ev.Kind {
	case "frame":
		fmt.Fprintf(cmd.OutOrStdout(), "[%s] frame %d\n", ev.Mode, ev.Frame)
	case "signal":
		fmt.Fprintf(cmd.OutOrStdout(), "[%s] signal %d\n", ev.Mode, ev.SignalID)
	case "assert":
		fmt.Fprintf(cmd.OutOrStdout(), "[%s] assertion failed (#%d): %s\n", ev.Mode, ev.FireCount, ev.Message)
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", ev.Mode, ev.Kind)
	}
}
