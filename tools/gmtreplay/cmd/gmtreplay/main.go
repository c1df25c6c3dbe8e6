// Command gmtreplay inspects, validates, and watches gmtrace test files and
// their run history from outside the host process that recorded them.
package main

import (
	"fmt"
	"os"

	"gmtrace/tools/gmtreplay"
)

func main() {
	if err := gmtreplay.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
