//go:build !gmtdisable

package gmtrace

import (
	"fmt"
	"os"
)

// defaultOnFail is used when Hooks.OnFail is nil: print the report to
// stderr and terminate the process with a nonzero status, matching a
// frame-driven host's expectation that a failed deterministic test stops
// the run rather than continuing into undefined state.
func defaultOnFail(report FailureReport) {
	fmt.Fprint(os.Stderr, report.String())
	os.Exit(1)
}
