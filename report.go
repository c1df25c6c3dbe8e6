package gmtrace

import (
	"fmt"
	"strings"

	"gmtrace/internal/assertions"
)

// MaxReportedFailures bounds how many failures the printed report names
// individually; the full (bounded) list remains available via
// GetFailedAssertions regardless of this cap.
const MaxReportedFailures = 20

// FailureReport is the structured end-of-run summary named in the error
// handling design: mode, test file, frame count, assertion count, and the
// first N failed assertions with location and message.
type FailureReport struct {
	Mode           Mode
	TestPath       string
	FrameCount     int
	AssertionCount int
	Failures       []assertions.Failure
}

// String renders the report the way the default OnFail prints it.
func (r FailureReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "gmtrace: test failed (mode=%s file=%q frames=%d assertions=%d)\n", r.Mode, r.TestPath, r.FrameCount, r.AssertionCount)
	limit := len(r.Failures)
	if limit > MaxReportedFailures {
		limit = MaxReportedFailures
	}
	for i := 0; i < limit; i++ {
		f := r.Failures[i]
		fmt.Fprintf(&b, "  [%d] %s:%d %s(): %s\n", i, f.Location.File, f.Location.Line, f.Location.Function, f.Message)
	}
	if len(r.Failures) > limit {
		fmt.Fprintf(&b, "  ... and %d more\n", len(r.Failures)-limit)
	}
	return b.String()
}
