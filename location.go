package gmtrace

import (
	"path/filepath"
	"runtime"

	"gmtrace/internal/assertions"
)

// captureLocation records the (file, line, function) of the frame skip
// levels above its own caller. Public API entry points (Assert, TrackInt,
// and so on) pass skip=1, which yields the host's call into that entry
// point rather than the entry point or this helper. This is the Go-native
// substitute for the source's call-site capture macros: no macro layer is
// needed because runtime.Caller already gives every public entry point its
// own call site for free.
func captureLocation(skip int) assertions.Location {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return assertions.Location{}
	}
	fn := runtime.FuncForPC(pc)
	name := ""
	if fn != nil {
		name = fn.Name()
	}
	return assertions.Location{File: filepath.Base(file), Line: line, Function: name}
}
