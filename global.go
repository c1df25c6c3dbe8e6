//go:build !gmtdisable

package gmtrace

import (
	"sync"

	"gmtrace/internal/assertions"
)

// global is the single process-wide Engine the package-level functions
// drive. A host embeds gmtrace by calling these functions directly (the Go
// analogue of the source's global macro surface); Engine itself stays
// available for hosts or tests that want an explicit, non-global instance.
var (
	globalMu sync.Mutex
	global   = NewEngine()
)

// globalEngine returns the process-wide engine. It exists so the typed
// Pin/Track package-level wrappers, which need to capture their own
// caller's location before delegating, don't have to duplicate the
// locking dance the other package-level functions use.
func globalEngine() *Engine {
	globalMu.Lock()
	defer globalMu.Unlock()
	return global
}

// Init initializes the process-wide engine. Calling Init twice without an
// intervening Quit returns an error and leaves the existing engine
// untouched.
func Init(setup Setup) error {
	globalMu.Lock()
	defer globalMu.Unlock()
	return global.Init(setup)
}

// Update advances the process-wide engine by one frame.
func Update() error {
	globalMu.Lock()
	e := global
	globalMu.Unlock()
	return e.Update()
}

// Reset reinitializes the process-wide engine's file and cursors without
// destroying it.
func Reset() error {
	globalMu.Lock()
	e := global
	globalMu.Unlock()
	return e.Reset()
}

// Fail forcibly fails the process-wide engine's run.
func Fail() {
	globalMu.Lock()
	e := global
	globalMu.Unlock()
	e.Fail()
}

// Quit finalizes and tears down the process-wide engine, allowing a
// subsequent Init.
func Quit() error {
	globalMu.Lock()
	defer globalMu.Unlock()
	return global.Quit()
}

// TestFailed reports whether the process-wide engine's run has failed.
func TestFailed() bool {
	globalMu.Lock()
	e := global
	globalMu.Unlock()
	return e.TestFailed()
}

// CurrentMode returns the process-wide engine's configured mode.
func CurrentMode() Mode {
	globalMu.Lock()
	e := global
	globalMu.Unlock()
	return e.Mode()
}

// SyncSignal realigns the process-wide engine's replay clock against a
// named host gate (REPLAY), or records one (RECORD).
func SyncSignal(id int32) {
	globalMu.Lock()
	e := global
	globalMu.Unlock()
	e.SyncSignal(id)
}

// Assert records a named invariant's outcome against the process-wide
// engine, capturing the caller's source location.
func Assert(cond bool, message string) {
	globalMu.Lock()
	e := global
	globalMu.Unlock()
	e.Assert(cond, message, captureLocation(1))
}

// GetFailedAssertions copies up to max retained failures from the
// process-wide engine (0 means all).
func GetFailedAssertions(max int) []assertions.Failure {
	globalMu.Lock()
	e := global
	globalMu.Unlock()
	return e.GetFailedAssertions(max)
}

// ClearFailedAssertions zeroes the process-wide engine's failure list.
func ClearFailedAssertions() {
	globalMu.Lock()
	e := global
	globalMu.Unlock()
	e.ClearFailedAssertions()
}
