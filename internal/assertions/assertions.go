// Package assertions implements the bounded failure accumulator, the
// trigger-count fail policy, and reentrancy-safe callback dispatch that
// back the core's Assert/Fail surface.
package assertions

import (
	"sync"

	"gmtrace/internal/logging"
)

// MaxFailedAssertions bounds the retained failure list. Failures beyond
// this count still increment FireCount.
const MaxFailedAssertions = 1024

// Location captures where an Assert/Track call originated.
type Location struct {
	File     string
	Line     int
	Function string
}

// Failure is one recorded assertion failure.
type Failure struct {
	Message  string
	Location Location
}

// TriggerFunc is invoked once per failure, outside the accumulator's lock,
// snapshotting whatever the caller needs from FireCount/trigger policy.
type TriggerFunc func(f Failure, fireCount int)

// Accumulator is the bounded, thread-safe failure list described in spec
// §3's FailureLog and §4.8's Assert contract.
type Accumulator struct {
	mu          sync.Mutex
	log         *logging.Logger
	failures    []Failure
	fireCount   int
	testFailed  bool
	checksTotal int

	triggerCount int
	onTrigger    TriggerFunc
	onFail       func()
}

// NewAccumulator constructs an Accumulator. triggerCount is the number of
// failed assertions at which the run is forcibly failed (treated as 1 if
// <= 0, per spec's `max(1, trigger_count)`); onFail is invoked exactly once
// per trigger crossing, outside the lock.
func NewAccumulator(log *logging.Logger, triggerCount int, onTrigger TriggerFunc, onFail func()) *Accumulator {
	if log == nil {
		log = logging.L()
	}
	if triggerCount < 1 {
		triggerCount = 1
	}
	return &Accumulator{
		log:          log,
		triggerCount: triggerCount,
		onTrigger:    onTrigger,
		onFail:       onFail,
	}
}

// Assert records cond's outcome. On failure it appends to the bounded list
// (if capacity remains), increments the fire count, logs at ERROR, invokes
// the trigger callback, and calls Fail once fire_count reaches the trigger
// threshold — all per spec §4.8. On success it only updates the statistics
// counter.
func (a *Accumulator) Assert(cond bool, message string, loc Location) {
	if cond {
		a.mu.Lock()
		a.checksTotal++
		a.mu.Unlock()
		return
	}

	a.mu.Lock()
	a.checksTotal++
	a.fireCount++
	fireCount := a.fireCount
	failure := Failure{Message: message, Location: loc}
	if len(a.failures) < MaxFailedAssertions {
		a.failures = append(a.failures, failure)
	}
	shouldFail := fireCount >= a.triggerCount
	onTrigger := a.onTrigger
	a.mu.Unlock()

	a.log.Error("assertion failed",
		logging.String("message", message),
		logging.String("file", loc.File),
		logging.Int("line", loc.Line),
		logging.String("function", loc.Function))

	//1.- Invoke the user's trigger callback outside the lock, so it can
	// safely reenter the engine (query failures, call Assert again, etc.)
	// without deadlocking against this call.
	if onTrigger != nil {
		onTrigger(failure, fireCount)
	}

	if shouldFail {
		a.Fail()
	}
}

// Fail marks the run failed and invokes the fail callback. It is idempotent:
// the flag only ever transitions false->true once, and repeated calls
// before the process actually terminates must not deadlock or re-run the
// callback.
func (a *Accumulator) Fail() {
	a.mu.Lock()
	alreadyFailed := a.testFailed
	a.testFailed = true
	onFail := a.onFail
	a.mu.Unlock()

	if alreadyFailed {
		return
	}
	if onFail != nil {
		onFail()
	}
}

// TestFailed reports whether Fail has been called.
func (a *Accumulator) TestFailed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.testFailed
}

// FireCount returns the total number of failed Assert calls so far,
// including any beyond the retained list's capacity.
func (a *Accumulator) FireCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.fireCount
}

// GetFailedAssertions copies up to max retained failures into a fresh
// slice, under lock.
func (a *Accumulator) GetFailedAssertions(max int) []Failure {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := len(a.failures)
	if max > 0 && max < n {
		n = max
	}
	out := make([]Failure, n)
	copy(out, a.failures[:n])
	return out
}

// ClearFailedAssertions zeroes the failure list and fire count under lock.
// It does not reset testFailed — Fail, once true, only clears via a fresh
// Init/Reset of the owning engine.
func (a *Accumulator) ClearFailedAssertions() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failures = nil
	a.fireCount = 0
}

// Reset returns the accumulator to its just-after-Init state, including the
// testFailed flag, matching the Lifecycle's Reset contract.
func (a *Accumulator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failures = nil
	a.fireCount = 0
	a.testFailed = false
	a.checksTotal = 0
}
