//go:build !gmtdisable

package gmtrace

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gmtrace/internal/assertions"
	"gmtrace/internal/clocksync"
	"gmtrace/internal/history"
	"gmtrace/internal/logging"
	"gmtrace/internal/pinstore"
	"gmtrace/internal/platform"
	"gmtrace/internal/telemetry"
	"gmtrace/internal/trackstore"
	"gmtrace/internal/wire"
)

// Engine is one record/replay harness instance. The package-level functions
// (Init, Update, ...) drive a single process-wide Engine, matching the
// "one engine instance" contract in the Lifecycle design; Engine itself is
// exported so tests — and hosts that genuinely want more than one instance,
// e.g. to run two independent test files in one process — are not forced
// through the global.
//
// All public entry points acquire mu; every user callback is invoked
// outside it, after the required bookkeeping, so a callback may safely
// call back into the Engine (Pin, Track, Assert, SyncSignal) without
// deadlocking. See DESIGN.md for why a plain sync.Mutex is sufficient here
// even though the source material calls for a recursive mutex.
type Engine struct {
	mu sync.Mutex

	setup Setup
	log   *logging.Logger

	writer  *wire.Writer
	decoded *wire.Decoded

	clock  clocksync.Clock
	replay *clocksync.Engine

	pins    *pinstore.Store
	tracks  *trackstore.Store
	asserts *assertions.Accumulator

	frameIndex      int
	recordStartTime float64
	startedAt       time.Time
	initialized     bool
}

// NewEngine constructs a fresh, uninitialized Engine.
func NewEngine() *Engine {
	return &Engine{log: logging.L()}
}

// Init initializes the engine: copies setup, asks the Platform to install
// hooks for the mode, and opens (RECORD) or fully decodes (REPLAY) the test
// file. Init fails without partially initializing if either step fails —
// a failed Init leaves the Engine exactly as it was before the call.
func (e *Engine) Init(setup Setup) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.initialized {
		return fmt.Errorf("gmtrace: Init called twice without an intervening Quit")
	}
	if setup.Mode != ModeDisabled && setup.Platform == nil {
		return fmt.Errorf("gmtrace: Setup.Platform is required outside ModeDisabled")
	}

	if setup.WorkingDir != "" {
		if err := setup.Platform.SetWorkingDir(setup.WorkingDir); err != nil {
			return fmt.Errorf("gmtrace: set working dir: %w", err)
		}
	}

	log := e.log
	if setup.Logging != nil {
		logger, err := logging.New(*setup.Logging)
		if err != nil {
			return fmt.Errorf("gmtrace: init logging: %w", err)
		}
		log = logger
	}

	// fireFailCallback closes over e, which already exists as the receiver,
	// so the accumulator can be wired to it directly instead of being built
	// twice (once with a stand-in, once for real).
	asserts := assertions.NewAccumulator(log, setup.FailAssertionTriggerCount,
		func(f assertions.Failure, fireCount int) {
			if setup.Telemetry != nil {
				setup.Telemetry.Broadcast(telemetry.Event{
					Kind: "assert", Mode: setup.Mode.String(),
					Message: f.Message, FireCount: fireCount,
				})
			}
			if setup.Hooks.OnAssertTrigger != nil {
				setup.Hooks.OnAssertTrigger(f.Message, fireCount)
			}
		},
		e.fireFailCallback,
	)

	pins := pinstore.NewStore(log)
	tracks := trackstore.NewStore(log)

	var writer *wire.Writer
	var decoded *wire.Decoded
	var replayEngine *clocksync.Engine
	var clock clocksync.Clock
	var recordStart float64

	switch setup.Mode {
	case ModeRecord:
		clock = clocksync.FromPlatform(setup.Platform)
		setup.Platform.SetReplayHooksActive(false)
		w, err := wire.NewWriter(setup.Platform, setup.TestPath)
		if err != nil {
			return fmt.Errorf("gmtrace: init record: %w", err)
		}
		writer = w
		recordStart = clock.Now()

	case ModeReplay:
		clock = clocksync.FromPlatform(setup.Platform)
		d, err := wire.LoadFile(setup.Platform, setup.TestPath)
		if err != nil {
			return fmt.Errorf("gmtrace: init replay: %w", err)
		}
		decoded = d
		pins.LoadDecoded(d.Pins)
		tracks.LoadDecoded(d.Tracks)
		recordStart = clock.Now()
		replayEngine = clocksync.NewEngine(clock, log, d.Frames, d.Signals, recordStart)
		setup.Platform.SetReplayHooksActive(true)

	case ModeDisabled:
		// No file I/O, no hooks; every call below becomes a no-op.

	default:
		return fmt.Errorf("gmtrace: unknown mode %d", setup.Mode)
	}

	e.setup = setup
	e.log = log
	e.writer = writer
	e.decoded = decoded
	e.clock = clock
	e.replay = replayEngine
	e.pins = pins
	e.tracks = tracks
	e.asserts = asserts
	e.frameIndex = 0
	e.recordStartTime = recordStart
	e.startedAt = time.Now().UTC()
	e.initialized = true

	return nil
}

// fireFailCallback is invoked by the assertions.Accumulator exactly once,
// outside its own lock. It builds the structured report and calls the
// user's OnFail, defaulting to printing the report and terminating the
// process.
func (e *Engine) fireFailCallback() {
	e.mu.Lock()
	report := FailureReport{
		Mode:           e.setup.Mode,
		TestPath:       e.setup.TestPath,
		FrameCount:     e.frameIndex,
		AssertionCount: e.asserts.FireCount(),
		Failures:       e.asserts.GetFailedAssertions(0),
	}
	onFail := e.setup.Hooks.OnFail
	e.mu.Unlock()

	if onFail != nil {
		onFail(report)
		return
	}
	defaultOnFail(report)
}

// Update advances the engine by one host frame. RECORD captures input and
// appends a FRAME record; REPLAY advances the inject engine and processes
// signal gating. Per-key Pin/Track counters reset at the frame boundary in
// both RECORD and REPLAY; in ModeDisabled, Update does nothing.
func (e *Engine) Update() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized || e.setup.Mode == ModeDisabled {
		return nil
	}

	switch e.setup.Mode {
	case ModeRecord:
		var snap platform.InputSnapshot
		e.setup.Platform.CaptureInput(&snap)
		if !e.setup.CaptureGamepads {
			snap.GamepadsEnabled = false
			snap.Gamepads = [platform.MaxGamepads]platform.GamepadState{}
		}
		ts := e.clock.Now() - e.recordStartTime
		if err := e.writer.AppendFrame(ts, &snap); err != nil {
			e.log.Error("record frame write failed", logging.Error(err))
		}

	case ModeReplay:
		e.replay.Step(func(next, prev *platform.InputSnapshot, first bool) {
			e.setup.Platform.InjectInput(next, prev)
			e.setup.Platform.SetReplayedInput(next)
		})
	}

	if e.setup.Telemetry != nil {
		e.setup.Telemetry.Broadcast(telemetry.Event{Kind: "frame", Mode: e.setup.Mode.String(), Frame: e.frameIndex})
	}
	e.frameIndex++
	e.pins.ResetFrame()
	e.tracks.ResetFrame()
	return nil
}

// Reset returns the engine to its just-after-Init state without destroying
// it: RECORD truncates the file and restarts; REPLAY reloads and rewinds
// cursors. Clocks restart; the failure log is cleared.
func (e *Engine) Reset() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return fmt.Errorf("gmtrace: Reset called before Init")
	}

	switch e.setup.Mode {
	case ModeRecord:
		if e.writer != nil {
			e.writer.Close()
		}
		w, err := wire.NewWriter(e.setup.Platform, e.setup.TestPath)
		if err != nil {
			return fmt.Errorf("gmtrace: reset record: %w", err)
		}
		e.writer = w
		e.recordStartTime = e.clock.Now()

	case ModeReplay:
		d, err := wire.LoadFile(e.setup.Platform, e.setup.TestPath)
		if err != nil {
			return fmt.Errorf("gmtrace: reset replay: %w", err)
		}
		e.decoded = d
		e.pins.LoadDecoded(d.Pins)
		e.tracks.LoadDecoded(d.Tracks)
		e.recordStartTime = e.clock.Now()
		e.replay = clocksync.NewEngine(e.clock, e.log, d.Frames, d.Signals, e.recordStartTime)
	}

	e.frameIndex = 0
	e.pins.Reset()
	e.tracks.Reset()
	e.asserts.Reset()
	return nil
}

// Fail marks the run failed and invokes the fail callback (default: print
// report, terminate abnormally). Idempotent: subsequent calls are safe and
// must not deadlock, but only the first ever invokes the callback.
func (e *Engine) Fail() {
	e.mu.Lock()
	initialized := e.initialized
	e.mu.Unlock()
	if !initialized {
		return
	}
	e.asserts.Fail()
}

// Quit finalizes the test file (RECORD writes END and closes; REPLAY frees
// decoded memory), asks the Platform to remove hooks, and zeroes the
// instance so a subsequent Init is legal.
func (e *Engine) Quit() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return nil
	}

	var err error
	switch e.setup.Mode {
	case ModeRecord:
		if e.writer != nil {
			err = e.writer.Close()
		}
	case ModeReplay:
		e.decoded = nil
		if e.setup.Platform != nil {
			e.setup.Platform.SetReplayHooksActive(false)
		}
	}

	if e.setup.History != nil {
		e.recordRunSummary()
	}

	*e = Engine{log: e.log}
	return err
}

// recordRunSummary persists one RunSummary row for the run that is about to
// end. Called from Quit while e.mu is still held; a write failure is logged
// rather than propagated, since a history outage shouldn't fail the run it
// is merely reporting on.
func (e *Engine) recordRunSummary() {
	summary := history.RunSummary{
		TestPath:       e.setup.TestPath,
		Mode:           e.setup.Mode.String(),
		StartedAt:      e.startedAt,
		FrameCount:     e.frameIndex,
		AssertionCount: e.asserts.FireCount(),
		Failed:         e.asserts.TestFailed(),
	}
	if failures := e.asserts.GetFailedAssertions(1); len(failures) > 0 {
		summary.FailureDetail = failures[0].Message
	}
	if _, err := e.setup.History.RecordRun(context.Background(), summary); err != nil {
		e.log.Warn("history record failed", logging.Error(err))
	}
}

// TestFailed reports whether Fail has been called since the last Init or
// Reset.
func (e *Engine) TestFailed() bool {
	e.mu.Lock()
	asserts := e.asserts
	e.mu.Unlock()
	if asserts == nil {
		return false
	}
	return asserts.TestFailed()
}

// Mode returns the mode the engine was configured with at Init.
func (e *Engine) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.setup.Mode
}

// SyncSignal handles a host-emitted named sync gate. In REPLAY it matches
// against the recorded signal order per §4.3; in RECORD it appends a
// SIGNAL record stamped with the current record-relative timestamp. The
// optional signal callback always fires, outside the mutex, after the
// bookkeeping above.
func (e *Engine) SyncSignal(id int32) {
	e.mu.Lock()
	if !e.initialized {
		e.mu.Unlock()
		return
	}
	mode := e.setup.Mode
	onSignal := e.setup.Hooks.OnSignal
	hub := e.setup.Telemetry

	switch mode {
	case ModeReplay:
		replay := e.replay
		e.mu.Unlock()
		replay.SyncSignal(id, nil)

	case ModeRecord:
		ts := e.clock.Now() - e.recordStartTime
		writer := e.writer
		e.mu.Unlock()
		if err := writer.AppendSignal(ts, id); err != nil {
			e.log.Error("record signal write failed", logging.Error(err))
		}

	default:
		e.mu.Unlock()
	}

	if hub != nil {
		hub.Broadcast(telemetry.Event{Kind: "signal", Mode: mode.String(), SignalID: id})
	}
	if onSignal != nil {
		onSignal(id)
	}
}

// Assert records cond's outcome, following §4.8 exactly: accumulation and
// logging happen under lock (inside assertions.Accumulator), callbacks and
// the eventual Fail happen outside it.
func (e *Engine) Assert(cond bool, message string, loc assertions.Location) {
	e.mu.Lock()
	asserts := e.asserts
	initialized := e.initialized
	e.mu.Unlock()
	if !initialized {
		return
	}
	asserts.Assert(cond, message, loc)
}

// GetFailedAssertions copies up to max retained failures (0 means all).
func (e *Engine) GetFailedAssertions(max int) []assertions.Failure {
	e.mu.Lock()
	asserts := e.asserts
	e.mu.Unlock()
	if asserts == nil {
		return nil
	}
	return asserts.GetFailedAssertions(max)
}

// ClearFailedAssertions zeroes the failure list and fire count.
func (e *Engine) ClearFailedAssertions() {
	e.mu.Lock()
	asserts := e.asserts
	e.mu.Unlock()
	if asserts != nil {
		asserts.ClearFailedAssertions()
	}
}
