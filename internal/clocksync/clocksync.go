// Package clocksync implements the replay clock, the sync-signal gate, and
// the per-frame delta-inject engine. It owns the only two REPLAY-mode
// components that are sensitive to wall-clock timing; everything else in
// the core is pure data lookup.
package clocksync

import (
	"errors"
	"fmt"
	"sync"

	"gmtrace/internal/logging"
	"gmtrace/internal/platform"
	"gmtrace/internal/wire"
)

// MaxInjectBatch bounds the number of state transitions one Update call may
// emit before deferring the remainder to the next call.
const MaxInjectBatch = 64

var (
	ErrSignalOrderMismatch = errors.New("clocksync: signal order mismatch")
	ErrSignalOverflow      = errors.New("clocksync: no signals remain")
	ErrInjectBatchDeferred = errors.New("clocksync: inject batch deferred")
)

// Clock supplies monotonic seconds, mirroring platform.Platform.MonotonicNow
// but expressed as its own small interface so tests can inject a fake
// without standing up a full Platform.
type Clock interface {
	Now() float64
}

type clockFunc func() float64

func (c clockFunc) Now() float64 { return c() }

// FromPlatform adapts a platform.Platform's MonotonicNow into a Clock.
func FromPlatform(p platform.Platform) Clock {
	return clockFunc(p.MonotonicNow)
}

// Engine drives the REPLAY-mode clock: signal gating and frame injection.
// It holds no RECORD-mode state; RECORD's SIGNAL emission is a single
// Writer.AppendSignal call made directly by the Lifecycle.
type Engine struct {
	mu sync.Mutex

	clock           Clock
	log             *logging.Logger
	recordStartTime float64
	replayOffset    float64

	frames  []wire.FrameRecord
	signals []wire.SignalRecord

	frameCursor  int
	signalCursor int

	waitingForSignal bool
	waitingSignalID  int32
	signalWaitStart  float64

	prevInput platform.InputSnapshot
	haveFirst bool
}

// NewEngine constructs a replay Engine over already-decoded frames/signals.
// recordStartTime is normally clock.Now() at the moment Init opens the file.
func NewEngine(clock Clock, log *logging.Logger, frames []wire.FrameRecord, signals []wire.SignalRecord, recordStartTime float64) *Engine {
	if log == nil {
		log = logging.L()
	}
	return &Engine{
		clock:           clock,
		log:             log,
		recordStartTime: recordStartTime,
		frames:          frames,
		signals:         signals,
	}
}

// Reset rewinds cursors and clocks to the "just after Init" state, per
// spec's Reset contract: zero cursors/counters, restart clocks.
func (e *Engine) Reset(recordStartTime float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recordStartTime = recordStartTime
	e.replayOffset = 0
	e.frameCursor = 0
	e.signalCursor = 0
	e.waitingForSignal = false
	e.waitingSignalID = 0
	e.signalWaitStart = 0
	e.haveFirst = false
}

// ReplayTime returns the current replay-clock position.
func (e *Engine) ReplayTime() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.replayTimeLocked()
}

func (e *Engine) replayTimeLocked() float64 {
	return e.clock.Now() - e.recordStartTime - e.replayOffset
}

// Gate checks the next unprocessed signal against the replay clock and, if
// it is due, switches the engine into the waiting state so Step refuses to
// inject further frames until SyncSignal arrives. Returns true if the
// engine is now (or already was) gated.
func (e *Engine) Gate() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gateLocked()
}

// gateLocked is Gate's body; callers must already hold e.mu.
func (e *Engine) gateLocked() bool {
	if e.waitingForSignal {
		return true
	}
	if e.signalCursor >= len(e.signals) {
		return false
	}
	next := e.signals[e.signalCursor]
	if next.TimestampSeconds <= e.replayTimeLocked() {
		e.waitingForSignal = true
		e.waitingSignalID = next.SignalID
		e.signalWaitStart = e.clock.Now()
		return true
	}
	return false
}

// SyncSignal handles a host-emitted signal arrival per spec §4.3.
func (e *Engine) SyncSignal(id int32, onSignal func(int32)) {
	e.mu.Lock()
	if e.signalCursor >= len(e.signals) {
		e.mu.Unlock()
		e.log.Warn("sync signal received with no recorded signals remaining", logging.Int("signal_id", int(id)))
		if onSignal != nil {
			onSignal(id)
		}
		return
	}
	expected := e.signals[e.signalCursor]
	if expected.SignalID != id {
		e.mu.Unlock()
		e.log.Warn("sync signal does not match expected order",
			logging.Int("signal_id", int(id)), logging.Int("expected_id", int(expected.SignalID)))
		if onSignal != nil {
			onSignal(id)
		}
		return
	}

	now := e.clock.Now()
	if e.waitingForSignal && e.waitingSignalID == id {
		//1.- Late case: the host reached SyncSignal after the engine had
		// already started waiting. Fold the wait duration into the offset
		// so replay_time resumes exactly where it left off.
		e.replayOffset += now - e.signalWaitStart
		e.waitingForSignal = false
	} else {
		//2.- Early case: the signal fired before replay_time reached its
		// timestamp. Pin the offset so replay_time == signal.timestamp
		// from this point forward.
		e.replayOffset = now - e.recordStartTime - expected.TimestampSeconds
	}
	e.signalCursor++
	e.mu.Unlock()

	if onSignal != nil {
		onSignal(id)
	}
}

// StepResult reports what Step did during one Update call.
type StepResult struct {
	Gated    bool
	Deferred bool
	Complete bool
}

// Step advances the inject engine by at most MaxInjectBatch state
// transitions, calling inject for every frame whose timestamp is due.
// inject receives the frame to apply and the previous injected input as the
// delta base; the caller's platform.Platform.InjectInput does the actual
// delta emission.
func (e *Engine) Step(inject func(next, prev *platform.InputSnapshot, first bool)) StepResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.gateLocked() {
		return StepResult{Gated: true}
	}

	if e.frameCursor >= len(e.frames) {
		return StepResult{Complete: true}
	}

	replayTime := e.replayTimeLocked()
	budget := MaxInjectBatch
	deferred := false

	for e.frameCursor < len(e.frames) {
		frame := e.frames[e.frameCursor]
		if frame.TimestampSeconds > replayTime {
			break
		}
		transitions := countTransitions(&frame.Input, &e.prevInput, e.haveFirst)
		if transitions > budget {
			//3.- The batch budget would be exceeded mid-frame; defer the
			// whole frame rather than splitting one InjectInput call.
			deferred = true
			e.log.Warn("inject batch deferred to next update", logging.Int("frame_cursor", e.frameCursor))
			break
		}
		budget -= transitions
		if inject != nil {
			inject(&frame.Input, &e.prevInput, !e.haveFirst)
		}
		e.prevInput = frame.Input
		e.haveFirst = true
		e.frameCursor++
		if budget <= 0 {
			if e.frameCursor < len(e.frames) {
				deferred = true
			}
			break
		}
	}

	return StepResult{Deferred: deferred, Complete: e.frameCursor >= len(e.frames)}
}

// countTransitions returns how many key/button bits changed between prev
// and next, plus one for each point of nonzero repeat (each repeated
// key-down is its own emission per spec §4.4), counted against the batch
// budget the same way a real emission would be.
func countTransitions(next, prev *platform.InputSnapshot, haveFirst bool) int {
	if !haveFirst {
		// The first replayed frame is always written in full (absolute
		// mouse position, no delta) — conservatively charge one
		// transition per pressed key plus one per repeat of that key,
		// plus one for the mouse/buttons write.
		count := 1
		for i := 0; i < platform.KeyCount; i++ {
			if next.KeyPressed[i] {
				count += 1 + int(next.KeyRepeat[i])
			}
		}
		return count
	}
	count := 0
	for i := 0; i < platform.KeyCount; i++ {
		if next.KeyPressed[i] != prev.KeyPressed[i] {
			count++
		}
		if next.KeyPressed[i] && next.KeyRepeat[i] > 0 {
			count += int(next.KeyRepeat[i])
		}
	}
	if next.Buttons != prev.Buttons {
		count++
	}
	return count
}

// FrameCursor exposes the current frame cursor for diagnostics/tests.
func (e *Engine) FrameCursor() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frameCursor
}

// SignalCursor exposes the current signal cursor for diagnostics/tests.
func (e *Engine) SignalCursor() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.signalCursor
}

// Waiting reports whether the engine is currently gated on a signal.
func (e *Engine) Waiting() (bool, int32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.waitingForSignal, e.waitingSignalID
}

func init() {
	// MaxInjectBatch is a fixed contract value; an edit that changes it
	// fails loudly at package load rather than silently altering how many
	// transitions one Update may emit.
	if MaxInjectBatch != 64 {
		panic(fmt.Sprintf("clocksync: MaxInjectBatch must stay 64, got %d", MaxInjectBatch))
	}
}
