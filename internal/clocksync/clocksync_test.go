package clocksync

import (
	"testing"

	"gmtrace/internal/platform"
	"gmtrace/internal/wire"
)

type fakeClock struct {
	t float64
}

func (c *fakeClock) Now() float64 { return c.t }
func (c *fakeClock) advance(d float64) { c.t += d }

// TestScenarioBSignalAlignsClock implements Scenario B: a SIGNAL recorded at
// t=0.20s is reached late (host blocks ~2s past it); SyncSignal folds the
// wait into replay_time_offset so later frames play at the correct
// timestamp-relative offset.
func TestScenarioBSignalAlignsClock(t *testing.T) {
	clock := &fakeClock{t: 0}
	signals := []wire.SignalRecord{{TimestampSeconds: 0.20, SignalID: 7}}
	frames := []wire.FrameRecord{
		{TimestampSeconds: 0.10},
		{TimestampSeconds: 0.50},
	}
	engine := NewEngine(clock, nil, frames, signals, 0)

	// replay_time=0.10: frame 1 is due and the signal (t=0.20) is not yet.
	clock.advance(0.10)
	var injectedFirst bool
	engine.Step(func(next, prev *platform.InputSnapshot, first bool) { injectedFirst = true })
	if !injectedFirst {
		t.Fatal("expected the first frame to inject once its timestamp is reached")
	}

	// replay_time reaches the signal's own timestamp exactly: gating
	// begins with no overshoot, so the wait duration below maps directly
	// onto the offset.
	clock.advance(0.10)
	gated := engine.Gate()
	if !gated {
		t.Fatal("expected the engine to gate on the due signal")
	}
	waiting, id := engine.Waiting()
	if !waiting || id != 7 {
		t.Fatalf("expected waiting on signal 7, got waiting=%v id=%d", waiting, id)
	}

	// Host blocks 2s before calling SyncSignal.
	clock.advance(2.0)
	engine.SyncSignal(7, nil)

	waitingAfter, _ := engine.Waiting()
	if waitingAfter {
		t.Fatal("expected signal arrival to clear the waiting flag")
	}

	// The wait was folded into the offset, so replay_time resumes exactly
	// at the signal's own timestamp.
	replayTime := engine.ReplayTime()
	wantReplayTime := 0.20
	if diff := replayTime - wantReplayTime; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("expected replay_time ~%v right after signal arrival, got %v", wantReplayTime, replayTime)
	}

	var injectedSecond bool
	engine.Step(func(next, prev *platform.InputSnapshot, first bool) { injectedSecond = true })
	if injectedSecond {
		t.Fatal("frame at t=0.50 should not be due yet right after the signal resolves")
	}

	clock.advance(0.30)
	engine.Step(func(next, prev *platform.InputSnapshot, first bool) { injectedSecond = true })
	if !injectedSecond {
		t.Fatal("expected the second frame to inject once replay_time reaches its timestamp")
	}
}

// TestScenarioCSignalOrderMismatch implements Scenario C: signals recorded
// in order 7, 8; the host emits SyncSignal(8) first. The engine must not
// advance the cursor or unblock; a subsequent SyncSignal(7) then succeeds.
func TestScenarioCSignalOrderMismatch(t *testing.T) {
	clock := &fakeClock{t: 5}
	signals := []wire.SignalRecord{
		{TimestampSeconds: 0.0, SignalID: 7},
		{TimestampSeconds: 1.0, SignalID: 8},
	}
	engine := NewEngine(clock, nil, nil, signals, 0)
	engine.Gate() // becomes due immediately, since signal[0].timestamp=0 <= replay_time

	engine.SyncSignal(8, nil)
	if cursor := engine.SignalCursor(); cursor != 0 {
		t.Fatalf("expected cursor to stay at 0 after mismatched signal, got %d", cursor)
	}
	waiting, id := engine.Waiting()
	if !waiting || id != 7 {
		t.Fatalf("expected still waiting on signal 7, got waiting=%v id=%d", waiting, id)
	}

	// A second mismatched call is equally ignored.
	engine.SyncSignal(8, nil)
	if cursor := engine.SignalCursor(); cursor != 0 {
		t.Fatalf("expected cursor to remain 0 after repeated mismatch, got %d", cursor)
	}

	engine.SyncSignal(7, nil)
	if cursor := engine.SignalCursor(); cursor != 1 {
		t.Fatalf("expected cursor to advance to 1 after the matching signal, got %d", cursor)
	}
	waitingAfter, _ := engine.Waiting()
	if waitingAfter {
		t.Fatal("expected the matching signal to clear the waiting flag")
	}
}

func TestInjectBatchBound(t *testing.T) {
	clock := &fakeClock{t: 100}
	var frames []wire.FrameRecord
	for i := 0; i < 200; i++ {
		var snap platform.InputSnapshot
		snap.KeyPressed[platform.KeyA] = (i % 2) == 0
		frames = append(frames, wire.FrameRecord{TimestampSeconds: float64(i) * 0.001, Input: snap})
	}
	engine := NewEngine(clock, nil, frames, nil, 0)

	injectedCount := 0
	result := engine.Step(func(next, prev *platform.InputSnapshot, first bool) { injectedCount++ })
	if injectedCount == 0 {
		t.Fatal("expected at least one frame injected")
	}
	if injectedCount > MaxInjectBatch {
		t.Fatalf("expected at most %d frames injected in one Step, got %d", MaxInjectBatch, injectedCount)
	}
	if engine.FrameCursor() >= len(frames) && !result.Complete {
		t.Fatal("inconsistent completion state")
	}
}

func TestSignalOverflowLogsAndIgnores(t *testing.T) {
	clock := &fakeClock{t: 0}
	engine := NewEngine(clock, nil, nil, nil, 0)
	var called bool
	engine.SyncSignal(1, func(id int32) { called = true })
	if !called {
		t.Fatal("expected the signal callback to still fire even when overflowed")
	}
	if cursor := engine.SignalCursor(); cursor != 0 {
		t.Fatalf("expected cursor to remain 0, got %d", cursor)
	}
}
