//go:build !gmtdisable

package gmtrace

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"gmtrace/internal/config"
	"gmtrace/internal/history"
	"gmtrace/internal/platform"
	"gmtrace/internal/telemetry"
)

// TestRecordReplayRoundTrip drives a full RECORD pass over a fake platform,
// then a REPLAY pass against the same in-memory file, and asserts the
// injected input matches frame for frame what was captured.
func TestRecordReplayRoundTrip(t *testing.T) {
	const path = "scenario_a.gmt"

	recorded := []platform.InputSnapshot{
		{MouseX: 10, MouseY: 20},
		{MouseX: 11, MouseY: 21, WheelY: 1},
		{MouseX: 12, MouseY: 22},
	}

	fake := platform.NewFake(nil)
	fake.QueueCapture(recorded...)

	rec := NewEngine()
	require.NoError(t, rec.Init(Setup{
		Mode:     ModeRecord,
		TestPath: path,
		Platform: fake,
	}))
	for range recorded {
		require.NoError(t, rec.Update())
	}
	require.NoError(t, rec.Quit())

	require.True(t, fake.FileExists(path))

	replay := NewEngine()
	require.NoError(t, replay.Init(Setup{
		Mode:     ModeReplay,
		TestPath: path,
		Platform: fake,
	}))
	require.True(t, fake.ReplayHooksActive())
	for range recorded {
		require.NoError(t, replay.Update())
	}
	require.NoError(t, replay.Quit())
	require.False(t, fake.ReplayHooksActive())

	injected := fake.Injected()
	require.Len(t, injected, len(recorded))
	for i, want := range recorded {
		require.Equal(t, want.MouseX, injected[i].MouseX)
		require.Equal(t, want.MouseY, injected[i].MouseY)
		require.Equal(t, want.WheelY, injected[i].WheelY)
	}
}

// TestAssertFailureTriggersOnFail confirms a failing Assert call past the
// trigger count invokes Hooks.OnFail exactly once, carrying the recorded
// message and location, and that TestFailed reports true afterward.
func TestAssertFailureTriggersOnFail(t *testing.T) {
	fake := platform.NewFake(nil)
	var reports []FailureReport

	e := NewEngine()
	require.NoError(t, e.Init(Setup{
		Mode:                      ModeRecord,
		TestPath:                  "assert_fail.gmt",
		Platform:                  fake,
		FailAssertionTriggerCount: 1,
		Hooks: Hooks{
			OnFail: func(r FailureReport) { reports = append(reports, r) },
		},
	}))
	defer e.Quit()

	e.Assert(false, "boom", captureLocation(0))

	require.True(t, e.TestFailed())
	require.Len(t, reports, 1)
	require.Equal(t, "boom", reports[0].Failures[0].Message)
}

// TestTelemetryBroadcastsFrameEvents confirms Update publishes a "frame"
// event on the configured Hub when one is wired into Setup.
func TestTelemetryBroadcastsFrameEvents(t *testing.T) {
	fake := platform.NewFake(nil)
	fake.QueueCapture(platform.InputSnapshot{MouseX: 1})

	hub := telemetry.NewHub(nil, nil)

	e := NewEngine()
	require.NoError(t, e.Init(Setup{
		Mode:      ModeRecord,
		TestPath:  "telemetry.gmt",
		Platform:  fake,
		Telemetry: hub,
	}))
	defer e.Quit()

	require.NoError(t, e.Update())
	require.Equal(t, 1, hub.Broadcasts())
}

// TestSyncSignalInvokesHook confirms RECORD mode appends a signal and still
// fires the user's OnSignal hook with the same id.
func TestSyncSignalInvokesHook(t *testing.T) {
	fake := platform.NewFake(nil)
	var seen []int32

	e := NewEngine()
	require.NoError(t, e.Init(Setup{
		Mode:     ModeRecord,
		TestPath: "signal.gmt",
		Platform: fake,
		Hooks: Hooks{
			OnSignal: func(id int32) { seen = append(seen, id) },
		},
	}))
	defer e.Quit()

	e.SyncSignal(7)
	require.Equal(t, []int32{7}, seen)
}

// TestInitWiresConfiguredLogger confirms a Setup.Logging value replaces the
// process-wide default with a real rotating file logger, and that its log
// file is created on disk.
func TestInitWiresConfiguredLogger(t *testing.T) {
	fake := platform.NewFake(nil)
	logPath := filepath.Join(t.TempDir(), "run.log")

	e := NewEngine()
	require.NoError(t, e.Init(Setup{
		Mode:     ModeRecord,
		TestPath: "logged.gmt",
		Platform: fake,
		Logging: &config.LoggingConfig{
			Level: "debug", Path: logPath,
			MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1,
		},
	}))
	defer e.Quit()

	e.SyncSignal(1)
	require.FileExists(t, logPath)
}

// TestQuitRecordsRunHistory confirms a completed run is persisted to
// Setup.History exactly once, with the run's mode, the frame count Update
// accumulated over the run, and a passing outcome.
func TestQuitRecordsRunHistory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	store, err := history.Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	fake := platform.NewFake(nil)
	fake.QueueCapture(platform.InputSnapshot{MouseX: 1}, platform.InputSnapshot{MouseX: 2})

	e := NewEngine()
	require.NoError(t, e.Init(Setup{
		Mode:     ModeRecord,
		TestPath: "history_run.gmt",
		Platform: fake,
		History:  store,
	}))
	require.NoError(t, e.Update())
	require.NoError(t, e.Update())
	require.NoError(t, e.Quit())

	runs, err := store.RecentRuns(context.Background(), "history_run.gmt", 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, "record", runs[0].Mode)
	require.Equal(t, 2, runs[0].FrameCount)
	require.False(t, runs[0].Failed)
}
