// Package gmtrace is an embeddable deterministic record-and-replay test
// harness for frame-driven host applications. A host links gmtrace into its
// main loop, calls Init once, then Update at the top of every frame; in
// RECORD mode every frame's input state is captured and appended to a test
// file, and in REPLAY mode previously recorded input is injected back with
// identical relative timing while Pin/Track calls restore or verify
// in-memory state.
package gmtrace

import (
	"gmtrace/internal/config"
	"gmtrace/internal/history"
	"gmtrace/internal/platform"
	"gmtrace/internal/telemetry"
)

// Mode selects whether the harness is off, capturing, or replaying.
type Mode int

const (
	ModeDisabled Mode = iota
	ModeRecord
	ModeReplay
)

func (m Mode) String() string {
	switch m {
	case ModeRecord:
		return "record"
	case ModeReplay:
		return "replay"
	default:
		return "disabled"
	}
}

// Hooks groups the optional user callbacks the Lifecycle invokes. Every
// callback is invoked outside the engine mutex, after any bookkeeping that
// required it, so callbacks may safely reenter the engine (Pin, Track,
// Assert, SyncSignal) without deadlocking.
type Hooks struct {
	// OnSignal is invoked after every SyncSignal call, matched or not.
	OnSignal func(signalID int32)
	// OnAssertTrigger is invoked once per failed Assert call, before Fail
	// is considered.
	OnAssertTrigger func(message string, fireCount int)
	// OnFail is invoked exactly once, the first time the run fails. The
	// default (nil) prints a structured report and terminates the process
	// with a nonzero exit code.
	OnFail func(report FailureReport)
}

// Setup configures Init. It is copied in full by Init, including the
// Hooks callback slots and the TestPath, so the caller's Setup value may be
// discarded or mutated immediately after the call.
type Setup struct {
	Mode Mode

	// TestPath is the test file: written in RECORD, read in REPLAY. Unused
	// in ModeDisabled.
	TestPath string

	// WorkingDir, if set, is passed to Platform.SetWorkingDir during Init.
	WorkingDir string

	// CaptureGamepads enables the optional gamepad slots in InputSnapshot.
	CaptureGamepads bool

	// FailAssertionTriggerCount is the number of failed assertions at
	// which the run is forcibly failed. Values <= 0 are treated as 1.
	FailAssertionTriggerCount int

	Hooks Hooks

	// Platform is the host-supplied collaborator. Tests typically pass a
	// *platform.Fake; production hosts supply their own OS-backed
	// implementation. Required in every mode but ModeDisabled.
	Platform platform.Platform

	// Telemetry, if set, receives a live Event for every frame captured or
	// injected, every SyncSignal call, and every failed Assert/Track. A nil
	// Telemetry disables broadcast entirely at no cost beyond a nil check.
	Telemetry *telemetry.Hub

	// Logging, if set, configures a rotating on-disk logger for this run in
	// place of the process-wide default from logging.L(). A nil Logging
	// leaves the engine on whatever global logger is already installed.
	Logging *config.LoggingConfig

	// History, if set, receives one RunSummary row when Quit finalizes the
	// run, so past pass/fail trends for TestPath survive the process. A nil
	// History disables persistence entirely at no cost beyond a nil check.
	History *history.Store
}
