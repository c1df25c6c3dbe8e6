//go:build !gmtdisable

package gmtrace

import (
	"gmtrace/internal/assertions"
	"gmtrace/internal/logging"
	"gmtrace/internal/trackstore"
)

// pinBytes is the untyped core behind every PinX wrapper: RECORD appends a
// PIN record carrying payload; REPLAY overwrites dst from the matching
// recorded entry (or leaves it untouched, logging a warning, per §4.5).
func (e *Engine) pinBytes(key uint32, dst []byte) {
	e.mu.Lock()
	mode := e.setup.Mode
	pins := e.pins
	writer := e.writer
	log := e.log
	e.mu.Unlock()

	if mode == ModeDisabled || pins == nil {
		return
	}
	switch mode {
	case ModeRecord:
		rec := pins.Record(key, dst)
		if err := writer.AppendPin(rec); err != nil {
			log.Error("pin write failed", logging.Error(err), logging.Int("key", int(key)))
		}
	case ModeReplay:
		pins.Replay(key, dst)
	}
}

// trackBytes is the untyped core behind every TrackX wrapper: RECORD
// appends a TRACK record carrying current; REPLAY compares current against
// the matching recorded entry under kind's comparison rule and asserts the
// outcome through the engine's own assertion accumulator, attributing the
// failure to loc (the host's TrackX call site).
func (e *Engine) trackBytes(key uint32, kind trackstore.Kind, current []byte, loc assertions.Location) {
	e.mu.Lock()
	mode := e.setup.Mode
	tracks := e.tracks
	writer := e.writer
	log := e.log
	e.mu.Unlock()

	if mode == ModeDisabled || tracks == nil {
		return
	}
	switch mode {
	case ModeRecord:
		rec := tracks.Record(key, current)
		if err := writer.AppendTrack(rec); err != nil {
			log.Error("track write failed", logging.Error(err), logging.Int("key", int(key)))
		}
	case ModeReplay:
		result := tracks.Replay(key, kind, current)
		if !result.Found || !result.SizeOK {
			return
		}
		message := result.Detail
		if message == "" {
			message = "track mismatch"
		}
		e.Assert(result.Matched, message, loc)
	}
}
