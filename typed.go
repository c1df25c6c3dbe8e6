//go:build !gmtdisable

package gmtrace

import (
	"encoding/binary"
	"hash/fnv"
	"math"

	"gmtrace/internal/assertions"
	"gmtrace/internal/trackstore"
)

// autoKey derives a stable per-call-site key from loc, for the "Auto"
// variants used inside loops where the host would otherwise have to
// invent and thread through its own unique integer key (Scenario D's
// auto-key loop pattern: one call site, many sequential indices per
// frame, one per loop iteration).
func autoKey(loc assertions.Location) uint32 {
	h := fnv.New32a()
	h.Write([]byte(loc.File))
	h.Write([]byte{':'})
	var lineBuf [4]byte
	binary.LittleEndian.PutUint32(lineBuf[:], uint32(loc.Line))
	h.Write(lineBuf[:])
	return h.Sum32()
}

// --- Pin ------------------------------------------------------------------
//
// Pin has no failure location to attribute (a missing/short recorded entry
// is always a warning, never an Assert), so its wrappers need no location
// plumbing; only Track's do.

// PinInt overwrites *value from the recorded stream during REPLAY, or
// records its current value during RECORD.
func (e *Engine) PinInt(key uint32, value *int32) {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(*value))
	e.pinBytes(key, buf)
	*value = int32(binary.LittleEndian.Uint32(buf))
}

// PinUint overwrites *value from the recorded stream during REPLAY, or
// records its current value during RECORD.
func (e *Engine) PinUint(key uint32, value *uint32) {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, *value)
	e.pinBytes(key, buf)
	*value = binary.LittleEndian.Uint32(buf)
}

// PinFloat overwrites *value from the recorded stream during REPLAY, or
// records its current value during RECORD.
func (e *Engine) PinFloat(key uint32, value *float32) {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, math.Float32bits(*value))
	e.pinBytes(key, buf)
	*value = math.Float32frombits(binary.LittleEndian.Uint32(buf))
}

// PinDouble overwrites *value from the recorded stream during REPLAY, or
// records its current value during RECORD.
func (e *Engine) PinDouble(key uint32, value *float64) {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, math.Float64bits(*value))
	e.pinBytes(key, buf)
	*value = math.Float64frombits(binary.LittleEndian.Uint64(buf))
}

// PinBool overwrites *value from the recorded stream during REPLAY, or
// records its current value during RECORD.
func (e *Engine) PinBool(key uint32, value *bool) {
	buf := make([]byte, 1)
	if *value {
		buf[0] = 1
	}
	e.pinBytes(key, buf)
	*value = buf[0] != 0
}

// PinBytes overwrites buf in place from the recorded stream during REPLAY,
// or records its current contents during RECORD. The slice length is fixed
// by the caller and must match between RECORD and REPLAY runs.
func (e *Engine) PinBytes(key uint32, buf []byte) {
	e.pinBytes(key, buf)
}

// PinIntAuto is PinInt with the key derived from the call site instead of
// supplied explicitly, for loops that Pin a sequence of values without a
// natural per-iteration key.
func (e *Engine) PinIntAuto(value *int32) {
	e.PinInt(autoKey(captureLocation(1)), value)
}

// --- Track ------------------------------------------------------------------
//
// Every TrackX wrapper captures its own immediate caller's location (skip
// depth 1, relative to the wrapper itself) so a reported mismatch always
// names the host's TrackX call site, not an internal helper's.

// TrackInt asserts value equals the recorded value during REPLAY
// (byte-exact), or records it during RECORD.
func (e *Engine) TrackInt(key uint32, value int32) {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(value))
	e.trackBytes(key, trackstore.KindInt, buf, captureLocation(1))
}

// TrackUint asserts value equals the recorded value during REPLAY
// (byte-exact), or records it during RECORD.
func (e *Engine) TrackUint(key uint32, value uint32) {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, value)
	e.trackBytes(key, trackstore.KindUint, buf, captureLocation(1))
}

// TrackFloat asserts value is within FloatEpsilon of the recorded value
// during REPLAY, or records it during RECORD.
func (e *Engine) TrackFloat(key uint32, value float32) {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, math.Float32bits(value))
	e.trackBytes(key, trackstore.KindFloat32, buf, captureLocation(1))
}

// TrackDouble asserts value is within DoubleEpsilon of the recorded value
// during REPLAY, or records it during RECORD.
func (e *Engine) TrackDouble(key uint32, value float64) {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, math.Float64bits(value))
	e.trackBytes(key, trackstore.KindDouble, buf, captureLocation(1))
}

// TrackBool asserts value equals the recorded value during REPLAY, or
// records it during RECORD.
func (e *Engine) TrackBool(key uint32, value bool) {
	buf := make([]byte, 1)
	if value {
		buf[0] = 1
	}
	e.trackBytes(key, trackstore.KindBool, buf, captureLocation(1))
}

// TrackBytes asserts buf equals the recorded payload byte-for-byte during
// REPLAY, or records it during RECORD.
func (e *Engine) TrackBytes(key uint32, buf []byte) {
	e.trackBytes(key, trackstore.KindBytes, buf, captureLocation(1))
}

// --- package-level facade, mirroring global.go -----------------------------
//
// Each of these captures its OWN caller's location before delegating, so
// that a Track mismatch reported through the package-level facade still
// names the host's call site rather than this wrapper or Engine's method.

func PinInt(key uint32, value *int32)      { globalEngine().PinInt(key, value) }
func PinUint(key uint32, value *uint32)    { globalEngine().PinUint(key, value) }
func PinFloat(key uint32, value *float32)  { globalEngine().PinFloat(key, value) }
func PinDouble(key uint32, value *float64) { globalEngine().PinDouble(key, value) }
func PinBool(key uint32, value *bool)      { globalEngine().PinBool(key, value) }
func PinBytes(key uint32, buf []byte)      { globalEngine().PinBytes(key, buf) }

// PinIntAuto delegates to the process-wide engine with the caller's own
// location, so the call site recorded is the host's, not this wrapper's.
func PinIntAuto(value *int32) {
	globalEngine().PinInt(autoKey(captureLocation(1)), value)
}

func TrackInt(key uint32, value int32) {
	loc := captureLocation(1)
	e := globalEngine()
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(value))
	e.trackBytes(key, trackstore.KindInt, buf, loc)
}

func TrackUint(key uint32, value uint32) {
	loc := captureLocation(1)
	e := globalEngine()
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, value)
	e.trackBytes(key, trackstore.KindUint, buf, loc)
}

func TrackFloat(key uint32, value float32) {
	loc := captureLocation(1)
	e := globalEngine()
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, math.Float32bits(value))
	e.trackBytes(key, trackstore.KindFloat32, buf, loc)
}

func TrackDouble(key uint32, value float64) {
	loc := captureLocation(1)
	e := globalEngine()
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, math.Float64bits(value))
	e.trackBytes(key, trackstore.KindDouble, buf, loc)
}

func TrackBool(key uint32, value bool) {
	loc := captureLocation(1)
	e := globalEngine()
	buf := make([]byte, 1)
	if value {
		buf[0] = 1
	}
	e.trackBytes(key, trackstore.KindBool, buf, loc)
}

func TrackBytes(key uint32, buf []byte) {
	loc := captureLocation(1)
	globalEngine().trackBytes(key, trackstore.KindBytes, buf, loc)
}
