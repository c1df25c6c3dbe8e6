// Package wire implements the tagged binary test-file format: the fixed
// header, the per-record tag layout, and the little-endian, packed-field
// encoding every record uses. It deliberately never compresses or buffers
// beyond a single record — the whole-file compression and JSONL side
// channels built on top of a closed file live in package archive instead.
package wire

import (
	"fmt"

	"gmtrace/internal/platform"
)

// Magic and Version identify the file header. Magic is the two ASCII bytes
// "GM"; Version is bumped whenever the record layout changes in a way that
// breaks the Decoder below.
const (
	Magic   uint16 = 0x4D47
	Version uint16 = 2
)

// Tag identifies the kind of record that follows in the stream.
type Tag uint8

const (
	TagFrame  Tag = 0x01
	TagSignal Tag = 0x02
	TagPin    Tag = 0x03
	TagTrack  Tag = 0x04
	TagEnd    Tag = 0xFF
)

func (t Tag) String() string {
	switch t {
	case TagFrame:
		return "FRAME"
	case TagSignal:
		return "SIGNAL"
	case TagPin:
		return "PIN"
	case TagTrack:
		return "TRACK"
	case TagEnd:
		return "END"
	default:
		return fmt.Sprintf("TAG(0x%02X)", uint8(t))
	}
}

// MaxDataPayload bounds the payload length of any Pin or Track record.
const MaxDataPayload = 256

// FileHeader is the fixed 4-byte prefix of every test file.
type FileHeader struct {
	Magic   uint16
	Version uint16
}

// FrameRecord is one sampled InputSnapshot, stamped with the wall-clock
// offset from record start.
type FrameRecord struct {
	TimestampSeconds float64
	Input            platform.InputSnapshot
}

// SignalRecord is one named sync gate, stamped with the wall-clock offset
// from record start.
type SignalRecord struct {
	TimestampSeconds float64
	SignalID         int32
}

// DataRecord is the shared shape for PIN and TRACK entries: a call-site key,
// the sequential index of this call for that key, and the raw payload bytes
// in the host's native in-memory layout.
type DataRecord struct {
	Key             uint32
	SequentialIndex uint32
	Payload         []byte
}

// inputSnapshotWireSize is the fixed encoded byte length of one
// platform.InputSnapshot: KeyCount*2 bytes (one pressed byte, one capped
// repeat byte per key), 4 four-byte fields for mouse X/Y and wheel X/Y, one
// button byte, one gamepads-enabled byte, and MaxGamepads*13 bytes for the
// gamepad table (connected:1 + buttons:2 + triggers:2 + sticks:8).
const inputSnapshotWireSize = platform.KeyCount*2 + 16 + 1 + 1 + platform.MaxGamepads*13
