package wire

import (
	"encoding/binary"
	"fmt"
	"math"

	"gmtrace/internal/platform"
)

func float32bits(f float32) uint32     { return math.Float32bits(f) }
func float32frombits(b uint32) float32 { return math.Float32frombits(b) }

// encodeHeader appends the file header to dst.
func encodeHeader(dst []byte) []byte {
	dst = binary.LittleEndian.AppendUint16(dst, Magic)
	dst = binary.LittleEndian.AppendUint16(dst, Version)
	return dst
}

// decodeHeader reads and validates the file header from the front of buf,
// returning the bytes consumed.
func decodeHeader(buf []byte) (FileHeader, int, error) {
	if len(buf) < 4 {
		return FileHeader{}, 0, fmt.Errorf("%w: header needs 4 bytes, have %d", ErrFileTruncated, len(buf))
	}
	h := FileHeader{
		Magic:   binary.LittleEndian.Uint16(buf[0:2]),
		Version: binary.LittleEndian.Uint16(buf[2:4]),
	}
	if h.Magic != Magic {
		return h, 4, fmt.Errorf("%w: got 0x%04X want 0x%04X", ErrBadMagic, h.Magic, Magic)
	}
	if h.Version != Version {
		return h, 4, fmt.Errorf("%w: got %d want %d", ErrBadVersion, h.Version, Version)
	}
	return h, 4, nil
}

// encodeInputSnapshot appends the fixed-width wire encoding of snap to dst.
// Per-key repeat counts are capped to 255 on the wire; platform-side repeat
// tracking may exceed a byte but the recorded stream never needs to.
func encodeInputSnapshot(dst []byte, snap *platform.InputSnapshot) []byte {
	for i := 0; i < platform.KeyCount; i++ {
		if snap.KeyPressed[i] {
			dst = append(dst, 1)
		} else {
			dst = append(dst, 0)
		}
	}
	for i := 0; i < platform.KeyCount; i++ {
		repeat := snap.KeyRepeat[i]
		if repeat > 255 {
			repeat = 255
		}
		dst = append(dst, byte(repeat))
	}
	dst = binary.LittleEndian.AppendUint32(dst, uint32(snap.MouseX))
	dst = binary.LittleEndian.AppendUint32(dst, uint32(snap.MouseY))
	dst = binary.LittleEndian.AppendUint32(dst, float32bits(snap.WheelX))
	dst = binary.LittleEndian.AppendUint32(dst, float32bits(snap.WheelY))
	dst = append(dst, byte(snap.Buttons))
	if snap.GamepadsEnabled {
		dst = append(dst, 1)
	} else {
		dst = append(dst, 0)
	}
	for i := 0; i < platform.MaxGamepads; i++ {
		pad := snap.Gamepads[i]
		if pad.Connected {
			dst = append(dst, 1)
		} else {
			dst = append(dst, 0)
		}
		dst = binary.LittleEndian.AppendUint16(dst, pad.Buttons)
		dst = append(dst, pad.LeftTrig, pad.RightTrig)
		dst = binary.LittleEndian.AppendUint16(dst, uint16(pad.LeftStickX))
		dst = binary.LittleEndian.AppendUint16(dst, uint16(pad.LeftStickY))
		dst = binary.LittleEndian.AppendUint16(dst, uint16(pad.RightStickX))
		dst = binary.LittleEndian.AppendUint16(dst, uint16(pad.RightStickY))
	}
	return dst
}

// decodeInputSnapshot reads a fixed-width snapshot from the front of buf.
func decodeInputSnapshot(buf []byte) (platform.InputSnapshot, int, error) {
	if len(buf) < inputSnapshotWireSize {
		return platform.InputSnapshot{}, 0, fmt.Errorf("%w: snapshot needs %d bytes, have %d", ErrFileTruncated, inputSnapshotWireSize, len(buf))
	}
	var snap platform.InputSnapshot
	off := 0
	for i := 0; i < platform.KeyCount; i++ {
		snap.KeyPressed[i] = buf[off] != 0
		off++
	}
	for i := 0; i < platform.KeyCount; i++ {
		snap.KeyRepeat[i] = uint16(buf[off])
		off++
	}
	snap.MouseX = int32(binary.LittleEndian.Uint32(buf[off:]))
	off += 4
	snap.MouseY = int32(binary.LittleEndian.Uint32(buf[off:]))
	off += 4
	snap.WheelX = float32frombits(binary.LittleEndian.Uint32(buf[off:]))
	off += 4
	snap.WheelY = float32frombits(binary.LittleEndian.Uint32(buf[off:]))
	off += 4
	snap.Buttons = platform.MouseButtons(buf[off])
	off++
	snap.GamepadsEnabled = buf[off] != 0
	off++
	for i := 0; i < platform.MaxGamepads; i++ {
		var pad platform.GamepadState
		pad.Connected = buf[off] != 0
		off++
		pad.Buttons = binary.LittleEndian.Uint16(buf[off:])
		off += 2
		pad.LeftTrig = buf[off]
		off++
		pad.RightTrig = buf[off]
		off++
		pad.LeftStickX = int16(binary.LittleEndian.Uint16(buf[off:]))
		off += 2
		pad.LeftStickY = int16(binary.LittleEndian.Uint16(buf[off:]))
		off += 2
		pad.RightStickX = int16(binary.LittleEndian.Uint16(buf[off:]))
		off += 2
		pad.RightStickY = int16(binary.LittleEndian.Uint16(buf[off:]))
		off += 2
		snap.Gamepads[i] = pad
	}
	return snap, off, nil
}
