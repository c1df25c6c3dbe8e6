package wire

import (
	"encoding/binary"
	"fmt"
	"math"

	"gmtrace/internal/platform"
)

// Decoded is the fully parsed in-memory contents of a test file: every
// record bucketed by kind, in emission order. The decoder is a full-load
// decoder, not a streaming one — REPLAY needs random access into each
// bucket by cursor, so the whole file is parsed once at Init.
type Decoded struct {
	Header FileHeader
	Frames []FrameRecord
	Signals []SignalRecord
	Pins   []DataRecord
	Tracks []DataRecord
}

// Decode validates the header and parses every record in buf.
//
// Decoding is two-pass: the first pass walks the stream counting records by
// tag so the typed slices below can be preallocated exactly; the second
// pass re-walks the same bytes copying into those slices. Timestamps are
// not validated for monotonicity here — out-of-order timestamps are a
// producer invariant violation, not a decode error, and surface only as a
// timing anomaly to whichever component consumes the decoded arrays.
func Decode(buf []byte) (*Decoded, error) {
	header, consumed, err := decodeHeader(buf)
	if err != nil {
		return nil, err
	}
	body := buf[consumed:]

	counts, err := countRecords(body)
	if err != nil {
		return nil, err
	}

	dec := &Decoded{
		Header:  header,
		Frames:  make([]FrameRecord, 0, counts.frames),
		Signals: make([]SignalRecord, 0, counts.signals),
		Pins:    make([]DataRecord, 0, counts.pins),
		Tracks:  make([]DataRecord, 0, counts.tracks),
	}

	off := 0
	for off < len(body) {
		tag := Tag(body[off])
		off++
		if tag == TagEnd {
			return dec, nil
		}
		switch tag {
		case TagFrame:
			if off+8 > len(body) {
				return nil, fmt.Errorf("%w: FRAME timestamp at offset %d", ErrFileTruncated, off)
			}
			ts := math.Float64frombits(binary.LittleEndian.Uint64(body[off:]))
			off += 8
			snap, n, err := decodeInputSnapshot(body[off:])
			if err != nil {
				return nil, err
			}
			off += n
			dec.Frames = append(dec.Frames, FrameRecord{TimestampSeconds: ts, Input: snap})

		case TagSignal:
			if off+12 > len(body) {
				return nil, fmt.Errorf("%w: SIGNAL body at offset %d", ErrFileTruncated, off)
			}
			ts := math.Float64frombits(binary.LittleEndian.Uint64(body[off:]))
			off += 8
			id := int32(binary.LittleEndian.Uint32(body[off:]))
			off += 4
			dec.Signals = append(dec.Signals, SignalRecord{TimestampSeconds: ts, SignalID: id})

		case TagPin, TagTrack:
			rec, n, err := decodeDataRecord(body[off:])
			if err != nil {
				return nil, err
			}
			off += n
			if tag == TagPin {
				dec.Pins = append(dec.Pins, rec)
			} else {
				dec.Tracks = append(dec.Tracks, rec)
			}

		default:
			return nil, fmt.Errorf("%w: 0x%02X at offset %d", ErrUnknownTag, byte(tag), off-1)
		}
	}
	// A well-formed file always ends with TagEnd; reaching EOF without one
	// means the writer was interrupted mid-stream.
	return nil, fmt.Errorf("%w: missing END tag", ErrFileTruncated)
}

type recordCounts struct {
	frames, signals, pins, tracks int
}

// countRecords performs the first pass: tallying records by tag without
// materializing their bodies, so the caller can preallocate typed slices.
func countRecords(body []byte) (recordCounts, error) {
	var counts recordCounts
	off := 0
	for off < len(body) {
		tag := Tag(body[off])
		off++
		if tag == TagEnd {
			return counts, nil
		}
		switch tag {
		case TagFrame:
			if off+8 > len(body) {
				return counts, fmt.Errorf("%w: FRAME timestamp at offset %d", ErrFileTruncated, off)
			}
			off += 8
			n, err := inputSnapshotSkipLen(body[off:])
			if err != nil {
				return counts, err
			}
			off += n
			counts.frames++
		case TagSignal:
			if off+12 > len(body) {
				return counts, fmt.Errorf("%w: SIGNAL body at offset %d", ErrFileTruncated, off)
			}
			off += 12
			counts.signals++
		case TagPin, TagTrack:
			n, err := dataRecordSkipLen(body[off:])
			if err != nil {
				return counts, err
			}
			off += n
			if tag == TagPin {
				counts.pins++
			} else {
				counts.tracks++
			}
		default:
			return counts, fmt.Errorf("%w: 0x%02X at offset %d", ErrUnknownTag, byte(tag), off-1)
		}
	}
	return counts, fmt.Errorf("%w: missing END tag", ErrFileTruncated)
}

func inputSnapshotSkipLen(buf []byte) (int, error) {
	if len(buf) < inputSnapshotWireSize {
		return 0, fmt.Errorf("%w: snapshot needs %d bytes, have %d", ErrFileTruncated, inputSnapshotWireSize, len(buf))
	}
	return inputSnapshotWireSize, nil
}

func dataRecordSkipLen(buf []byte) (int, error) {
	if len(buf) < 12 {
		return 0, fmt.Errorf("%w: PIN/TRACK header at offset", ErrFileTruncated)
	}
	payloadLen := binary.LittleEndian.Uint32(buf[8:12])
	total := 12 + int(payloadLen)
	if total > len(buf) {
		return 0, fmt.Errorf("%w: PIN/TRACK payload of %d bytes", ErrFileTruncated, payloadLen)
	}
	return total, nil
}

func decodeDataRecord(buf []byte) (DataRecord, int, error) {
	if len(buf) < 12 {
		return DataRecord{}, 0, fmt.Errorf("%w: PIN/TRACK header", ErrFileTruncated)
	}
	key := binary.LittleEndian.Uint32(buf[0:4])
	idx := binary.LittleEndian.Uint32(buf[4:8])
	payloadLen := binary.LittleEndian.Uint32(buf[8:12])
	if 12+int(payloadLen) > len(buf) {
		return DataRecord{}, 0, fmt.Errorf("%w: PIN/TRACK payload of %d bytes", ErrFileTruncated, payloadLen)
	}
	payload := append([]byte(nil), buf[12:12+int(payloadLen)]...)
	return DataRecord{Key: key, SequentialIndex: idx, Payload: payload}, 12 + int(payloadLen), nil
}

var _ = platform.KeyCount // wire's fixed sizing depends on the platform key table
