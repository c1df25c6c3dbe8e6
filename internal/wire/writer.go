package wire

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"gmtrace/internal/platform"
)

// Writer appends tagged records to an open platform.WriteHandle. Each
// Append* call encodes one complete tag+body and issues a single Write,
// matching the "flushed as a unit" contract: a concurrent reader never
// observes a partial record, though per-record durability flush is not
// required.
type Writer struct {
	mu     sync.Mutex
	handle platform.WriteHandle
	closed bool
}

// NewWriter opens path for writing and emits the file header.
func NewWriter(p platform.Platform, path string) (*Writer, error) {
	handle, err := p.FileOpenWrite(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrIOOpen, path, err)
	}
	w := &Writer{handle: handle}
	header := encodeHeader(make([]byte, 0, 4))
	if _, err := handle.Write(header); err != nil {
		handle.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrIOWrite, path, err)
	}
	return w, nil
}

// AppendFrame writes a FRAME record.
func (w *Writer) AppendFrame(timestampSeconds float64, input *platform.InputSnapshot) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	body := make([]byte, 0, 8+inputSnapshotWireSize)
	body = binary.LittleEndian.AppendUint64(body, math.Float64bits(timestampSeconds))
	body = encodeInputSnapshot(body, input)
	return w.writeLocked(TagFrame, body)
}

// AppendSignal writes a SIGNAL record.
func (w *Writer) AppendSignal(timestampSeconds float64, signalID int32) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	body := make([]byte, 0, 12)
	body = binary.LittleEndian.AppendUint64(body, math.Float64bits(timestampSeconds))
	body = binary.LittleEndian.AppendUint32(body, uint32(signalID))
	return w.writeLocked(TagSignal, body)
}

// AppendPin writes a PIN record.
func (w *Writer) AppendPin(rec DataRecord) error {
	return w.appendData(TagPin, rec)
}

// AppendTrack writes a TRACK record.
func (w *Writer) AppendTrack(rec DataRecord) error {
	return w.appendData(TagTrack, rec)
}

func (w *Writer) appendData(tag Tag, rec DataRecord) error {
	if len(rec.Payload) > MaxDataPayload {
		return fmt.Errorf("%w: %s key=%d index=%d len=%d", ErrPayloadTooLarge, tag, rec.Key, rec.SequentialIndex, len(rec.Payload))
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	body := make([]byte, 0, 12+len(rec.Payload))
	body = binary.LittleEndian.AppendUint32(body, rec.Key)
	body = binary.LittleEndian.AppendUint32(body, rec.SequentialIndex)
	body = binary.LittleEndian.AppendUint32(body, uint32(len(rec.Payload)))
	body = append(body, rec.Payload...)
	return w.writeLocked(tag, body)
}

func (w *Writer) writeLocked(tag Tag, body []byte) error {
	if w.closed {
		return fmt.Errorf("%w: writer closed", ErrIOWrite)
	}
	record := make([]byte, 0, 1+len(body))
	record = append(record, byte(tag))
	record = append(record, body...)
	if _, err := w.handle.Write(record); err != nil {
		return fmt.Errorf("%w: %v", ErrIOWrite, err)
	}
	return nil
}

// Close writes the terminating END record and closes the underlying handle.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	if _, err := w.handle.Write([]byte{byte(TagEnd)}); err != nil {
		w.handle.Close()
		return fmt.Errorf("%w: %v", ErrIOWrite, err)
	}
	return w.handle.Close()
}
