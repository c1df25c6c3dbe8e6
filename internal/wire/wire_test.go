package wire

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"gmtrace/internal/platform"
)

func sampleSnapshot() platform.InputSnapshot {
	var snap platform.InputSnapshot
	snap.KeyPressed[platform.KeyA] = true
	snap.KeyRepeat[platform.KeyA] = 3
	snap.MouseX = 120
	snap.MouseY = -45
	snap.WheelX = 0
	snap.WheelY = 1.5
	snap.Buttons = platform.MouseLeft | platform.MouseX1
	return snap
}

// TestRoundTripFrameRecord covers property 2 from the testable-properties
// list: encoding then decoding a record yields identical values.
func TestRoundTripFrameRecord(t *testing.T) {
	fake := platform.NewFake(nil)
	w, err := NewWriter(fake, "t.gmt")
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	snap := sampleSnapshot()
	if err := w.AppendFrame(0.1, &snap); err != nil {
		t.Fatalf("AppendFrame: %v", err)
	}
	if err := w.AppendSignal(0.2, 7); err != nil {
		t.Fatalf("AppendSignal: %v", err)
	}
	if err := w.AppendPin(DataRecord{Key: 42, SequentialIndex: 0, Payload: []byte{1, 2, 3, 4}}); err != nil {
		t.Fatalf("AppendPin: %v", err)
	}
	if err := w.AppendTrack(DataRecord{Key: 42, SequentialIndex: 0, Payload: []byte{9, 9}}); err != nil {
		t.Fatalf("AppendTrack: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	dec, err := Decode(fake.Bytes("t.gmt"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if len(dec.Frames) != 1 || dec.Frames[0].TimestampSeconds != 0.1 {
		t.Fatalf("unexpected frames: %+v", dec.Frames)
	}
	if dec.Frames[0].Input.MouseX != 120 || dec.Frames[0].Input.MouseY != -45 {
		t.Fatalf("unexpected decoded mouse position: %+v", dec.Frames[0].Input)
	}
	if !dec.Frames[0].Input.KeyPressed[platform.KeyA] || dec.Frames[0].Input.KeyRepeat[platform.KeyA] != 3 {
		t.Fatalf("unexpected decoded key state: %+v", dec.Frames[0].Input)
	}
	if len(dec.Signals) != 1 || dec.Signals[0].SignalID != 7 {
		t.Fatalf("unexpected signals: %+v", dec.Signals)
	}
	if len(dec.Pins) != 1 || string(dec.Pins[0].Payload) != "\x01\x02\x03\x04" {
		t.Fatalf("unexpected pins: %+v", dec.Pins)
	}
	if len(dec.Tracks) != 1 || string(dec.Tracks[0].Payload) != "\x09\x09" {
		t.Fatalf("unexpected tracks: %+v", dec.Tracks)
	}
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	buf := []byte{0xAA, 0xBB, 0x02, 0x00, byte(TagEnd)}
	if _, err := Decode(buf); err == nil {
		t.Fatal("expected bad magic error")
	}
}

func TestDecodeRejectsBadVersion(t *testing.T) {
	fake := platform.NewFake(nil)
	w, _ := NewWriter(fake, "t.gmt")
	w.Close()
	buf := fake.Bytes("t.gmt")
	buf[2] = 0x63 // corrupt version byte
	if _, err := Decode(buf); err == nil {
		t.Fatal("expected bad version error")
	}
}

func TestDecodeRejectsTruncatedFile(t *testing.T) {
	fake := platform.NewFake(nil)
	w, _ := NewWriter(fake, "t.gmt")
	snap := sampleSnapshot()
	w.AppendFrame(0.1, &snap)
	// Deliberately omit Close (no END tag, no trailing body).
	buf := fake.Bytes("t.gmt")
	buf = buf[:len(buf)-4]
	if _, err := Decode(buf); err == nil {
		t.Fatal("expected truncation error")
	}
}

func TestDecodeRejectsUnknownTag(t *testing.T) {
	fake := platform.NewFake(nil)
	w, _ := NewWriter(fake, "t.gmt")
	w.Close()
	buf := fake.Bytes("t.gmt")
	buf = append(buf[:4], append([]byte{0x77}, buf[4:]...)...)
	if _, err := Decode(buf); err == nil {
		t.Fatal("expected unknown tag error")
	}
}

func TestPayloadTooLargeRejected(t *testing.T) {
	fake := platform.NewFake(nil)
	w, _ := NewWriter(fake, "t.gmt")
	big := make([]byte, MaxDataPayload+1)
	if err := w.AppendPin(DataRecord{Key: 1, SequentialIndex: 0, Payload: big}); err == nil {
		t.Fatal("expected payload too large error")
	}
}

// TestGoldenFileHeader pins the byte layout of the 4-byte file header so an
// accidental magic/version change shows up as a diff instead of silently
// shifting every downstream replay.
func TestGoldenFileHeader(t *testing.T) {
	header := encodeHeader(nil)
	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"))
	g.Assert(t, "file_header", header)
}
