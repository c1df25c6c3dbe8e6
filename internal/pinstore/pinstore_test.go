package pinstore

import (
	"testing"

	"gmtrace/internal/wire"
)

// TestScenarioDAutoKeyLoop implements Scenario D: PinIntAuto called inside a
// 5-iteration loop, two frames; REPLAY with x=0 produces the 10 recorded
// values in order, with the per-key counter resetting at each ResetFrame.
func TestScenarioDAutoKeyLoop(t *testing.T) {
	const key = 42
	record := NewStore(nil)

	var recorded []wire.DataRecord
	for frame := 0; frame < 2; frame++ {
		record.ResetFrame()
		for i := 0; i < 5; i++ {
			value := frame*5 + i
			payload := []byte{byte(value)}
			recorded = append(recorded, record.Record(key, payload))
		}
	}
	if len(recorded) != 10 {
		t.Fatalf("expected 10 recorded entries, got %d", len(recorded))
	}
	for i, rec := range recorded {
		wantIndex := uint32(i % 5)
		if rec.SequentialIndex != wantIndex {
			t.Fatalf("entry %d: expected index %d, got %d", i, wantIndex, rec.SequentialIndex)
		}
	}

	replay := NewStore(nil)
	replay.LoadDecoded(recorded)

	var got []byte
	for frame := 0; frame < 2; frame++ {
		replay.ResetFrame()
		for i := 0; i < 5; i++ {
			dst := make([]byte, 1)
			replay.Replay(key, dst)
			got = append(got, dst[0])
		}
	}
	for i := 0; i < 10; i++ {
		if int(got[i]) != i {
			t.Fatalf("position %d: expected replayed value %d, got %d", i, i, got[i])
		}
	}
}

func TestReplayMissingLeavesDestinationUnchanged(t *testing.T) {
	replay := NewStore(nil)
	replay.LoadDecoded(nil)
	dst := []byte{0xAA}
	replay.Replay(7, dst)
	if dst[0] != 0xAA {
		t.Fatalf("expected destination unchanged on missing entry, got %v", dst)
	}
}

func TestReplaySizeMismatchLeavesDestinationUnchanged(t *testing.T) {
	replay := NewStore(nil)
	replay.LoadDecoded([]wire.DataRecord{{Key: 1, SequentialIndex: 0, Payload: []byte{1, 2, 3, 4}}})
	dst := []byte{0xFF, 0xFF}
	replay.Replay(1, dst)
	if dst[0] != 0xFF || dst[1] != 0xFF {
		t.Fatalf("expected destination unchanged on size mismatch, got %v", dst)
	}
}
