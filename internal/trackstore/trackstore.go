// Package trackstore implements the Track protocol: sequentially-indexed,
// per-key records that are asserted equal to a live variable during replay,
// rather than overwriting it (that is package pinstore's job). Track shares
// Pin's wire shape exactly; only the tag and the replay-side behavior
// differ.
package trackstore

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"gmtrace/internal/logging"
	"gmtrace/internal/wire"
)

// FloatEpsilon and DoubleEpsilon are the default tolerances for Track
// float/double comparisons.
const (
	FloatEpsilon  = 1e-5
	DoubleEpsilon = 1e-11
)

// Store mirrors pinstore.Store's counter/lookup machinery; see that package
// for the shared rationale.
type Store struct {
	mu       sync.Mutex
	log      *logging.Logger
	counters map[uint32]uint32
	replay   map[trackKey][]wire.DataRecord
	consumed map[trackKey]int
}

type trackKey struct {
	key   uint32
	index uint32
}

// NewStore constructs an empty Store in RECORD posture.
func NewStore(log *logging.Logger) *Store {
	if log == nil {
		log = logging.L()
	}
	return &Store{log: log, counters: make(map[uint32]uint32), consumed: make(map[trackKey]int)}
}

// LoadDecoded indexes previously decoded TRACK records for REPLAY lookup.
func (s *Store) LoadDecoded(records []wire.DataRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replay = make(map[trackKey][]wire.DataRecord, len(records))
	for _, rec := range records {
		k := trackKey{key: rec.Key, index: rec.SequentialIndex}
		s.replay[k] = append(s.replay[k], rec)
	}
	s.consumed = make(map[trackKey]int)
}

// ResetFrame resets per-key sequential counters at an Update() frame
// boundary.
func (s *Store) ResetFrame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.counters {
		delete(s.counters, k)
	}
}

// Reset fully resets the store back to its just-after-Init state.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters = make(map[uint32]uint32)
	s.consumed = make(map[trackKey]int)
}

func (s *Store) nextIndex(key uint32) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.counters[key]
	s.counters[key]++
	return idx
}

// Record produces the DataRecord to append for a Track call.
func (s *Store) Record(key uint32, payload []byte) wire.DataRecord {
	return wire.DataRecord{Key: key, SequentialIndex: s.nextIndex(key), Payload: append([]byte(nil), payload...)}
}

// Kind distinguishes the typed comparison rules §4.6 assigns per value kind.
type Kind int

const (
	KindBytes Kind = iota
	KindInt
	KindUint
	KindBool
	KindFloat32
	KindDouble
)

// Result reports the outcome of a Track replay comparison.
type Result struct {
	// Found is false when no recorded entry exists for this (key, index);
	// per spec this is a WARNING, not a mismatch, and Matched is irrelevant.
	Found bool
	// SizeOK is false on a payload length mismatch; also a WARNING only.
	SizeOK bool
	Matched bool
	// Detail is the human-readable "recorded X, current Y" message, set
	// only when Found && SizeOK && !Matched.
	Detail string
}

// Replay looks up the recorded entry for (key, next sequential index) and
// compares it against current using the comparison rule for kind. When that
// (key, index) was recorded in several frames, successive calls take those
// entries in file order.
func (s *Store) Replay(key uint32, kind Kind, current []byte) Result {
	idx := s.nextIndex(key)
	k := trackKey{key: key, index: idx}
	s.mu.Lock()
	recs := s.replay[k]
	n := s.consumed[k]
	s.consumed[k]++
	s.mu.Unlock()
	if n >= len(recs) {
		s.log.Warn("track missing", logging.Int("key", int(key)), logging.Int("index", int(idx)))
		return Result{Found: false}
	}
	rec := recs[n]
	if len(rec.Payload) != len(current) {
		s.log.Warn("track size mismatch",
			logging.Int("key", int(key)), logging.Int("index", int(idx)),
			logging.Int("recorded_len", len(rec.Payload)), logging.Int("current_len", len(current)))
		return Result{Found: true, SizeOK: false}
	}

	matched, detail := compare(kind, rec.Payload, current)
	if !matched {
		s.log.Error("track mismatch",
			logging.Int("key", int(key)), logging.Int("index", int(idx)), logging.String("detail", detail))
	}
	return Result{Found: true, SizeOK: true, Matched: matched, Detail: detail}
}

func compare(kind Kind, recorded, current []byte) (bool, string) {
	switch kind {
	case KindFloat32:
		a := math.Float32frombits(binary.LittleEndian.Uint32(recorded))
		b := math.Float32frombits(binary.LittleEndian.Uint32(current))
		diff := float64(a) - float64(b)
		if diff < 0 {
			diff = -diff
		}
		if diff < FloatEpsilon {
			return true, ""
		}
		return false, fmt.Sprintf("recorded %v, current %v (diff %v)", a, b, diff)

	case KindDouble:
		a := math.Float64frombits(binary.LittleEndian.Uint64(recorded))
		b := math.Float64frombits(binary.LittleEndian.Uint64(current))
		diff := a - b
		if diff < 0 {
			diff = -diff
		}
		if diff < DoubleEpsilon {
			return true, ""
		}
		return false, fmt.Sprintf("recorded %v, current %v (diff %v)", a, b, diff)

	case KindInt, KindUint:
		if bytes.Equal(recorded, current) {
			return true, ""
		}
		ra, ca := intFromBytes(recorded, kind), intFromBytes(current, kind)
		return false, fmt.Sprintf("recorded %d (0x%X), current %d (0x%X)", ra, ra, ca, ca)

	case KindBool:
		if bytes.Equal(recorded, current) {
			return true, ""
		}
		return false, fmt.Sprintf("recorded %v, current %v", recorded[0] != 0, current[0] != 0)

	default: // KindBytes
		if bytes.Equal(recorded, current) {
			return true, ""
		}
		return false, fmt.Sprintf("recorded %s, current %s", hexDump(recorded), hexDump(current))
	}
}

func intFromBytes(b []byte, kind Kind) int64 {
	var v uint64
	for i := len(b) - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return int64(v)
}

// hexDump renders up to 32 bytes of b as a hex string, truncating with an
// ellipsis marker beyond that per §4.6's mismatch-formatting rule.
func hexDump(b []byte) string {
	limit := b
	truncated := false
	if len(limit) > 32 {
		limit = limit[:32]
		truncated = true
	}
	s := fmt.Sprintf("% x", limit)
	if truncated {
		s += "..."
	}
	return s
}
