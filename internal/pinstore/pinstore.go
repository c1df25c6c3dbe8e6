// Package pinstore implements the Pin protocol: sequentially-indexed,
// per-key byte records that overwrite a live variable during replay. See
// package trackstore for the sibling protocol that asserts rather than
// overwrites.
package pinstore

import (
	"sync"

	"gmtrace/internal/logging"
	"gmtrace/internal/wire"
)

// Store tracks the per-key sequential counters used both to stamp records
// during RECORD and to look them up during REPLAY.
type Store struct {
	mu       sync.Mutex
	log      *logging.Logger
	counters map[uint32]uint32

	// replay-only: decoded records indexed by (key, index) for O(1) lookup.
	// The same (key, index) recurs once per frame that made the call, so each
	// entry lists those records in file order; consumed counts how many of
	// each list REPLAY has already handed out.
	replay   map[pinKey][]wire.DataRecord
	consumed map[pinKey]int
	recorded bool
}

type pinKey struct {
	key   uint32
	index uint32
}

// NewStore constructs an empty Store in RECORD posture. Call LoadDecoded to
// switch it into REPLAY posture.
func NewStore(log *logging.Logger) *Store {
	if log == nil {
		log = logging.L()
	}
	return &Store{log: log, counters: make(map[uint32]uint32), consumed: make(map[pinKey]int)}
}

// LoadDecoded indexes previously decoded PIN records for REPLAY lookup.
func (s *Store) LoadDecoded(records []wire.DataRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replay = make(map[pinKey][]wire.DataRecord, len(records))
	for _, rec := range records {
		k := pinKey{key: rec.Key, index: rec.SequentialIndex}
		s.replay[k] = append(s.replay[k], rec)
	}
	s.consumed = make(map[pinKey]int)
	s.recorded = false
}

// ResetFrame resets the per-key sequential counters, called at every
// Update() frame boundary.
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
	s.consumed = make(map[pinKey]int)
}

// nextIndex returns and advances the per-key sequential counter.
func (s *Store) nextIndex(key uint32) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.counters[key]
	s.counters[key]++
	return idx
}

// Record produces the DataRecord to append for a Pin call at key with the
// given payload, assigning it the next sequential index for that key.
func (s *Store) Record(key uint32, payload []byte) wire.DataRecord {
	return wire.DataRecord{Key: key, SequentialIndex: s.nextIndex(key), Payload: append([]byte(nil), payload...)}
}

// Replay looks up the recorded entry for (key, next sequential index) and
// copies its payload into dst. When that (key, index) was recorded in
// several frames, successive calls take those entries in file order. If no
// matching entry exists, or the sizes differ, dst is left unchanged and a
// warning is logged — absence is not itself a failure for Pin.
func (s *Store) Replay(key uint32, dst []byte) {
	idx := s.nextIndex(key)
	k := pinKey{key: key, index: idx}
	s.mu.Lock()
	recs := s.replay[k]
	n := s.consumed[k]
	s.consumed[k]++
	s.mu.Unlock()
	if n >= len(recs) {
		s.log.Warn("pin missing", logging.Int("key", int(key)), logging.Int("index", int(idx)))
		return
	}
	rec := recs[n]
	if len(rec.Payload) != len(dst) {
		s.log.Warn("pin size mismatch",
			logging.Int("key", int(key)), logging.Int("index", int(idx)),
			logging.Int("recorded_len", len(rec.Payload)), logging.Int("dest_len", len(dst)))
		return
	}
	copy(dst, rec.Payload)
}
