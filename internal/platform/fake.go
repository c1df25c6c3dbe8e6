package platform

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

// Fake is an in-memory Platform used by the core's own tests and by hosts
// that want deterministic behavior without real OS hooks. It records every
// injected snapshot and every hook toggle so tests can assert on them, and
// serves file I/O out of an in-memory byte store instead of touching disk.
type Fake struct {
	mu sync.Mutex

	now func() float64

	captureQueue []InputSnapshot
	captureIdx   int

	injected    []InputSnapshot
	hooksActive bool
	replayed    *InputSnapshot

	files map[string]*bytes.Buffer
	dirs  map[string]bool
	wd    string
}

// NewFake constructs a Fake platform. clock defaults to a monotonically
// increasing counter when nil.
func NewFake(clock func() float64) *Fake {
	if clock == nil {
		var counter float64
		clock = func() float64 {
			counter += 1.0 / 60.0
			return counter
		}
	}
	return &Fake{
		now:   clock,
		files: make(map[string]*bytes.Buffer),
		dirs:  make(map[string]bool),
	}
}

// QueueCapture arranges for successive CaptureInput calls to return these
// snapshots in order, then repeat the last one once the queue is exhausted.
func (f *Fake) QueueCapture(snapshots ...InputSnapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.captureQueue = append(f.captureQueue, snapshots...)
}

// CaptureInput implements Platform.
func (f *Fake) CaptureInput(out *InputSnapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.captureQueue) == 0 {
		*out = InputSnapshot{}
		return
	}
	idx := f.captureIdx
	if idx >= len(f.captureQueue) {
		idx = len(f.captureQueue) - 1
	} else {
		f.captureIdx++
	}
	*out = f.captureQueue[idx]
}

// InjectInput implements Platform; it records every injected snapshot for
// test assertions rather than touching real input queues.
func (f *Fake) InjectInput(next, prev *InputSnapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.injected = append(f.injected, *next)
}

// Injected returns a copy of every snapshot InjectInput has recorded so far.
func (f *Fake) Injected() []InputSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]InputSnapshot, len(f.injected))
	copy(out, f.injected)
	return out
}

// SetReplayHooksActive implements Platform.
func (f *Fake) SetReplayHooksActive(active bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hooksActive = active
}

// ReplayHooksActive reports the current toggle state for test assertions.
func (f *Fake) ReplayHooksActive() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hooksActive
}

// SetReplayedInput implements Platform.
func (f *Fake) SetReplayedInput(current *InputSnapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *current
	f.replayed = &clone
}

// MonotonicNow implements Platform.
func (f *Fake) MonotonicNow() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now()
}

// FileOpenWrite implements FileSystem using an in-memory buffer keyed by path.
func (f *Fake) FileOpenWrite(path string) (WriteHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	buf := &bytes.Buffer{}
	f.files[path] = buf
	return &fakeWriteHandle{buf: buf}, nil
}

// FileOpenRead implements FileSystem.
func (f *Fake) FileOpenRead(path string) (ReadHandle, error) {
	f.mu.Lock()
	buf, ok := f.files[path]
	f.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("platform: file not found: %s", path)
	}
	return &fakeReadHandle{r: bytes.NewReader(buf.Bytes())}, nil
}

// FileExists implements FileSystem.
func (f *Fake) FileExists(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.files[path]
	return ok
}

// CreateDirRecursive implements FileSystem.
func (f *Fake) CreateDirRecursive(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dirs[path] = true
	return nil
}

// SetWorkingDir implements FileSystem.
func (f *Fake) SetWorkingDir(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.wd = path
	return nil
}

// Bytes returns the current contents written to path, for test assertions.
func (f *Fake) Bytes(path string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	buf, ok := f.files[path]
	if !ok {
		return nil
	}
	return append([]byte(nil), buf.Bytes()...)
}

type fakeWriteHandle struct {
	buf *bytes.Buffer
}

func (h *fakeWriteHandle) Write(p []byte) (int, error) { return h.buf.Write(p) }
func (h *fakeWriteHandle) Close() error                { return nil }

type fakeReadHandle struct {
	r *bytes.Reader
}

func (h *fakeReadHandle) ReadAll() ([]byte, error) {
	buf, err := io.ReadAll(h.r)
	if err != nil {
		return nil, err
	}
	return buf, nil
}
func (h *fakeReadHandle) Close() error { return nil }
