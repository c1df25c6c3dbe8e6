package wire

import (
	"fmt"

	"gmtrace/internal/platform"
)

// LoadFile opens path for reading, reads it fully, and decodes it. This is
// the REPLAY-mode entry point: the whole file is materialized once at Init,
// never re-read mid-run. It only needs the FileSystem half of Platform, so
// tooling that never touches input hooks (gmtreplay) can call it without
// standing up a full Platform implementation.
func LoadFile(p platform.FileSystem, path string) (*Decoded, error) {
	handle, err := p.FileOpenRead(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrIOOpen, path, err)
	}
	defer handle.Close()
	buf, err := handle.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrIORead, path, err)
	}
	return Decode(buf)
}
