package archive

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"

	"gmtrace/internal/wire"
)

// CompressTestFile reads the raw test file at srcPath and writes a
// zstd-compressed copy to dstPath (conventionally srcPath+".zst"). The
// source file is left untouched; callers decide when, if ever, to remove
// it via Cleaner.
func CompressTestFile(srcPath, dstPath string) error {
	raw, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("archive: read %s: %w", srcPath, err)
	}
	out, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("archive: create %s: %w", dstPath, err)
	}
	enc, err := zstd.NewWriter(out)
	if err != nil {
		out.Close()
		return fmt.Errorf("archive: zstd writer: %w", err)
	}
	if _, err := enc.Write(raw); err != nil {
		enc.Close()
		out.Close()
		return fmt.Errorf("archive: zstd write: %w", err)
	}
	if err := enc.Close(); err != nil {
		out.Close()
		return fmt.Errorf("archive: zstd close: %w", err)
	}
	return out.Close()
}

// jsonRecord is one line of a DumpHumanReadable export.
type jsonRecord struct {
	Kind      string  `json:"kind"`
	Timestamp float64 `json:"timestamp,omitempty"`
	SignalID  int32   `json:"signal_id,omitempty"`
	Key       uint32  `json:"key,omitempty"`
	Index     uint32  `json:"index,omitempty"`
	PayloadSz int     `json:"payload_bytes,omitempty"`
}

// DumpHumanReadable decodes a test file and writes one JSON object per
// line (frame/signal/pin/track) to a snappy-compressed file at dstPath, for
// ad-hoc inspection with zcat-like tooling rather than gmtreplay itself.
func DumpHumanReadable(decoded *wire.Decoded, dstPath string) error {
	out, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("archive: create %s: %w", dstPath, err)
	}
	stream := snappy.NewBufferedWriter(out)

	enc := json.NewEncoder(stream)
	write := func(rec jsonRecord) error {
		return enc.Encode(rec)
	}

	var writeErr error
	for _, f := range decoded.Frames {
		if writeErr = write(jsonRecord{Kind: "frame", Timestamp: f.TimestampSeconds}); writeErr != nil {
			break
		}
	}
	if writeErr == nil {
		for _, s := range decoded.Signals {
			if writeErr = write(jsonRecord{Kind: "signal", Timestamp: s.TimestampSeconds, SignalID: s.SignalID}); writeErr != nil {
				break
			}
		}
	}
	if writeErr == nil {
		for _, p := range decoded.Pins {
			if writeErr = write(jsonRecord{Kind: "pin", Key: p.Key, Index: p.SequentialIndex, PayloadSz: len(p.Payload)}); writeErr != nil {
				break
			}
		}
	}
	if writeErr == nil {
		for _, t := range decoded.Tracks {
			if writeErr = write(jsonRecord{Kind: "track", Key: t.Key, Index: t.SequentialIndex, PayloadSz: len(t.Payload)}); writeErr != nil {
				break
			}
		}
	}

	if writeErr != nil {
		stream.Close()
		out.Close()
		return fmt.Errorf("archive: jsonl encode: %w", writeErr)
	}
	if err := stream.Close(); err != nil {
		out.Close()
		return fmt.Errorf("archive: snappy close: %w", err)
	}
	return out.Close()
}
