package wire

import "errors"

// Sentinel error kinds, matching the error-kind list the propagation table
// keys off of. Callers compare with errors.Is; the wrapped error (via %w)
// carries the offending path, tag, or size for diagnostics.
var (
	ErrIOOpen          = errors.New("wire: io open failed")
	ErrIORead          = errors.New("wire: io read failed")
	ErrIOWrite         = errors.New("wire: io write failed")
	ErrBadMagic        = errors.New("wire: bad magic")
	ErrBadVersion      = errors.New("wire: bad version")
	ErrFileTruncated   = errors.New("wire: file truncated")
	ErrUnknownTag      = errors.New("wire: unknown tag")
	ErrPayloadTooLarge = errors.New("wire: payload exceeds MaxDataPayload")
)
