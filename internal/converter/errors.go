package converter

import "errors"

// Every failure the pipeline reports wraps one of these, so callers can
// branch with errors.Is while still showing the full message.
var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrMalformedInput    = errors.New("malformed input")
	ErrUnknownColumn     = errors.New("unknown column")
	ErrEncoding          = errors.New("encoding error")
)
