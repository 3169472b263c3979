package model

import "errors"

// Codec error kinds. Readers wrap these with line context via fmt.Errorf
// and %w; callers dispatch with errors.Is. Malformed text never becomes
// valid through retry, so none of these are retried internally.
var (
	// ErrFormatMismatch: the header token is not recognized by the
	// selected codec at all.
	ErrFormatMismatch = errors.New("format mismatch")

	// ErrTruncated: a declared count exceeds the lines actually present.
	ErrTruncated = errors.New("truncated input")

	// ErrOutOfRange: a face or edge references a vertex index at or past
	// the declared vertex count.
	ErrOutOfRange = errors.New("vertex index out of range")

	// ErrMalformedRecord: wrong token arity or an unparsable number.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrUnsupportedVariant: a recognized but wrong-variant header, such
	// as an animated file fed to the single-frame codec.
	ErrUnsupportedVariant = errors.New("unsupported format variant")
)
