package fits

import "fmt"

// IoError wraps a read/seek failure from the underlying byte source,
// including a premature EOF encountered mid-element. A premature EOF
// mid-card is reported as MalformedCardError instead.
type IoError struct {
	Offset int64
	Err    error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("fits: io failure at offset %d: %v", e.Offset, e.Err)
}

func (e *IoError) Unwrap() error { return e.Err }

// MalformedCardError reports an 80-byte card that violates the
// fixed-format rules (unterminated string, truncated block, ...).
type MalformedCardError struct {
	Offset int64
	Reason string
}

func (e *MalformedCardError) Error() string {
	return fmt.Sprintf("fits: malformed card at offset %d: %s", e.Offset, e.Reason)
}

// MalformedHeaderError reports a missing or out-of-order mandatory card.
type MalformedHeaderError struct {
	Reason string
}

func (e *MalformedHeaderError) Error() string {
	return fmt.Sprintf("fits: malformed header: %s", e.Reason)
}

// UnsupportedFeatureError is surfaced the first time the caller relies on
// a feature this library never implements (HIERARCH, H-compress, PLiO,
// writing, random access on a non-seekable source, ...).
type UnsupportedFeatureError struct {
	Feature string
}

func (e *UnsupportedFeatureError) Error() string {
	return fmt.Sprintf("fits: unsupported feature: %s", e.Feature)
}

// OutOfRangeError reports a pixel/row/heap index past the declared extent.
type OutOfRangeError struct {
	Reason string
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("fits: out of range: %s", e.Reason)
}

// DecompressionError reports an invalid tile-compression parameter, a
// truncated compressed stream, or a checksum mismatch.
type DecompressionError struct {
	Reason string
	Err    error
}

func (e *DecompressionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fits: decompression failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("fits: decompression failed: %s", e.Reason)
}

func (e *DecompressionError) Unwrap() error { return e.Err }

// WarningKind classifies a non-fatal condition encountered while parsing.
type WarningKind int

const (
	// WarnUncoercibleValue marks a value card whose numeric-looking value
	// could not be parsed and was retained as a raw string instead.
	WarnUncoercibleValue WarningKind = iota
	// WarnTrailingGarbage marks unused trailing bytes in a decompressed
	// tile's VLA, or padding left unread at the end of a data unit.
	WarnTrailingGarbage
)

func (k WarningKind) String() string {
	switch k {
	case WarnUncoercibleValue:
		return "uncoercible-value"
	case WarnTrailingGarbage:
		return "trailing-garbage"
	default:
		return "unknown"
	}
}

// Warning is a non-fatal condition. Warnings never alter control flow;
// they are delivered best-effort on the channel registered with
// HduStream.SetWarnings, if any.
type Warning struct {
	Kind    WarningKind
	Message string
	Offset  int64
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s (offset %d)", w.Kind, w.Message, w.Offset)
}

// emitWarning delivers a warning on ch without blocking the caller when
// nobody is listening.
func emitWarning(ch chan<- Warning, kind WarningKind, offset int64, format string, args ...interface{}) {
	if ch == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	select {
	case ch <- Warning{Kind: kind, Message: msg, Offset: offset}:
	default:
	}
}
