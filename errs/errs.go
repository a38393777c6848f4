// Package errs defines the error taxonomy shared across the store: a small
// set of sentinel kinds, plus typed wrappers for the kinds that carry a
// parameter (an offset, a segment kind, a WAL seq). Callers match kinds
// with errors.Is/errors.As, never by string comparison.
package errs

import (
	"errors"
	"fmt"
)

// Sentinel errors for kinds that carry no parameters.
var (
	// ErrLocked is returned when opening read-write while another process
	// holds the exclusive file lock.
	ErrLocked = errors.New("locked: file is exclusively locked by another process")

	// ErrCancelled is returned when a caller-supplied context is cancelled
	// before an operation's WAL record is appended.
	ErrCancelled = errors.New("cancelled")

	// ErrCorruptedHeader is returned when both twin header pages fail
	// self-checksum verification and no valid footer can reconstruct.
	ErrCorruptedHeader = errors.New("corrupted_header: both header pages invalid")

	// ErrInvalidHeaderSize is returned when a header page is not exactly
	// the fixed 4 KiB size.
	ErrInvalidHeaderSize = errors.New("io: invalid header page size")

	// ErrNotFound is returned when a frame_id, fact_row_id, or entity key
	// does not resolve to a live row.
	ErrNotFound = errors.New("not found")

	// ErrClosed is returned by any operation issued after Close.
	ErrClosed = errors.New("store is closed")

	// ErrReadOnly is returned when a mutating operation is attempted on a
	// store opened in read-only (shared-lock) mode.
	ErrReadOnly = errors.New("io: store opened read-only")
)

// IOError wraps any disk or lock failure that is plausibly transient
// (short read/write, fsync failure, I/O error from the OS).
type IOError struct {
	Reason string
	Err    error
}

func (e *IOError) Error() string { return fmt.Sprintf("io: %s", e.Reason) }
func (e *IOError) Unwrap() error { return e.Err }

func IO(reason string, cause error) error {
	return &IOError{Reason: reason, Err: cause}
}

// InvalidFooterError is returned when the footer scanner finds no
// candidate whose TOC hash verifies.
type InvalidFooterError struct {
	Reason string
}

func (e *InvalidFooterError) Error() string {
	return fmt.Sprintf("invalid_footer: %s", e.Reason)
}

func InvalidFooter(reason string) error {
	return &InvalidFooterError{Reason: reason}
}

// InvalidTOCError is returned when a TOC's trailing checksum doesn't match
// its body, or the TOC exceeds the configured size bound.
type InvalidTOCError struct {
	Reason string
}

func (e *InvalidTOCError) Error() string {
	return fmt.Sprintf("invalid_toc: %s", e.Reason)
}

func InvalidTOC(reason string) error {
	return &InvalidTOCError{Reason: reason}
}

// InvalidSegmentError is returned when a segment body's checksum,
// magic, or version does not match what the TOC entry or segment header
// claims.
type InvalidSegmentError struct {
	Kind   string
	Reason string
}

func (e *InvalidSegmentError) Error() string {
	return fmt.Sprintf("invalid_segment(%s): %s", e.Kind, e.Reason)
}

func InvalidSegment(kind, reason string) error {
	return &InvalidSegmentError{Kind: kind, Reason: reason}
}

// WALTornError is returned by replay when a torn tail is detected and
// discarded; it is informational, not fatal — callers may continue once
// the discard is logged.
type WALTornError struct {
	Seq uint64
}

func (e *WALTornError) Error() string {
	return fmt.Sprintf("wal_torn(seq=%d): replay stopped, tail discarded", e.Seq)
}

func WALTorn(seq uint64) error {
	return &WALTornError{Seq: seq}
}

// EncodingError is returned when a user-supplied value is rejected by the
// binary codec (non-finite float, oversized string/blob, a qualifier hash
// that isn't exactly 32 bytes, a count that exceeds a decoder bound).
type EncodingError struct {
	Reason string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encoding_error: %s", e.Reason)
}

func Encoding(reason string) error {
	return &EncodingError{Reason: reason}
}

// OffsetError annotates any of the above with the file offset and length
// involved, per §7's "every error message includes ... the offending
// offset/length when applicable."
type OffsetError struct {
	Offset int64
	Length int64
	Err    error
}

func (e *OffsetError) Error() string {
	return fmt.Sprintf("%s [offset=%d length=%d]", e.Err, e.Offset, e.Length)
}

func (e *OffsetError) Unwrap() error { return e.Err }

func AtOffset(err error, offset, length int64) error {
	return &OffsetError{Offset: offset, Length: length, Err: err}
}
