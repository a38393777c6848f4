package codec

import (
	"fmt"
	"math"

	"github.com/waxmem/wax/endian"
	"github.com/waxmem/wax/errs"
)

// Decoder reads little-endian primitives from a fixed byte slice,
// enforcing the configured Bounds on every length-prefixed read. Decode
// methods return only the decoded value, not the number of bytes they
// consumed — callers track position via Pos()/Remaining() — and the
// Decoder records the first error so subsequent calls become no-ops; the
// caller checks Err() or calls Finalize() once at the end.
type Decoder struct {
	engine endian.EndianEngine
	buf    []byte
	pos    int
	bounds Bounds
	err    error
}

// NewDecoder creates a Decoder over buf with the default Bounds.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{engine: endian.GetLittleEndianEngine(), buf: buf, bounds: DefaultBounds()}
}

// NewDecoderWithBounds creates a Decoder over buf with custom Bounds.
func NewDecoderWithBounds(buf []byte, bounds Bounds) *Decoder {
	return &Decoder{engine: endian.GetLittleEndianEngine(), buf: buf, bounds: bounds}
}

// Pos returns the current read cursor.
func (d *Decoder) Pos() int { return d.pos }

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int { return len(d.buf) - d.pos }

// Err returns the first error encountered, if any.
func (d *Decoder) Err() error { return d.err }

// Finalize returns Err() if set, otherwise an encoding_error if trailing
// bytes remain unconsumed. Every decode call site must invoke Finalize
// once decoding is believed complete.
func (d *Decoder) Finalize() error {
	if d.err != nil {
		return d.err
	}
	if d.pos != len(d.buf) {
		return errs.Encoding(fmt.Sprintf("trailing bytes after decode: %d unread", len(d.buf)-d.pos))
	}
	return nil
}

func (d *Decoder) need(n int) bool {
	if d.err != nil {
		return false
	}
	if d.pos+n > len(d.buf) {
		d.err = errs.Encoding(fmt.Sprintf("short read: need %d bytes, have %d", n, len(d.buf)-d.pos))
		return false
	}
	return true
}

func (d *Decoder) U8() uint8 {
	if !d.need(1) {
		return 0
	}
	v := d.buf[d.pos]
	d.pos++
	return v
}

func (d *Decoder) U16() uint16 {
	if !d.need(2) {
		return 0
	}
	v := d.engine.Uint16(d.buf[d.pos : d.pos+2])
	d.pos += 2
	return v
}

func (d *Decoder) U32() uint32 {
	if !d.need(4) {
		return 0
	}
	v := d.engine.Uint32(d.buf[d.pos : d.pos+4])
	d.pos += 4
	return v
}

func (d *Decoder) U64() uint64 {
	if !d.need(8) {
		return 0
	}
	v := d.engine.Uint64(d.buf[d.pos : d.pos+8])
	d.pos += 8
	return v
}

func (d *Decoder) I64() int64 {
	return int64(d.U64())
}

// F64 decodes a float64 and rejects non-finite values, matching the
// round-trip invariant in spec.md §8 (NaN/±Inf rejected on decode).
func (d *Decoder) F64() float64 {
	bits := d.U64()
	if d.err != nil {
		return 0
	}
	v := math.Float64frombits(bits)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		d.err = errs.Encoding("decoded non-finite float64")
		return 0
	}
	return v
}

// RawBytes reads exactly n raw bytes with no length prefix.
func (d *Decoder) RawBytes(n int) []byte {
	if !d.need(n) {
		return nil
	}
	v := d.buf[d.pos : d.pos+n]
	d.pos += n
	return v
}

// Bytes reads a u64-length-prefixed byte slice, bounded by MaxBlobBytes.
// The returned slice aliases the Decoder's backing array; callers that
// need to retain it past the Decoder's lifetime must copy.
func (d *Decoder) Bytes() []byte {
	n := d.U64()
	if d.err != nil {
		return nil
	}
	if n > d.bounds.MaxBlobBytes {
		d.err = errs.Encoding(fmt.Sprintf("blob length %d exceeds bound %d", n, d.bounds.MaxBlobBytes))
		return nil
	}
	return d.RawBytes(int(n))
}

// String reads a u64-length-prefixed UTF-8 string, bounded by
// MaxStringBytes.
func (d *Decoder) String() string {
	n := d.U64()
	if d.err != nil {
		return ""
	}
	if n > d.bounds.MaxStringBytes {
		d.err = errs.Encoding(fmt.Sprintf("string length %d exceeds bound %d", n, d.bounds.MaxStringBytes))
		return ""
	}
	b := d.RawBytes(int(n))
	if d.err != nil {
		return ""
	}
	return string(b)
}

// Count reads a u64 array count bounded by MaxArrayCount, for fields like
// TOC entry count or postings-list length that precede a repeated group.
func (d *Decoder) Count() uint64 {
	n := d.U64()
	if d.err != nil {
		return 0
	}
	if n > d.bounds.MaxArrayCount {
		d.err = errs.Encoding(fmt.Sprintf("array count %d exceeds bound %d", n, d.bounds.MaxArrayCount))
		return 0
	}
	return n
}
