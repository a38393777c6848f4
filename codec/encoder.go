package codec

import (
	"math"

	"github.com/waxmem/wax/endian"
	"github.com/waxmem/wax/errs"
)

// Encoder appends little-endian primitives to a growing byte buffer. It
// mirrors the teacher's `Parse`/`Bytes` idiom (section.NumericHeader) but
// as a reusable cursor instead of one bespoke method pair per struct.
type Encoder struct {
	engine endian.EndianEngine
	buf    []byte
}

// NewEncoder creates an Encoder writing little-endian, growing buf from
// the given capacity hint.
func NewEncoder(capHint int) *Encoder {
	return &Encoder{
		engine: endian.GetLittleEndianEngine(),
		buf:    make([]byte, 0, capHint),
	}
}

// NewEncoderWithBuf creates an Encoder that writes into buf[:0], reusing
// buf's backing array instead of allocating a fresh one. Callers that
// pull buf from a pool should read Bytes() back into the same pooled
// slot (it may have grown) before returning the buffer to the pool.
func NewEncoderWithBuf(buf []byte) *Encoder {
	return &Encoder{
		engine: endian.GetLittleEndianEngine(),
		buf:    buf[:0],
	}
}

// Bytes returns the encoded buffer. The returned slice is owned by the
// caller; the Encoder must not be reused after calling Bytes.
func (e *Encoder) Bytes() []byte { return e.buf }

// Len returns the number of bytes written so far.
func (e *Encoder) Len() int { return len(e.buf) }

func (e *Encoder) PutU8(v uint8) { e.buf = append(e.buf, v) }

func (e *Encoder) PutU16(v uint16) { e.buf = e.engine.AppendUint16(e.buf, v) }

func (e *Encoder) PutU32(v uint32) { e.buf = e.engine.AppendUint32(e.buf, v) }

func (e *Encoder) PutU64(v uint64) { e.buf = e.engine.AppendUint64(e.buf, v) }

func (e *Encoder) PutI64(v int64) { e.buf = e.engine.AppendUint64(e.buf, uint64(v)) }

// PutF64 encodes v canonically: -0.0 is normalized to 0.0. Non-finite
// values (NaN, ±Inf) are rejected by the caller via CheckFloat64
// before reaching here; PutF64 itself does not re-check, to keep the hot
// path allocation-free.
func (e *Encoder) PutF64(v float64) {
	e.buf = e.engine.AppendUint64(e.buf, math.Float64bits(CanonicalFloat64(v)))
}

// PutRawBytes appends raw bytes with no length prefix.
func (e *Encoder) PutRawBytes(b []byte) { e.buf = append(e.buf, b...) }

// PutBytes appends a u64 length prefix followed by b.
func (e *Encoder) PutBytes(b []byte) {
	e.PutU64(uint64(len(b)))
	e.buf = append(e.buf, b...)
}

// PutString appends a u64 length prefix followed by the UTF-8 bytes of s.
func (e *Encoder) PutString(s string) {
	e.PutU64(uint64(len(s)))
	e.buf = append(e.buf, s...)
}

// CanonicalFloat64 normalizes -0.0 to 0.0 and returns every other value
// unchanged, per spec.md §4.1's canonical f64 form. It does not check for
// non-finite values; CheckFloat64 does that.
func CanonicalFloat64(v float64) float64 {
	if v == 0 {
		return 0
	}
	return v
}

// CheckFloat64 returns an encoding_error if v is not finite.
func CheckFloat64(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errs.Encoding("non-finite float64 value rejected")
	}
	return nil
}
