package codec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	enc := NewEncoder(64)
	enc.PutU8(0xAB)
	enc.PutU16(0x1234)
	enc.PutU32(0xDEADBEEF)
	enc.PutU64(0x0102030405060708)
	enc.PutI64(-42)
	enc.PutF64(3.14159)
	enc.PutBytes([]byte("payload"))
	enc.PutString("hello, wax")
	enc.PutRawBytes([]byte{0x01, 0x02, 0x03})

	dec := NewDecoder(enc.Bytes())
	require.Equal(t, uint8(0xAB), dec.U8())
	require.Equal(t, uint16(0x1234), dec.U16())
	require.Equal(t, uint32(0xDEADBEEF), dec.U32())
	require.Equal(t, uint64(0x0102030405060708), dec.U64())
	require.Equal(t, int64(-42), dec.I64())
	require.Equal(t, 3.14159, dec.F64())
	require.Equal(t, []byte("payload"), dec.Bytes())
	require.Equal(t, "hello, wax", dec.String())
	require.Equal(t, []byte{0x01, 0x02, 0x03}, dec.RawBytes(3))
	require.NoError(t, dec.Finalize())
}

func TestCanonicalFloat64NormalizesNegativeZero(t *testing.T) {
	require.Equal(t, float64(0), CanonicalFloat64(math.Copysign(0, -1)))
	require.Equal(t, 1.5, CanonicalFloat64(1.5))
}

func TestCheckFloat64RejectsNonFinite(t *testing.T) {
	require.Error(t, CheckFloat64(math.NaN()))
	require.Error(t, CheckFloat64(math.Inf(1)))
	require.Error(t, CheckFloat64(math.Inf(-1)))
	require.NoError(t, CheckFloat64(0))
	require.NoError(t, CheckFloat64(-12.5))
}

func TestDecoderShortReadSticky(t *testing.T) {
	dec := NewDecoder([]byte{0x01, 0x02})
	_ = dec.U64() // needs 8 bytes, only 2 available
	require.Error(t, dec.Err())

	// Once an error is recorded, further reads must be no-ops, not panics.
	require.Equal(t, uint8(0), dec.U8())
	require.Equal(t, "", dec.String())
	require.Error(t, dec.Finalize())
}

func TestFinalizeDetectsTrailingBytes(t *testing.T) {
	enc := NewEncoder(8)
	enc.PutU32(1)
	dec := NewDecoder(append(enc.Bytes(), 0xFF, 0xFF, 0xFF, 0xFF))
	_ = dec.U32()
	require.Error(t, dec.Finalize())
}

func TestBoundsRejectOversizedString(t *testing.T) {
	enc := NewEncoder(16)
	enc.PutU64(100)
	enc.PutRawBytes(make([]byte, 100))

	dec := NewDecoderWithBounds(enc.Bytes(), Bounds{MaxStringBytes: 10})
	_ = dec.String()
	require.Error(t, dec.Err())
}

func TestBoundsRejectOversizedBlob(t *testing.T) {
	enc := NewEncoder(16)
	enc.PutU64(100)
	enc.PutRawBytes(make([]byte, 100))

	dec := NewDecoderWithBounds(enc.Bytes(), Bounds{MaxBlobBytes: 10})
	_ = dec.Bytes()
	require.Error(t, dec.Err())
}

func TestBoundsRejectOversizedCount(t *testing.T) {
	enc := NewEncoder(8)
	enc.PutU64(1000)

	dec := NewDecoderWithBounds(enc.Bytes(), Bounds{MaxArrayCount: 10})
	_ = dec.Count()
	require.Error(t, dec.Err())
}

func TestDecoderRejectsNonFiniteFloat(t *testing.T) {
	enc := NewEncoder(8)
	enc.PutU64(math.Float64bits(math.NaN()))

	dec := NewDecoder(enc.Bytes())
	_ = dec.F64()
	require.Error(t, dec.Err())
}

func TestDefaultBoundsMatchSpec(t *testing.T) {
	b := DefaultBounds()
	require.Equal(t, uint64(16<<20), b.MaxStringBytes)
	require.Equal(t, uint64(256<<20), b.MaxBlobBytes)
	require.Equal(t, uint64(10_000_000), b.MaxArrayCount)
	require.Equal(t, uint64(1_000_000), b.MaxEmbeddingDim)
	require.Equal(t, uint64(64<<20), b.MaxTOCBytes)
	require.Equal(t, uint64(32<<20), b.MaxFooterScanDistance)
}
