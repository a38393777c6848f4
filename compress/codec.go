// Package compress provides the four compression codecs spec.md §4.3
// requires for frame and segment payloads: none, lzfse, lz4, deflate.
//
// The interface shape mirrors the teacher's (mebo) compress package —
// Compressor/Decompressor/Codec, a factory keyed by a format enum — but
// Decompress here takes the caller-supplied uncompressed length, since
// the format stores it separately (frame.UncompressedLength) and decode
// must fail if the decompressed size doesn't match exactly.
package compress

import (
	"fmt"
	"math"

	"github.com/waxmem/wax/errs"
	"github.com/waxmem/wax/format"
)

// Compressor compresses a payload that has already been through whatever
// framing the caller needs (frame payload bytes, a segment body, etc).
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor decompresses data previously produced by the matching
// Compressor. uncompressedLen must equal the original input length;
// Decompress returns an error if the actual decoded size differs.
type Decompressor interface {
	Decompress(data []byte, uncompressedLen int) ([]byte, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
}

// outputCap computes the deterministic output buffer cap from spec.md
// §4.3: max(input+128, input*4), saturating against int overflow.
func outputCap(inputLen int) int {
	plus128 := inputLen + 128
	times4 := inputLen * 4
	if inputLen > math.MaxInt/4 { // guard the multiply from overflowing
		times4 = math.MaxInt
	}
	if times4 < plus128 {
		return plus128
	}
	return times4
}

// checkFit returns an io error if encoded exceeds the deterministic cap
// for inputLen, per spec.md §4.3's "encode fails ... if it cannot fit."
func checkFit(inputLen, encodedLen int) error {
	cap := outputCap(inputLen)
	if encodedLen > cap {
		return errs.IO(fmt.Sprintf("compression failed: output did not fit within cap %d bytes", cap), nil)
	}
	return nil
}

// CreateCodec constructs a Codec for the given compression kind.
func CreateCodec(kind format.CompressionType, target string) (Codec, error) {
	switch kind {
	case format.CompressionNone:
		return NewNoOpCodec(), nil
	case format.CompressionLZFSE:
		return NewLZFSECodec(), nil
	case format.CompressionLZ4:
		return NewLZ4Codec(), nil
	case format.CompressionDeflate:
		return NewDeflateCodec(), nil
	default:
		return nil, fmt.Errorf("invalid %s compression: %s", target, kind)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone:    NewNoOpCodec(),
	format.CompressionLZFSE:   NewLZFSECodec(),
	format.CompressionLZ4:     NewLZ4Codec(),
	format.CompressionDeflate: NewDeflateCodec(),
}

// GetCodec retrieves a shared built-in Codec for the given compression kind.
func GetCodec(kind format.CompressionType) (Codec, error) {
	if c, ok := builtinCodecs[kind]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("unsupported compression type: %s", kind)
}
