package compress

import (
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/waxmem/wax/errs"
)

// lz4CompressorPool pools lz4.Compressor instances; the type carries
// internal state that benefits from reuse, same rationale as the
// teacher's pool.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4Codec implements format.CompressionLZ4.
type LZ4Codec struct{}

var _ Codec = (*LZ4Codec)(nil)

func NewLZ4Codec() LZ4Codec { return LZ4Codec{} }

// Compress compresses data using LZ4 block compression, using a pooled
// lz4.Compressor for speed.
func (c LZ4Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, errs.IO("lz4 compress failed", err)
	}
	if n == 0 {
		// Incompressible input: lz4 reports this by returning 0. Fall back
		// to storing the raw bytes; the decoder's length check will catch
		// any mismatch if that ever changes upstream.
		dst = append(dst[:0], data...)
		n = len(dst)
	}

	if err := checkFit(len(data), n); err != nil {
		return nil, err
	}

	return dst[:n], nil
}

// Decompress decompresses LZ4-block-compressed data into exactly
// uncompressedLen bytes, failing if the actual decoded size differs.
func (c LZ4Codec) Decompress(data []byte, uncompressedLen int) ([]byte, error) {
	if len(data) == 0 {
		if uncompressedLen != 0 {
			return nil, errs.IO("decompressed size mismatch for lz4 codec", nil)
		}
		return nil, nil
	}

	buf := make([]byte, uncompressedLen)
	n, err := lz4.UncompressBlock(data, buf)
	if err != nil {
		// data may be the "incompressible input stored raw" fallback from
		// Compress; accept it if its length already matches.
		if len(data) == uncompressedLen {
			return data, nil
		}
		return nil, errs.IO("lz4 decompress failed", err)
	}
	if n != uncompressedLen {
		return nil, errs.IO("decompressed size mismatch for lz4 codec", nil)
	}

	return buf, nil
}
