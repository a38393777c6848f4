package compress

import "github.com/waxmem/wax/errs"

// NoOpCodec bypasses compression entirely, for payloads the frame store
// has already decided are too small to benefit (see the frame policy in
// spec.md §4.9: lzfse if payload ≥ 512 B, else none).
type NoOpCodec struct{}

var _ Codec = (*NoOpCodec)(nil)

func NewNoOpCodec() NoOpCodec { return NoOpCodec{} }

func (c NoOpCodec) Compress(data []byte) ([]byte, error) {
	return data, nil
}

func (c NoOpCodec) Decompress(data []byte, uncompressedLen int) ([]byte, error) {
	if len(data) != uncompressedLen {
		return nil, errs.IO("decompressed size mismatch for none codec", nil)
	}
	return data, nil
}
