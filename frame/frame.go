// Package frame implements the append-only content store described in
// spec.md §4.9: frames are appended to frame pages, optionally
// compressed, content-verified by the SHA-256 of their uncompressed
// payload, and logically deleted with a tombstone rather than a physical
// rewrite. Record framing borrows the teacher's fixed-header-plus-
// variable-body shape (section/text_header.go + its index entries) but
// generalizes "one metric's text values" to "one opaque payload with
// scalar metadata," composed from codec, compress, and checksum the same
// way vectorindex and structured are.
package frame

import (
	"github.com/waxmem/wax/checksum"
	"github.com/waxmem/wax/codec"
	"github.com/waxmem/wax/compress"
	"github.com/waxmem/wax/errs"
	"github.com/waxmem/wax/format"
	"github.com/waxmem/wax/internal/pool"
)

// CompressionThreshold is the payload size, in bytes, at or above which
// append selects the lzfse codec instead of none, per spec.md §4.9.
const CompressionThreshold = 512

// MetadataValueKind discriminates the scalar types a frame's metadata
// map may hold.
type MetadataValueKind uint8

const (
	MetaString  MetadataValueKind = 0x1
	MetaInt64   MetadataValueKind = 0x2
	MetaFloat64 MetadataValueKind = 0x3
	MetaBool    MetadataValueKind = 0x4
)

// MetadataValue is one scalar value in a frame's metadata map.
type MetadataValue struct {
	Kind MetadataValueKind
	Str  string
	I64  int64
	F64  float64
	Bool bool
}

// Frame is the unit of stored content, per spec.md §3.
type Frame struct {
	FrameID            uint64
	Kind               format.FrameKind
	PayloadBytes       []byte // decompressed; populated by Get, consumed by append's caller
	Compression        format.CompressionType
	UncompressedLength uint32
	Metadata           map[string]MetadataValue
	CreatedAtMs        int64
	EmbeddingDim       uint32 // 0 if no embedding
	EmbeddingOffset    uint64 // index of this frame's vector in the vector segment's flat array, valid iff EmbeddingDim != 0
	PayloadSHA256      [checksum.Size]byte
	// TombstoneOf is non-zero when Kind is format.FrameTombstone,
	// naming the frame_id this tombstone logically deletes.
	TombstoneOf uint64
}

// selectCompression applies spec.md §4.9's per-frame policy: lzfse for
// payloads at or above CompressionThreshold, none otherwise.
func selectCompression(payloadLen int) format.CompressionType {
	if payloadLen >= CompressionThreshold {
		return format.CompressionLZFSE
	}
	return format.CompressionNone
}

// Encode builds the on-disk record for f, compressing PayloadBytes per
// selectCompression and computing PayloadSHA256 over the uncompressed
// bytes. It mutates f.Compression, f.UncompressedLength, and
// f.PayloadSHA256 to match what was actually written.
func Encode(f *Frame) ([]byte, error) {
	uncompressed := f.PayloadBytes
	f.UncompressedLength = uint32(len(uncompressed))
	f.PayloadSHA256 = checksum.Sum256(uncompressed)
	f.Compression = selectCompression(len(uncompressed))

	codecImpl, err := compress.GetCodec(f.Compression)
	if err != nil {
		return nil, err
	}
	compressed, err := codecImpl.Compress(uncompressed)
	if err != nil {
		return nil, err
	}

	// Scratch buffer comes from the frame buffer pool rather than a fresh
	// allocation: Encode runs once per append, so reusing the backing
	// array across calls avoids a grow-and-discard cycle on the hot path.
	bb := pool.GetFrameBuffer()
	enc := codec.NewEncoderWithBuf(bb.B)
	enc.PutU64(f.FrameID)
	enc.PutU8(uint8(f.Kind))
	enc.PutU8(uint8(f.Compression))
	enc.PutU32(f.UncompressedLength)
	enc.PutI64(f.CreatedAtMs)
	enc.PutU32(f.EmbeddingDim)
	enc.PutU64(f.EmbeddingOffset)
	enc.PutU64(f.TombstoneOf)
	enc.PutRawBytes(f.PayloadSHA256[:])
	encodeMetadata(enc, f.Metadata)
	enc.PutBytes(compressed)

	raw := enc.Bytes()
	out := make([]byte, len(raw))
	copy(out, raw)
	bb.B = raw
	pool.PutFrameBuffer(bb)

	return out, nil
}

// Decode parses one frame record previously produced by Encode,
// decompressing the payload and verifying it against PayloadSHA256.
func Decode(data []byte) (Frame, int, error) {
	dec := codec.NewDecoder(data)
	// Decoder.Finalize enforces "no trailing bytes," which doesn't apply
	// here (a frame page holds many records back to back), so Decode
	// tracks consumed length itself and checks Err() directly.
	f := Frame{}
	f.FrameID = dec.U64()
	f.Kind = format.FrameKind(dec.U8())
	f.Compression = format.CompressionType(dec.U8())
	f.UncompressedLength = dec.U32()
	f.CreatedAtMs = dec.I64()
	f.EmbeddingDim = dec.U32()
	f.EmbeddingOffset = dec.U64()
	f.TombstoneOf = dec.U64()
	copy(f.PayloadSHA256[:], dec.RawBytes(checksum.Size))

	meta, err := decodeMetadata(dec)
	if err != nil {
		return Frame{}, 0, err
	}
	f.Metadata = meta

	compressed := dec.Bytes()
	if dec.Err() != nil {
		return Frame{}, 0, dec.Err()
	}

	codecImpl, err := compress.GetCodec(f.Compression)
	if err != nil {
		return Frame{}, 0, err
	}
	payload, err := codecImpl.Decompress(compressed, int(f.UncompressedLength))
	if err != nil {
		return Frame{}, 0, err
	}
	if !checksum.Verify(payload, f.PayloadSHA256) {
		return Frame{}, 0, errs.InvalidSegment("frame", "payload sha256 mismatch")
	}
	f.PayloadBytes = payload

	return f, dec.Pos(), nil
}

func encodeMetadata(enc *codec.Encoder, m map[string]MetadataValue) {
	enc.PutU64(uint64(len(m)))
	for k, v := range m {
		enc.PutString(k)
		enc.PutU8(uint8(v.Kind))
		switch v.Kind {
		case MetaString:
			enc.PutString(v.Str)
		case MetaInt64:
			enc.PutI64(v.I64)
		case MetaFloat64:
			enc.PutF64(v.F64)
		case MetaBool:
			b := uint8(0)
			if v.Bool {
				b = 1
			}
			enc.PutU8(b)
		}
	}
}

func decodeMetadata(dec *codec.Decoder) (map[string]MetadataValue, error) {
	count := dec.Count()
	m := make(map[string]MetadataValue, count)
	for i := uint64(0); i < count; i++ {
		key := dec.String()
		kind := MetadataValueKind(dec.U8())
		v := MetadataValue{Kind: kind}
		switch kind {
		case MetaString:
			v.Str = dec.String()
		case MetaInt64:
			v.I64 = dec.I64()
		case MetaFloat64:
			v.F64 = dec.F64()
		case MetaBool:
			v.Bool = dec.U8() != 0
		default:
			return nil, errs.Encoding("unknown metadata value kind")
		}
		if dec.Err() != nil {
			return nil, dec.Err()
		}
		m[key] = v
	}
	return m, nil
}
