// Package vectorindex implements the vector lane described in spec.md
// §4.11: a fixed 36-byte segment header (magic, version, encoding,
// similarity, dim, vector_count, payload_len, 8 reserved zero bytes)
// followed by either a raw flat float32 array or an opaque ANN payload.
// The fixed-header-then-raw-columnar-body shape follows the teacher's
// blob/numeric_blob.go float storage exactly — little-endian float
// arrays with a parallel index array — generalized from "one metric's
// timestamped values" to "N embedding vectors with a parallel frame_id
// array."
package vectorindex

import (
	"github.com/waxmem/wax/codec"
	"github.com/waxmem/wax/errs"
	"github.com/waxmem/wax/format"
)

// HeaderSize is the fixed 36-byte segment header size from spec.md
// §4.11: magic(4) + version(2) + encoding(1) + similarity(1) + dim(4) +
// vector_count(8) + payload_len(8) + reserved(8).
const HeaderSize = fixedHeaderSize

// Header describes one vec_index_v1 segment.
type Header struct {
	Encoding    format.VectorEncoding
	Similarity  format.VectorSimilarity
	Dim         uint32
	VectorCount uint64
	PayloadLen  uint64
}

// fixedHeaderSize is the literal 36 bytes spec.md §4.11 specifies.
const fixedHeaderSize = 36

// Bytes serializes h into a fixedHeaderSize-byte header.
func (h Header) Bytes() []byte {
	enc := codec.NewEncoder(fixedHeaderSize)
	enc.PutRawBytes(format.MagicVecSegment[:])
	enc.PutU16(1) // version
	enc.PutU8(uint8(h.Encoding))
	enc.PutU8(uint8(h.Similarity))
	enc.PutU32(h.Dim)
	enc.PutU64(h.VectorCount)
	enc.PutU64(h.PayloadLen)
	enc.PutRawBytes(make([]byte, 8)) // reserved, must be zero

	buf := enc.Bytes()
	if len(buf) != fixedHeaderSize {
		panic("vectorindex: header encoder length drifted from the fixed 36-byte layout")
	}
	return buf
}

// ParseHeader decodes a fixedHeaderSize-byte header, rejecting non-zero
// reserved bytes per spec.md §4.11 ("Reserved bytes must be zero on
// decode").
func ParseHeader(data []byte) (Header, error) {
	if len(data) != fixedHeaderSize {
		return Header{}, errs.InvalidSegment("vec_index_v1", "wrong header size")
	}

	dec := codec.NewDecoder(data)
	magic := dec.RawBytes(4)
	if dec.Err() != nil || string(magic) != string(format.MagicVecSegment[:]) {
		return Header{}, errs.InvalidSegment("vec_index_v1", "bad magic")
	}
	_ = dec.U16() // version, not currently gating

	h := Header{
		Encoding:   format.VectorEncoding(dec.U8()),
		Similarity: format.VectorSimilarity(dec.U8()),
		Dim:        dec.U32(),
	}
	h.VectorCount = dec.U64()
	h.PayloadLen = dec.U64()
	reserved := dec.RawBytes(8)

	if err := dec.Finalize(); err != nil {
		return Header{}, err
	}
	for _, b := range reserved {
		if b != 0 {
			return Header{}, errs.InvalidSegment("vec_index_v1", "reserved bytes not zero")
		}
	}

	return h, nil
}
