// Package segment implements the common self-described slab framing
// spec.md §3 requires of every segment kind: "begins with its own magic,
// version, body length, and trailing SHA-256." vec_index_v1 defines its
// own fixed 36-byte header (package vectorindex) because spec.md §4.11
// pins its exact layout; frame_page, text_index_v1, and
// structured_snapshot_v1 share this generic wrapper instead, following
// the teacher's magic+fields+checksum convention
// (section/text_header.go) generalized to "any byte body," the same
// generalization toc and footer already make for their own framing.
package segment

import (
	"github.com/waxmem/wax/checksum"
	"github.com/waxmem/wax/codec"
	"github.com/waxmem/wax/errs"
	"github.com/waxmem/wax/format"
	"github.com/waxmem/wax/internal/pool"
)

// headerSize is the fixed prefix before the body: magic + version + body
// length.
const headerSize = 4 + 2 + 8

// Wrap frames body with magic, format.SpecVersion, a length prefix, and
// a trailing SHA-256 over body. The scratch buffer comes from the
// segment buffer pool: every commit rewrites a full TOC plus one
// segment per dirty index, so reusing the backing array across those
// Wrap calls avoids a grow-and-discard cycle per commit.
func Wrap(magic [4]byte, body []byte) []byte {
	bb := pool.GetSegmentBuffer()
	enc := codec.NewEncoderWithBuf(bb.B)
	enc.PutRawBytes(magic[:])
	enc.PutU16(format.SpecVersion)
	enc.PutU64(uint64(len(body)))
	enc.PutRawBytes(body)

	sum := checksum.Sum256(body)
	enc.PutRawBytes(sum[:])

	raw := enc.Bytes()
	out := make([]byte, len(raw))
	copy(out, raw)
	bb.B = raw
	pool.PutSegmentBuffer(bb)

	return out
}

// Unwrap validates magic and the trailing checksum, returning the body.
// The returned slice aliases data; callers that retain it past data's
// lifetime must copy.
func Unwrap(data []byte, wantMagic [4]byte) ([]byte, error) {
	if len(data) < headerSize+checksum.Size {
		return nil, errs.InvalidSegment(string(wantMagic[:]), "segment too short")
	}

	dec := codec.NewDecoder(data[:headerSize])
	magic := dec.RawBytes(4)
	if dec.Err() != nil || string(magic) != string(wantMagic[:]) {
		return nil, errs.InvalidSegment(string(wantMagic[:]), "bad magic")
	}
	_ = dec.U16() // version, not currently gating
	bodyLen := dec.U64()
	if err := dec.Err(); err != nil {
		return nil, err
	}

	if headerSize+bodyLen+uint64(checksum.Size) != uint64(len(data)) {
		return nil, errs.InvalidSegment(string(wantMagic[:]), "body_len does not match segment size")
	}

	body := data[headerSize : headerSize+bodyLen]
	var gotSum [checksum.Size]byte
	copy(gotSum[:], data[headerSize+bodyLen:])
	if !checksum.Verify(body, gotSum) {
		return nil, errs.InvalidSegment(string(wantMagic[:]), "body checksum mismatch")
	}

	return body, nil
}
