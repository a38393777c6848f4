// Package toc implements the table of contents described in spec.md
// §4.7: a flat catalog of committed segments, fully replaced on every
// commit rather than mutated in place. Entry framing follows the
// teacher's section header convention (section/text_header.go,
// section/numeric_index_entry.go): fixed-width fields decoded via
// codec.Decoder/endian.EndianEngine, a magic-tagged body, and a trailing
// self-checksum — generalized from "one metric's index entries" to "the
// whole file's segment directory."
package toc

import (
	"github.com/waxmem/wax/checksum"
	"github.com/waxmem/wax/codec"
	"github.com/waxmem/wax/errs"
	"github.com/waxmem/wax/format"
)

// entrySize is the fixed on-disk size of one Entry.
const entrySize = 1 + 8 + 8 + checksum.Size // kind + offset + length + checksum

// Entry locates one committed segment within the file.
type Entry struct {
	Kind     format.SegmentKind
	Offset   uint64
	Length   uint64
	Checksum [checksum.Size]byte
}

func (e Entry) bytes(enc *codec.Encoder) {
	enc.PutU8(uint8(e.Kind))
	enc.PutU64(e.Offset)
	enc.PutU64(e.Length)
	enc.PutRawBytes(e.Checksum[:])
}

func parseEntry(dec *codec.Decoder) (Entry, error) {
	e := Entry{
		Kind:   format.SegmentKind(dec.U8()),
		Offset: dec.U64(),
		Length: dec.U64(),
	}
	copy(e.Checksum[:], dec.RawBytes(checksum.Size))
	if dec.Err() != nil {
		return Entry{}, dec.Err()
	}
	if !e.Kind.Valid() {
		return Entry{}, errs.InvalidSegment("toc_entry", "unknown segment kind")
	}
	return e, nil
}
