package toc

import (
	"github.com/waxmem/wax/checksum"
	"github.com/waxmem/wax/codec"
	"github.com/waxmem/wax/errs"
	"github.com/waxmem/wax/format"
)

// magicTOC tags a TOC body so the footer scanner (package footer) can
// distinguish it from neighboring segment bytes during backward scans.
var magicTOC = [4]byte{'M', 'V', '2', 'T'}

// TOC is the full segment catalog in effect after a commit. A new commit
// builds an entirely new TOC; nothing is patched in place, per spec.md
// §4.7 ("a new TOC fully replaces the old one").
type TOC struct {
	Entries []Entry
}

// Bytes serializes t, including its own trailing SHA-256 over the body —
// the same checksum the footer's toc_sha256 field is checked against.
func (t TOC) Bytes() []byte {
	enc := codec.NewEncoder(4 + 8 + len(t.Entries)*entrySize)
	enc.PutRawBytes(magicTOC[:])
	enc.PutU64(uint64(len(t.Entries)))
	for _, e := range t.Entries {
		e.bytes(enc)
	}

	body := enc.Bytes()
	sum := checksum.Sum256(body)
	return append(body, sum[:]...)
}

// Checksum returns the SHA-256 that Bytes appends to the body, computed
// by serializing t with Bytes — used by the commit path to populate the
// footer's toc_sha256 field from the same bytes it is about to write.
func (t TOC) Checksum() [checksum.Size]byte {
	b := t.Bytes()
	var sum [checksum.Size]byte
	copy(sum[:], b[len(b)-checksum.Size:])
	return sum
}

// Parse decodes a TOC previously produced by Bytes, verifying its magic
// and trailing checksum.
func Parse(data []byte) (TOC, error) {
	if len(data) < 4+8+checksum.Size {
		return TOC{}, errs.InvalidTOC("toc too short")
	}

	body := data[:len(data)-checksum.Size]
	wantSum := checksum.Sum256(body)
	var gotSum [checksum.Size]byte
	copy(gotSum[:], data[len(data)-checksum.Size:])
	if wantSum != gotSum {
		return TOC{}, errs.InvalidTOC("checksum mismatch")
	}

	dec := codec.NewDecoderWithBounds(body, codec.DefaultBounds())
	magic := dec.RawBytes(4)
	if dec.Err() != nil || string(magic) != string(magicTOC[:]) {
		return TOC{}, errs.InvalidTOC("bad magic")
	}

	count := dec.Count()
	entries := make([]Entry, 0, count)
	for i := uint64(0); i < count; i++ {
		e, err := parseEntry(dec)
		if err != nil {
			return TOC{}, errs.InvalidTOC(err.Error())
		}
		entries = append(entries, e)
	}

	if err := dec.Finalize(); err != nil {
		return TOC{}, errs.InvalidTOC(err.Error())
	}

	return TOC{Entries: entries}, nil
}

// BySegmentKind returns every entry of the given kind, in catalog order.
func (t TOC) BySegmentKind(kind format.SegmentKind) []Entry {
	var out []Entry
	for _, e := range t.Entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}
