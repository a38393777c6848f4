// Package headerpage implements the twin 4 KiB header pages spec.md §3
// and §4.5 describe: a fixed-layout record written at offsets 0x0000 and
// 0x1000, each independently checksummed, selected on open by the higher
// header_page_generation among the pages that pass their own checksum.
//
// The fixed-size struct with Parse/Bytes methods follows the teacher's
// section.NumericHeader convention exactly (magic + packed fields +
// trailing checksum, decoded via endian.EndianEngine) — only the field
// set and page size differ.
package headerpage

import (
	"github.com/waxmem/wax/checksum"
	"github.com/waxmem/wax/codec"
	"github.com/waxmem/wax/errs"
	"github.com/waxmem/wax/format"
)

// PageSize is the fixed size of each header page on disk.
const PageSize = 4096

// Offsets of page A and page B within the file.
const (
	OffsetA int64 = 0x0000
	OffsetB int64 = 0x1000
)

// bodySize is the number of meaningful bytes before the trailing
// self-checksum; everything from bodySize+checksum.Size to PageSize is
// zero padding.
const bodySize = 4 + 2 + 2 + 8*8 + checksum.Size // magic+version+reserved+8 u64 fields+toc checksum

// Page is the decoded form of one header page.
type Page struct {
	HeaderPageGeneration uint64
	FileGeneration       uint64
	FooterOffset         uint64
	WALOffset            uint64
	WALSize              uint64
	WALWritePos          uint64
	WALCheckpointPos     uint64
	WALCommittedSeq      uint64
	TOCChecksum          [checksum.Size]byte
}

// Bytes serializes p into a PageSize-byte page, including its own
// self-checksum over everything preceding it.
func (p *Page) Bytes() []byte {
	enc := codec.NewEncoder(PageSize)
	enc.PutRawBytes(format.MagicHeader[:])
	enc.PutU16(format.SpecVersion)
	enc.PutU16(0) // reserved
	enc.PutU64(p.HeaderPageGeneration)
	enc.PutU64(p.FileGeneration)
	enc.PutU64(p.FooterOffset)
	enc.PutU64(p.WALOffset)
	enc.PutU64(p.WALSize)
	enc.PutU64(p.WALWritePos)
	enc.PutU64(p.WALCheckpointPos)
	enc.PutU64(p.WALCommittedSeq)
	enc.PutRawBytes(p.TOCChecksum[:])

	body := enc.Bytes()
	sum := checksum.Sum256(body)

	page := make([]byte, PageSize)
	copy(page, body)
	copy(page[bodySize:], sum[:])

	return page
}

// Parse decodes a PageSize-byte page, verifying its magic and
// self-checksum. Callers that need to pick between page A and B should
// call Parse on both and apply the selection rule in Select.
func Parse(data []byte) (Page, error) {
	if len(data) != PageSize {
		return Page{}, errs.ErrInvalidHeaderSize
	}

	body := data[:bodySize]
	wantSum := checksum.Sum256(body)
	var gotSum [checksum.Size]byte
	copy(gotSum[:], data[bodySize:bodySize+checksum.Size])
	if wantSum != gotSum {
		return Page{}, errs.InvalidSegment("header_page", "self-checksum mismatch")
	}

	dec := codec.NewDecoder(body)
	magic := dec.RawBytes(4)
	if dec.Err() != nil || string(magic) != string(format.MagicHeader[:]) {
		return Page{}, errs.InvalidSegment("header_page", "bad magic")
	}
	_ = dec.U16() // spec version, not currently gating
	_ = dec.U16() // reserved

	p := Page{
		HeaderPageGeneration: dec.U64(),
		FileGeneration:       dec.U64(),
		FooterOffset:         dec.U64(),
		WALOffset:            dec.U64(),
		WALSize:              dec.U64(),
		WALWritePos:          dec.U64(),
		WALCheckpointPos:     dec.U64(),
		WALCommittedSeq:      dec.U64(),
	}
	copy(p.TOCChecksum[:], dec.RawBytes(checksum.Size))

	if err := dec.Finalize(); err != nil {
		return Page{}, err
	}

	return p, nil
}

// Candidate is a parsed page together with whether it passed Parse.
type Candidate struct {
	Page  Page
	Valid bool
}

// Select applies spec.md §4.5's selection rule: the valid page with the
// higher generation wins; ties (including "both equal") are broken by
// page A. If neither page is valid, ok is false and the caller must fall
// back to the footer scanner (spec.md §4.8).
func Select(a, b Candidate) (Page, bool) {
	switch {
	case a.Valid && b.Valid:
		if b.Page.HeaderPageGeneration > a.Page.HeaderPageGeneration {
			return b.Page, true
		}
		return a.Page, true
	case a.Valid:
		return a.Page, true
	case b.Valid:
		return b.Page, true
	default:
		return Page{}, false
	}
}
