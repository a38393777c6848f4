package textindex

import (
	"github.com/waxmem/wax/codec"
	"github.com/waxmem/wax/format"
	"github.com/waxmem/wax/internal/idhash"
	"github.com/waxmem/wax/segment"
)

// Encode serializes the full live index into one text_index_v1 segment
// body. spec.md §4.10 permits multiple segments with lazy merge on open;
// this store always writes the whole live index as a single segment on
// each flush and relies on the compactor to reclaim superseded ones,
// the same full-replace discipline toc.TOC uses.
func (ix *Index) Encode() []byte {
	enc := codec.NewEncoder(1024)
	enc.PutU64(uint64(len(ix.postings)))
	for _, pl := range ix.postings {
		enc.PutString(pl.token)
		enc.PutU64(uint64(len(pl.postings)))
		for _, p := range pl.postings {
			enc.PutU64(p.FrameID)
			enc.PutU32(p.TF)
		}
	}

	enc.PutU64(uint64(len(ix.frameLength)))
	for frameID, length := range ix.frameLength {
		enc.PutU64(frameID)
		enc.PutU64(uint64(length))
	}
	enc.PutU64(uint64(ix.docCount))

	return segment.Wrap(format.MagicTextIndexSegment, enc.Bytes())
}

// Decode parses a text_index_v1 segment produced by Encode, rebuilding
// the postings map and the per-frame length table.
func Decode(data []byte) (*Index, error) {
	body, err := segment.Unwrap(data, format.MagicTextIndexSegment)
	if err != nil {
		return nil, err
	}

	dec := codec.NewDecoder(body)
	ix := New()

	tokenCount := dec.Count()
	for i := uint64(0); i < tokenCount; i++ {
		tok := dec.String()
		n := dec.Count()
		pl := &postingsList{token: tok, postings: make([]Posting, 0, n)}
		for j := uint64(0); j < n; j++ {
			pl.postings = append(pl.postings, Posting{FrameID: dec.U64(), TF: dec.U32()})
		}
		if dec.Err() != nil {
			return nil, dec.Err()
		}
		ix.postings[idhash.ID(tok)] = pl
	}

	lenCount := dec.Count()
	for i := uint64(0); i < lenCount; i++ {
		frameID := dec.U64()
		length := dec.U64()
		ix.frameLength[frameID] = int(length)
	}
	ix.docCount = int(dec.U64())

	if err := dec.Finalize(); err != nil {
		return nil, err
	}

	return ix, nil
}
