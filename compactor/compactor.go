// Package compactor implements the rewrite-and-atomic-replace algorithm
// SPEC_FULL.md's "compact()" supplement spells out for spec.md §4.7's
// "a compactor that rewrites the file into a fresh layout when
// fragmentation exceeds a threshold": read the live TOC, rewrite only
// live (non-tombstoned) frames and the current index/structured
// snapshots into a fresh file built alongside the original, then
// atomically replace it with github.com/natefinch/atomic so a crash
// mid-rewrite never corrupts the live file. Compaction runs under the
// same exclusive writer lease a normal commit does — there is no
// separate compactor lock.
package compactor

import (
	"bytes"

	atomicfile "github.com/natefinch/atomic"

	"github.com/waxmem/wax/checksum"
	"github.com/waxmem/wax/footer"
	"github.com/waxmem/wax/format"
	"github.com/waxmem/wax/frame"
	"github.com/waxmem/wax/headerpage"
	"github.com/waxmem/wax/structured"
	"github.com/waxmem/wax/textindex"
	"github.com/waxmem/wax/toc"
	"github.com/waxmem/wax/vectorindex"
	"github.com/waxmem/wax/wal"
)

// VectorLane is the live in-memory vector state a compaction rewrites
// into a fresh flat segment — the same shape the orchestrator keeps for
// the vector lane, duplicated here so compactor has no import-cycle back
// to package wax.
type VectorLane struct {
	Dim        uint32
	Similarity format.VectorSimilarity
	Vectors    [][]float32
	FrameIDs   []uint64
}

// Input is everything a compaction needs: the live (already
// tombstone-filtered) frames, and the current in-memory index/structured
// state, each of which is rewritten whole rather than merged with
// whatever stale segments the original file still carries.
type Input struct {
	Frames     []frame.Frame
	TextIndex  *textindex.Index
	Vectors    VectorLane
	Structured *structured.Store
	WALSize    uint64
	Generation uint64 // the file_generation the rewritten file should carry
}

// Build serializes in into the complete bytes of a fresh MV2S file:
// twin header pages, an empty WAL region of WALSize bytes, one
// frame_page segment holding only live frames, a whole-state text index
// segment, a whole-state vector segment (only if any vectors are
// present), a whole-state structured snapshot segment, a TOC, and a
// footer — the same layout Open's createFresh path writes for a brand
// new file, generalized to start from non-empty state.
func Build(in Input) ([]byte, error) {
	walRegion := wal.Region{Offset: uint64(headerpage.PageSize * 2), Size: in.WALSize}

	buf := make([]byte, walRegion.Offset+walRegion.Size)

	entries := make([]toc.Entry, 0, 4)
	offset := uint64(len(buf))

	framePtrs := make([]*frame.Frame, len(in.Frames))
	for i := range in.Frames {
		f := in.Frames[i]
		framePtrs[i] = &f
	}
	if len(framePtrs) > 0 {
		body, err := frame.EncodePage(framePtrs)
		if err != nil {
			return nil, err
		}
		entries = append(entries, writeSegment(&buf, format.SegmentFramePage, body, &offset))
	}

	textBody := in.TextIndex.Encode()
	entries = append(entries, writeSegment(&buf, format.SegmentTextIndexV1, textBody, &offset))

	if len(in.Vectors.Vectors) > 0 {
		seg, err := vectorindex.BuildFlat(in.Vectors.Similarity, in.Vectors.Dim, in.Vectors.Vectors, in.Vectors.FrameIDs, false)
		if err != nil {
			return nil, err
		}
		entries = append(entries, writeSegment(&buf, format.SegmentVecIndexV1, seg.Bytes(), &offset))
	}

	structBody := in.Structured.Encode()
	entries = append(entries, writeSegment(&buf, format.SegmentStructuredSnapshotV1, structBody, &offset))

	newTOC := toc.TOC{Entries: entries}
	tocBytes := newTOC.Bytes()
	tocOffset := offset
	buf = append(buf, tocBytes...)
	offset += uint64(len(tocBytes))

	ftr := footer.Footer{
		Generation:      in.Generation,
		TOCOffset:       tocOffset,
		TOCLen:          uint64(len(tocBytes)),
		TOCSha256:       newTOC.Checksum(),
		WALCommittedSeq: 0,
	}
	footerOffset := offset
	buf = append(buf, ftr.Bytes()...)

	page := headerpage.Page{
		HeaderPageGeneration: 1,
		FileGeneration:       in.Generation,
		FooterOffset:         footerOffset,
		WALOffset:            walRegion.Offset,
		WALSize:              walRegion.Size,
		WALWritePos:          walRegion.Offset,
		WALCheckpointPos:     walRegion.Offset,
		WALCommittedSeq:      0,
		TOCChecksum:          newTOC.Checksum(),
	}
	pageBytes := page.Bytes()
	copy(buf[headerpage.OffsetA:headerpage.OffsetA+headerpage.PageSize], pageBytes)
	copy(buf[headerpage.OffsetB:headerpage.OffsetB+headerpage.PageSize], pageBytes)

	return buf, nil
}

// writeSegment appends body to buf at *offset, returning the TOC entry
// that names it and advancing *offset past it.
func writeSegment(buf *[]byte, kind format.SegmentKind, body []byte, offset *uint64) toc.Entry {
	entry := toc.Entry{
		Kind:     kind,
		Offset:   *offset,
		Length:   uint64(len(body)),
		Checksum: checksum.Sum256(body),
	}
	*buf = append(*buf, body...)
	*offset += uint64(len(body))
	return entry
}

// Replace atomically overwrites the file at path with data, using
// natefinch/atomic's write-to-temp-then-rename so a crash mid-write
// leaves the previous, still-valid file in place — the same guarantee
// every MV2S commit gets from fsync-before-header-rewrite, applied here
// at the whole-file granularity a compaction rewrite operates at.
func Replace(path string, data []byte) error {
	return atomicfile.WriteFile(path, bytes.NewReader(data))
}
