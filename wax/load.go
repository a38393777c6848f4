package wax

import (
	"github.com/waxmem/wax/checksum"
	"github.com/waxmem/wax/errs"
	"github.com/waxmem/wax/fileio"
	"github.com/waxmem/wax/format"
	"github.com/waxmem/wax/frame"
	"github.com/waxmem/wax/structured"
	"github.com/waxmem/wax/textindex"
	"github.com/waxmem/wax/toc"
	"github.com/waxmem/wax/vectorindex"
)

// loadSegments reads every segment named by t and rebuilds the four
// in-memory stores from them. Frame pages accumulate across flushes
// (spec.md §4.9's append-only discipline), so every frame_page entry is
// decoded and merged; the other three kinds are always written whole on
// each flush, so only the most recent entry of each kind (the last one
// in catalog order) is live.
func loadSegments(f *fileio.File, t toc.TOC) (*frame.Store, *textindex.Index, vectorState, *structured.Store, error) {
	var frames []frame.Frame
	for _, e := range t.BySegmentKind(format.SegmentFramePage) {
		data, err := readAndVerify(f, e)
		if err != nil {
			return nil, nil, vectorState{}, nil, err
		}
		page, err := frame.DecodePage(data)
		if err != nil {
			return nil, nil, vectorState{}, nil, err
		}
		frames = append(frames, page...)
	}
	frameStore := frame.NewStore(frames)

	textIdx := textindex.New()
	if entries := t.BySegmentKind(format.SegmentTextIndexV1); len(entries) > 0 {
		data, err := readAndVerify(f, entries[len(entries)-1])
		if err != nil {
			return nil, nil, vectorState{}, nil, err
		}
		textIdx, err = textindex.Decode(data)
		if err != nil {
			return nil, nil, vectorState{}, nil, err
		}
	}

	var vecState vectorState
	if entries := t.BySegmentKind(format.SegmentVecIndexV1); len(entries) > 0 {
		data, err := readAndVerify(f, entries[len(entries)-1])
		if err != nil {
			return nil, nil, vectorState{}, nil, err
		}
		seg, err := vectorindex.Parse(data)
		if err != nil {
			return nil, nil, vectorState{}, nil, err
		}
		vecState.dim = seg.Header.Dim
		vecState.similarity = seg.Header.Similarity
		if seg.Flat != nil {
			vecState.vectors = seg.Flat.Vectors
			vecState.frameIDs = seg.Flat.FrameIDs
		}
	}

	structuredStore := structured.New()
	if entries := t.BySegmentKind(format.SegmentStructuredSnapshotV1); len(entries) > 0 {
		data, err := readAndVerify(f, entries[len(entries)-1])
		if err != nil {
			return nil, nil, vectorState{}, nil, err
		}
		structuredStore, err = structured.Decode(data)
		if err != nil {
			return nil, nil, vectorState{}, nil, err
		}
	}

	return frameStore, textIdx, vecState, structuredStore, nil
}

// readAndVerify reads the bytes a TOC entry names and checks them
// against its whole-segment SHA-256, independent of whatever
// self-checksum the segment's own framing carries internally.
func readAndVerify(f *fileio.File, e toc.Entry) ([]byte, error) {
	buf := make([]byte, e.Length)
	if err := f.ReadExactlyAt(buf, int64(e.Offset)); err != nil {
		return nil, errs.AtOffset(err, int64(e.Offset), int64(e.Length))
	}
	if !checksum.Verify(buf, e.Checksum) {
		return nil, errs.InvalidSegment(e.Kind.String(), "toc checksum mismatch")
	}
	return buf, nil
}
