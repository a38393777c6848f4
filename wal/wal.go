package wal

import (
	"github.com/waxmem/wax/errs"
	"github.com/waxmem/wax/fileio"
	"github.com/waxmem/wax/format"
)

// DefaultSize is the default WAL region size named in spec.md §6's file
// layout diagram.
const DefaultSize uint64 = 256 << 20

// Region describes the WAL's byte range within the file:
// [Offset, Offset+Size).
type Region struct {
	Offset uint64
	Size   uint64
}

// end returns the exclusive end offset of the region.
func (r Region) end() uint64 { return r.Offset + r.Size }

// Writer appends records to a Region, tracking the write cursor and the
// last-issued seq. A Writer must only be driven by the single exclusive
// writer lease (rwlock.Writer) — spec.md §4.14.
type Writer struct {
	file   *fileio.File
	region Region

	writePos      uint64
	checkpointPos uint64
	lastSeq       uint64
}

// NewWriter resumes a Writer from the position recorded in the live
// header page.
func NewWriter(f *fileio.File, region Region, writePos, checkpointPos, lastSeq uint64) *Writer {
	return &Writer{file: f, region: region, writePos: writePos, checkpointPos: checkpointPos, lastSeq: lastSeq}
}

// WritePos returns the current write cursor, to be persisted as
// wal_write_pos in the next header page write.
func (w *Writer) WritePos() uint64 { return w.writePos }

// LastSeq returns the last seq issued by Append.
func (w *Writer) LastSeq() uint64 { return w.lastSeq }

// CheckpointPos returns the position most recently passed to
// AdvanceCheckpoint, to be persisted as wal_checkpoint_pos in the next
// header page write.
func (w *Writer) CheckpointPos() uint64 { return w.checkpointPos }

// AdvanceCheckpoint records that records up to and including seq are now
// reflected in the live TOC, so their region may be reclaimed on a future
// wrap. Called by the commit protocol (spec.md §4.7 step 5) after the
// new TOC and footer are durable.
func (w *Writer) AdvanceCheckpoint(pos uint64) {
	w.checkpointPos = pos
}

// Append writes one record to the log and fsyncs, returning its seq.
// Per spec.md §5 ("Cancellation"), the caller must have all body bytes
// ready before calling Append — there is no partial-record commit; a
// cancelled caller must not call Append at all.
func (w *Writer) Append(kind format.WALRecordKind, body []byte) (uint64, error) {
	seq := w.lastSeq + 1
	rec, err := NewRecord(seq, w.lastSeq, kind, body)
	if err != nil {
		return 0, err
	}

	pos, err := w.reserve(rec.TotalLen())
	if err != nil {
		return 0, err
	}

	buf := make([]byte, 0, rec.TotalLen())
	buf = append(buf, rec.Header.Bytes()...)
	buf = append(buf, rec.Body...)

	if err := w.file.WriteAllAt(buf, int64(pos)); err != nil {
		return 0, err
	}
	if err := w.file.Fsync(); err != nil {
		return 0, err
	}

	w.writePos = pos + uint64(rec.TotalLen())
	w.lastSeq = seq

	return seq, nil
}

// reserve finds the offset to write a record of the given length,
// wrapping to the start of the region if it doesn't fit before the end
// and the checkpoint has advanced enough to leave room at the start, per
// spec.md §4.6's wrap-around rule.
func (w *Writer) reserve(recordLen int64) (uint64, error) {
	if w.writePos+uint64(recordLen) <= w.region.end() {
		return w.writePos, nil
	}

	// Doesn't fit before the end of the region: wrap, but only if the
	// reclaimed area [region.Offset, checkpointPos) has room for it.
	if w.region.Offset+uint64(recordLen) > w.checkpointPos {
		return 0, errs.IO("wal region full: no checkpointed space to wrap into", nil)
	}

	return w.region.Offset, nil
}

// Replayer scans a Region forward from a checkpoint position, verifying
// the hash chain record by record and stopping at the first break — the
// torn-tail discard spec.md §4.6 describes as "expected, not fatal."
type Replayer struct {
	file   *fileio.File
	region Region
}

func NewReplayer(f *fileio.File, region Region) *Replayer {
	return &Replayer{file: f, region: region}
}

// Result is the outcome of a Replay call.
type Result struct {
	// Committed holds records with seq <= committedSeq: their
	// side-effects are already reflected in the live TOC, but they are
	// still returned so callers can sanity-check continuity.
	Committed []Record
	// Uncommitted holds records with seq > committedSeq: their
	// side-effects must be replayed into an in-memory staging view,
	// visible to readers only after the next successful commit.
	Uncommitted []Record
	// TornSeq is set if replay stopped early because of a broken hash
	// chain; everything from TornSeq onward was discarded.
	TornSeq *uint64
	// TailPos is the first unused byte offset after the last verified
	// record — the position a subsequent Writer should resume appending
	// from.
	TailPos uint64
}

// Replay implements the five-step procedure in spec.md §4.6.
func (r *Replayer) Replay(checkpointPos, committedSeq uint64) (Result, error) {
	res := Result{TailPos: checkpointPos}

	pos := checkpointPos
	expectedPrev := uint64(0)
	if checkpointPos != r.region.Offset {
		// Resuming mid-region: the prev_seq chain is only checkable
		// starting from the very first record in the region; mid-region
		// resumes trust the stored committedSeq as the prior link.
		expectedPrev = committedSeq
	}

	for {
		if pos+uint64(HeaderSize) > r.region.end() {
			break
		}

		hdrBuf := make([]byte, HeaderSize)
		if err := r.file.ReadExactlyAt(hdrBuf, int64(pos)); err != nil {
			break
		}

		hdr, err := ParseRecordHeader(hdrBuf)
		if err != nil {
			break
		}
		if hdr.Seq == 0 && hdr.PrevSeq == 0 && hdr.BodyLen == 0 {
			// Unwritten tail region (zero-filled): nothing more to replay.
			break
		}

		bodyBuf := make([]byte, hdr.BodyLen)
		if hdr.BodyLen > 0 {
			if err := r.file.ReadExactlyAt(bodyBuf, int64(pos)+int64(HeaderSize)); err != nil {
				break
			}
		}

		rec := Record{Header: hdr, Body: bodyBuf}
		if err := rec.Verify(expectedPrev); err != nil {
			seq := hdr.Seq
			res.TornSeq = &seq
			break
		}

		if hdr.Seq <= committedSeq {
			res.Committed = append(res.Committed, rec)
		} else {
			res.Uncommitted = append(res.Uncommitted, rec)
		}

		expectedPrev = hdr.Seq
		pos += uint64(rec.TotalLen())
		res.TailPos = pos
	}

	return res, nil
}
