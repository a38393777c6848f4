package wax

import (
	"github.com/waxmem/wax/checksum"
	"github.com/waxmem/wax/footer"
	"github.com/waxmem/wax/format"
	"github.com/waxmem/wax/frame"
	"github.com/waxmem/wax/headerpage"
	"github.com/waxmem/wax/toc"
)

// Flush durably commits every staged write: it writes new segment
// bodies, appends a new TOC and footer, fsyncs, then rewrites the twin
// header pages and fsyncs again — the exact sequence spec.md §4.7
// mandates for crash consistency. A crash at any point before the final
// fsync leaves the previous commit (still named by at least one valid
// header page, or recoverable via the footer scanner) intact.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.rw.AcquireWriter()
	defer w.Release()

	staged := s.frames.Staged()
	if len(staged) == 0 && !s.structuredDirty() && !s.vectorsDirty {
		return nil
	}

	entries := make([]toc.Entry, 0, len(s.toc.Entries)+4)
	for _, e := range s.toc.Entries {
		if e.Kind == format.SegmentFramePage {
			entries = append(entries, e)
		}
	}

	writeOffset := uint64(0)
	if sz, err := s.file.Size(); err == nil {
		writeOffset = uint64(sz)
	} else {
		return err
	}

	if len(staged) > 0 {
		body, err := frame.EncodePage(staged)
		if err != nil {
			return err
		}
		entry, newOffset, err := s.writeSegment(format.SegmentFramePage, body, writeOffset)
		if err != nil {
			return err
		}
		entries = append(entries, entry)
		writeOffset = newOffset
	}

	textBody := s.textIdx.Encode()
	textEntry, writeOffset, err := s.writeSegment(format.SegmentTextIndexV1, textBody, writeOffset)
	if err != nil {
		return err
	}
	entries = append(entries, textEntry)

	if len(s.vectors.vectors) > 0 {
		seg, err := vectorSegmentFor(s.vectors)
		if err != nil {
			return err
		}
		vecEntry, newOffset, err := s.writeSegment(format.SegmentVecIndexV1, seg.Bytes(), writeOffset)
		if err != nil {
			return err
		}
		entries = append(entries, vecEntry)
		writeOffset = newOffset
	}

	structBody := s.structured.Encode()
	structEntry, writeOffset, err := s.writeSegment(format.SegmentStructuredSnapshotV1, structBody, writeOffset)
	if err != nil {
		return err
	}
	entries = append(entries, structEntry)

	newTOC := toc.TOC{Entries: entries}
	tocBytes := newTOC.Bytes()
	tocOffset := writeOffset
	if err := s.file.WriteAllAt(tocBytes, int64(tocOffset)); err != nil {
		return err
	}
	writeOffset += uint64(len(tocBytes))

	nextGeneration := s.fileGeneration + 1
	ftr := footer.Footer{
		Generation:      nextGeneration,
		TOCOffset:       tocOffset,
		TOCLen:          uint64(len(tocBytes)),
		TOCSha256:       newTOC.Checksum(),
		WALCommittedSeq: s.walWriter.LastSeq(),
	}
	footerOffset := writeOffset
	if err := s.file.WriteAllAt(ftr.Bytes(), int64(footerOffset)); err != nil {
		return err
	}
	if err := s.file.Fsync(); err != nil {
		return err
	}

	page := headerpage.Page{
		HeaderPageGeneration: s.headerPageGeneration + 1,
		FileGeneration:       nextGeneration,
		FooterOffset:         footerOffset,
		WALOffset:            s.walRegion.Offset,
		WALSize:              s.walRegion.Size,
		WALWritePos:          s.walWriter.WritePos(),
		WALCheckpointPos:     s.walWriter.WritePos(),
		WALCommittedSeq:      s.walWriter.LastSeq(),
		TOCChecksum:          newTOC.Checksum(),
	}
	if err := headerpage.Write(s.file, page); err != nil {
		return err
	}

	s.walWriter.AdvanceCheckpoint(page.WALWritePos)
	s.frames.Publish()
	s.structured.CommitStaged()
	s.vectorsDirty = false
	s.toc = newTOC
	s.fileGeneration = nextGeneration
	s.headerPageGeneration = page.HeaderPageGeneration

	w.Publish(nil)
	return nil
}

// writeSegment wraps body into a self-described segment, writes it at
// offset, and returns the TOC entry naming it plus the next free offset.
func (s *Store) writeSegment(kind format.SegmentKind, body []byte, offset uint64) (toc.Entry, uint64, error) {
	if err := s.file.WriteAllAt(body, int64(offset)); err != nil {
		return toc.Entry{}, 0, err
	}
	return toc.Entry{
		Kind:     kind,
		Offset:   offset,
		Length:   uint64(len(body)),
		Checksum: checksum.Sum256(body),
	}, offset + uint64(len(body)), nil
}

func (s *Store) structuredDirty() bool {
	return s.structuredPendingCommit
}
