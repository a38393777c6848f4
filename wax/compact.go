package wax

import (
	"github.com/waxmem/wax/compactor"
	"github.com/waxmem/wax/errs"
	"github.com/waxmem/wax/fileio"
	"github.com/waxmem/wax/footer"
	"github.com/waxmem/wax/frame"
	"github.com/waxmem/wax/headerpage"
	"github.com/waxmem/wax/toc"
	"github.com/waxmem/wax/wal"
)

// Compact runs the rewrite-and-atomic-replace algorithm SPEC_FULL.md's
// compactor supplement specifies for spec.md §4.7: every tombstoned
// frame and every superseded index/structured segment is dropped, and
// the live state is rewritten into a fresh file that atomically
// replaces the original. Compact takes the exclusive writer lease for
// its whole duration — per SPEC_FULL.md, "compaction runs under the
// same exclusive writer lease as a normal commit" — so no long-running
// embedding or ANN work may overlap it, matching spec.md §4.14's rule
// against suspending while holding the writer lease.
func (s *Store) Compact() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errs.ErrClosed
	}

	w := s.rw.AcquireWriter()
	defer w.Release()

	liveFrames := s.frames.RangeScan(func(frame.Frame) bool { return true })

	data, err := compactor.Build(compactor.Input{
		Frames:    liveFrames,
		TextIndex: s.textIdx,
		Vectors: compactor.VectorLane{
			Dim:        s.vectors.dim,
			Similarity: s.vectors.similarity,
			Vectors:    s.vectors.vectors,
			FrameIDs:   s.vectors.frameIDs,
		},
		Structured: s.structured,
		WALSize:    s.walRegion.Size,
		Generation: s.fileGeneration + 1,
	})
	if err != nil {
		return err
	}

	if err := compactor.Replace(s.path, data); err != nil {
		return err
	}

	// The old *os.File's descriptor still refers to the pre-rename
	// inode; reopen against path to pick up the replaced file and
	// re-acquire the exclusive lock on it (locks are per
	// open-file-description, not per path).
	if err := fileio.Unlock(s.file); err != nil {
		return err
	}
	if err := s.file.Close(); err != nil {
		return err
	}

	f, err := fileio.Open(s.path, false)
	if err != nil {
		return err
	}
	if err := fileio.Lock(f, fileio.LockExclusive); err != nil {
		f.Close()
		return err
	}

	s.file = f
	s.walRegion = wal.Region{Offset: uint64(headerpage.PageSize * 2), Size: s.walRegion.Size}
	s.walWriter = wal.NewWriter(f, s.walRegion, s.walRegion.Offset, s.walRegion.Offset, 0)
	s.frames = frame.NewStore(liveFrames)
	s.fileGeneration++
	s.headerPageGeneration = 1
	s.vectorsDirty = false
	s.structuredPendingCommit = false

	liveTOC, loadErr := rereadTOC(f)
	if loadErr != nil {
		return loadErr
	}
	s.toc = liveTOC

	return nil
}

// rereadTOC loads the live TOC from a file Compact just wrote, following
// the same header-page-then-footer-then-TOC chain openExisting uses —
// duplicated narrowly here since Compact already knows the layout is
// freshly written and valid, and doesn't need openExisting's footer-scan
// fallback.
func rereadTOC(f *fileio.File) (toc.TOC, error) {
	page, err := headerpage.Read(f)
	if err != nil {
		return toc.TOC{}, err
	}

	ftrBuf := make([]byte, footer.Size)
	if err := f.ReadExactlyAt(ftrBuf, int64(page.FooterOffset)); err != nil {
		return toc.TOC{}, err
	}
	ftr, err := footer.Parse(ftrBuf)
	if err != nil {
		return toc.TOC{}, errs.InvalidFooter(err.Error())
	}

	tocBuf := make([]byte, ftr.TOCLen)
	if err := f.ReadExactlyAt(tocBuf, int64(ftr.TOCOffset)); err != nil {
		return toc.TOC{}, err
	}
	liveTOC, err := toc.Parse(tocBuf)
	if err != nil {
		return toc.TOC{}, errs.InvalidTOC(err.Error())
	}
	return liveTOC, nil
}
