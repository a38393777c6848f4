package wax

import (
	"sync"

	"github.com/google/uuid"

	"github.com/waxmem/wax/errs"
	"github.com/waxmem/wax/fileio"
	"github.com/waxmem/wax/footer"
	"github.com/waxmem/wax/format"
	"github.com/waxmem/wax/frame"
	"github.com/waxmem/wax/headerpage"
	"github.com/waxmem/wax/internal/logging"
	"github.com/waxmem/wax/internal/options"
	"github.com/waxmem/wax/rwlock"
	"github.com/waxmem/wax/structured"
	"github.com/waxmem/wax/textindex"
	"github.com/waxmem/wax/toc"
	"github.com/waxmem/wax/wal"
)

// vectorState is the live in-memory vector lane: every embedding known
// to the store, rebuilt into one flat segment on each Flush. Wax has no
// usearch binding (see DESIGN.md), so this is always the flat encoding.
type vectorState struct {
	dim        uint32
	similarity format.VectorSimilarity
	vectors    [][]float32
	frameIDs   []uint64
}

// Store is the open handle to one MV2S file: the orchestrator from
// spec.md §4.13. All mutating operations and Flush are serialized by mu;
// Read-only operations (Search, GetFacts, GetEdges, Stats) take
// the read lock, matching spec.md §4.14's single-writer/multi-reader
// model. The on-disk commit protocol additionally takes the rwlock.RW
// writer lease so the concurrency model documented in spec.md §9 (an
// atomically-published immutable view) is the one exercised during
// commit, even though the in-memory indexes themselves are guarded here
// by a conventional RWMutex rather than full copy-on-write snapshots.
type Store struct {
	mu sync.RWMutex

	file      *fileio.File
	path      string
	sessionID string
	cfg       *Config
	log       *logging.Logger
	rw        *rwlock.RW

	walRegion wal.Region
	walWriter *wal.Writer

	toc toc.TOC

	frames     *frame.Store
	textIdx    *textindex.Index
	vectors    vectorState
	structured *structured.Store

	fileGeneration       uint64
	headerPageGeneration uint64
	closed               bool

	// vectorsDirty and structuredPendingCommit track whether Flush has
	// anything new to write for the vector lane / structured store
	// beyond whatever new frames are staged, since neither has its own
	// staged-item slice the way frame.Store does.
	vectorsDirty            bool
	structuredPendingCommit bool
}

// Open opens (or creates) an MV2S file at path and returns a ready Store.
func Open(path string, opts ...Option) (*Store, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	f, err := fileio.Open(path, true)
	if err != nil {
		return nil, err
	}
	if err := fileio.Lock(f, fileio.LockExclusive); err != nil {
		f.Close()
		return nil, err
	}

	size, err := f.Size()
	if err != nil {
		f.Close()
		return nil, err
	}

	var s *Store
	if size == 0 {
		s, err = createFresh(f, cfg)
	} else {
		s, err = openExisting(f, cfg)
	}
	if err != nil {
		fileio.Unlock(f)
		f.Close()
		return nil, err
	}

	s.path = path
	s.sessionID = uuid.NewString()
	return s, nil
}

// walOffsetDefault is the fixed WAL start offset: two header pages.
const walOffsetDefault = uint64(headerpage.PageSize * 2)

func createFresh(f *fileio.File, cfg *Config) (*Store, error) {
	walRegion := wal.Region{Offset: walOffsetDefault, Size: cfg.WALSize}

	if err := f.Truncate(int64(walRegion.Offset + walRegion.Size)); err != nil {
		return nil, err
	}

	emptyTOC := toc.TOC{}
	tocBytes := emptyTOC.Bytes()
	tocOffset := walRegion.Offset + walRegion.Size

	if err := f.WriteAllAt(tocBytes, int64(tocOffset)); err != nil {
		return nil, err
	}

	ftr := footer.Footer{
		Generation:      1,
		TOCOffset:       tocOffset,
		TOCLen:          uint64(len(tocBytes)),
		TOCSha256:       emptyTOC.Checksum(),
		WALCommittedSeq: 0,
	}
	footerOffset := tocOffset + uint64(len(tocBytes))
	if err := f.WriteAllAt(ftr.Bytes(), int64(footerOffset)); err != nil {
		return nil, err
	}
	if err := f.Fsync(); err != nil {
		return nil, err
	}

	page := headerpage.Page{
		HeaderPageGeneration: 1,
		FileGeneration:       1,
		FooterOffset:         footerOffset,
		WALOffset:            walRegion.Offset,
		WALSize:              walRegion.Size,
		WALWritePos:          walRegion.Offset,
		WALCheckpointPos:     walRegion.Offset,
		WALCommittedSeq:      0,
		TOCChecksum:          emptyTOC.Checksum(),
	}
	if err := headerpage.Write(f, page); err != nil {
		return nil, err
	}

	s := &Store{
		file:                 f,
		cfg:                  cfg,
		log:                  logging.Named(cfg.Logger, "wax"),
		walRegion:            walRegion,
		toc:                  emptyTOC,
		frames:               frame.NewStore(nil),
		textIdx:              textindex.New(),
		structured:           structured.New(),
		fileGeneration:       1,
		headerPageGeneration: 1,
	}
	s.walWriter = wal.NewWriter(f, walRegion, page.WALWritePos, page.WALCheckpointPos, page.WALCommittedSeq)
	s.rw = rwlock.New(noopHolder{})
	return s, nil
}

func openExisting(f *fileio.File, cfg *Config) (*Store, error) {
	page, err := headerpage.Read(f)
	walRegion := wal.Region{}
	var tocOffset, tocLen uint64
	var tocChecksum [32]byte
	var generation, committedSeq, walCheckpointPos uint64

	if err == nil {
		walRegion = wal.Region{Offset: page.WALOffset, Size: page.WALSize}
		walCheckpointPos = page.WALCheckpointPos
		ftrBuf := make([]byte, footer.Size)
		if ferr := f.ReadExactlyAt(ftrBuf, int64(page.FooterOffset)); ferr == nil {
			if ftr, perr := footer.Parse(ftrBuf); perr == nil {
				tocOffset, tocLen, tocChecksum = ftr.TOCOffset, ftr.TOCLen, ftr.TOCSha256
				generation, committedSeq = ftr.Generation, ftr.WALCommittedSeq
			} else {
				err = perr
			}
		} else {
			err = ferr
		}
	}

	if err != nil {
		// Both header pages failed, or the footer they named is gone:
		// fall back to the footer scanner, spec.md §4.8's "ultimate
		// recovery mechanism." The scanner can't recover wal_offset/
		// wal_size or wal_checkpoint_pos (none of those are part of any
		// footer), so recovery assumes the default fixed layout and
		// replays the whole WAL region from its start; a store created
		// with a custom WithWALSize cannot be recovered this way.
		cand, serr := footer.Scan(f)
		if serr != nil {
			return nil, errs.ErrCorruptedHeader
		}
		walRegion = wal.Region{Offset: walOffsetDefault, Size: cfg.WALSize}
		walCheckpointPos = walRegion.Offset
		tocOffset, tocLen, tocChecksum = cand.Footer.TOCOffset, cand.Footer.TOCLen, cand.Footer.TOCSha256
		generation, committedSeq = cand.Footer.Generation, cand.Footer.WALCommittedSeq
	}

	tocBuf := make([]byte, tocLen)
	if err := f.ReadExactlyAt(tocBuf, int64(tocOffset)); err != nil {
		return nil, err
	}
	liveTOC, err := toc.Parse(tocBuf)
	if err != nil {
		return nil, errs.InvalidTOC(err.Error())
	}
	if liveTOC.Checksum() != tocChecksum {
		return nil, errs.InvalidTOC("toc checksum does not match footer")
	}

	frames, textIdx, vecState, structuredStore, err := loadSegments(f, liveTOC)
	if err != nil {
		return nil, err
	}

	replayer := wal.NewReplayer(f, walRegion)
	result, err := replayer.Replay(walCheckpointPos, committedSeq)
	if err != nil {
		return nil, err
	}
	if result.TornSeq != nil {
		// spec.md §4.6/§8 scenario 2: a torn tail is expected, not
		// fatal. Its bytes are simply never replayed.
		cfg.Logger.Sugar().Infow("wal tail discarded", "seq", *result.TornSeq)
	}
	applyUncommitted(result.Uncommitted, frames, textIdx, &vecState, structuredStore)

	s := &Store{
		file:                 f,
		cfg:                  cfg,
		log:                  logging.Named(cfg.Logger, "wax"),
		walRegion:            walRegion,
		toc:                  liveTOC,
		frames:               frames,
		textIdx:              textIdx,
		vectors:              vecState,
		structured:           structuredStore,
		fileGeneration:       generation,
		headerPageGeneration: page.HeaderPageGeneration,
	}
	lastSeq := committedSeq
	if len(result.Uncommitted) > 0 {
		lastSeq = result.Uncommitted[len(result.Uncommitted)-1].Header.Seq
	}
	s.walWriter = wal.NewWriter(f, walRegion, result.TailPos, walCheckpointPos, lastSeq)
	s.rw = rwlock.New(noopHolder{})
	return s, nil
}

// applyUncommitted replays each uncommitted record's side effects into
// the in-memory staging structures, so the next Flush durably commits
// work that was WAL-logged but never reached a footer before a crash.
func applyUncommitted(records []wal.Record, frames *frame.Store, textIdx *textindex.Index, vecState *vectorState, structuredStore *structured.Store) {
	for _, rec := range records {
		switch rec.Header.Kind {
		case format.RecordFrameWrite:
			f, _, err := frame.Decode(rec.Body)
			if err != nil {
				continue
			}
			frames.ReplayAppend(f)
			textIdx.Add(f.FrameID, string(f.PayloadBytes))
		case format.RecordFrameTombstone:
			f, _, err := frame.Decode(rec.Body)
			if err != nil {
				continue
			}
			frames.ReplayAppend(f)
		case format.RecordStructuredMutation:
			if replayed, err := structured.Decode(rec.Body); err == nil {
				*structuredStore = *replayed
			}
		}
	}
}

// noopHolder is the rwlock.Holder used while the in-memory indexes are
// still guarded by Store.mu directly (see Store's doc comment); it lets
// the on-disk commit protocol exercise rwlock.RW's writer-lease shape
// without a second, redundant snapshot type.
type noopHolder struct{}

func (noopHolder) Load() rwlock.Snapshot  { return nil }
func (noopHolder) Store(rwlock.Snapshot)  {}

// Close releases the file lock and closes the underlying descriptor.
// It does not flush: staged writes stay only in the WAL, and the next
// Open replays them into staging, to be committed by its next Flush.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errs.ErrClosed
	}
	s.closed = true

	if err := fileio.Unlock(s.file); err != nil {
		return err
	}
	return s.file.Close()
}
