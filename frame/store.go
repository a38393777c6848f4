package frame

import (
	"sort"

	"github.com/waxmem/wax/errs"
	"github.com/waxmem/wax/format"
)

// Store is the in-memory view of the frame store: every committed frame
// (loaded from frame_page segments named by the live TOC) plus any
// frames staged since the last commit. Frame IDs are assigned densely
// and strictly increasing, per spec.md §3's invariant; Store is the
// single source of truth for the next ID.
//
// Store itself does not touch disk — the orchestrator drives WAL
// appends and segment encoding around it, then calls Publish once a
// commit durably lands, matching the staging/commit/rollback shape
// structured.Store uses for the same reason (spec.md §4.12).
type Store struct {
	committed   map[uint64]Frame
	tombstoned  map[uint64]bool
	staged      []*Frame
	nextFrameID uint64
}

// NewStore builds a Store from frames already durable in the live TOC's
// frame_page segments, applying any tombstone frames found among them.
func NewStore(loaded []Frame) *Store {
	s := &Store{
		committed:  make(map[uint64]Frame, len(loaded)),
		tombstoned: make(map[uint64]bool),
	}
	for _, f := range loaded {
		s.committed[f.FrameID] = f
		if f.Kind == format.FrameTombstone {
			s.tombstoned[f.TombstoneOf] = true
		}
		if f.FrameID >= s.nextFrameID {
			s.nextFrameID = f.FrameID + 1
		}
	}
	return s
}

// Append stages a new frame and returns it with its assigned frame_id.
// The caller is responsible for WAL-appending the encoded record before
// relying on the assignment surviving a crash.
func (s *Store) Append(kind format.FrameKind, payload []byte, metadata map[string]MetadataValue, createdAtMs int64, embeddingDim uint32, embeddingOffset uint64) *Frame {
	f := &Frame{
		FrameID:         s.nextFrameID,
		Kind:            kind,
		PayloadBytes:    payload,
		Metadata:        metadata,
		CreatedAtMs:     createdAtMs,
		EmbeddingDim:    embeddingDim,
		EmbeddingOffset: embeddingOffset,
	}
	s.nextFrameID++
	s.staged = append(s.staged, f)
	return f
}

// ReplayAppend stages f as-is, preserving its FrameID exactly instead of
// assigning a new one — used when WAL replay is restaging a record that
// was already durably appended with that ID before a crash. nextFrameID
// advances past f.FrameID if needed so a later Append never collides
// with it.
func (s *Store) ReplayAppend(f Frame) {
	s.staged = append(s.staged, &f)
	if f.FrameID >= s.nextFrameID {
		s.nextFrameID = f.FrameID + 1
	}
}

// Tombstone stages a tombstone frame referencing id. It does not check
// that id currently resolves to a live frame beyond what Get would —
// callers (the orchestrator) are expected to have already verified that
// with Get.
func (s *Store) Tombstone(id uint64, createdAtMs int64) *Frame {
	f := &Frame{
		FrameID:     s.nextFrameID,
		Kind:        format.FrameTombstone,
		CreatedAtMs: createdAtMs,
		TombstoneOf: id,
	}
	s.nextFrameID++
	s.staged = append(s.staged, f)
	return f
}

// Get returns the live frame for id, or errs.ErrNotFound if it doesn't
// exist or has been tombstoned. Staged (not-yet-committed) frames are
// visible to Get so a caller in the same writer session sees its own
// writes.
func (s *Store) Get(id uint64) (Frame, error) {
	if s.tombstoned[id] {
		return Frame{}, errs.ErrNotFound
	}
	for _, f := range s.staged {
		if f.Kind == format.FrameTombstone && f.TombstoneOf == id {
			return Frame{}, errs.ErrNotFound
		}
	}
	if f, ok := s.committed[id]; ok {
		return f, nil
	}
	for _, f := range s.staged {
		if f.FrameID == id && f.Kind != format.FrameTombstone {
			return *f, nil
		}
	}
	return Frame{}, errs.ErrNotFound
}

// RangeScan returns every live (non-tombstoned) frame matching pred, in
// ascending frame_id order.
func (s *Store) RangeScan(pred func(Frame) bool) []Frame {
	pending := make(map[uint64]bool)
	for _, f := range s.staged {
		if f.Kind == format.FrameTombstone {
			pending[f.TombstoneOf] = true
		}
	}
	var out []Frame
	for id, f := range s.committed {
		if s.tombstoned[id] || pending[id] {
			continue
		}
		if pred(f) {
			out = append(out, f)
		}
	}
	for _, f := range s.staged {
		if f.Kind == format.FrameTombstone || pending[f.FrameID] {
			continue
		}
		if pred(*f) {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FrameID < out[j].FrameID })
	return out
}

// Staged returns the frames appended since the last Publish, in append
// order — the set the commit path encodes into a new frame_page
// segment.
func (s *Store) Staged() []*Frame {
	return s.staged
}

// Publish moves every staged frame into the committed set and clears the
// staging list. Called once the new frame_page segment, TOC, and footer
// are durable — never before.
func (s *Store) Publish() {
	for _, f := range s.staged {
		s.committed[f.FrameID] = *f
		if f.Kind == format.FrameTombstone {
			s.tombstoned[f.TombstoneOf] = true
		}
	}
	s.staged = nil
}

// Rollback discards staged frames without publishing them, restoring
// nextFrameID to the value it had before staging began — used when a
// WAL append fails partway through a batch.
func (s *Store) Rollback() {
	s.nextFrameID -= uint64(len(s.staged))
	s.staged = nil
}

// NextFrameID returns the frame_id that would be assigned by the next
// Append or Tombstone call.
func (s *Store) NextFrameID() uint64 { return s.nextFrameID }
