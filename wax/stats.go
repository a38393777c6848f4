package wax

import (
	"time"

	"github.com/waxmem/wax/frame"
	"github.com/waxmem/wax/structured"
)

// RuntimeStats summarizes the live store, per spec.md §6's
// runtime_stats operation.
type RuntimeStats struct {
	// SessionID identifies this open handle for diagnostic correlation
	// across log lines; it is generated fresh on every Open and never
	// persisted to the file (SPEC_FULL.md's DOMAIN STACK entry for
	// github.com/google/uuid).
	SessionID            string
	FileGeneration       uint64
	HeaderPageGeneration uint64
	WALWritePos          uint64
	WALCheckpointPos     uint64
	WALCommittedSeq      uint64
	FrameCount           int
	IndexedDocCount      int
	VectorCount          int
	FactCount            int
	StagedFrameCount     int
}

// Stats reports the current generation counters and table sizes.
func (s *Store) Stats() RuntimeStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nowMs := time.Now().UnixMilli()
	asOf := structured.AsOf{ValidTimeMs: nowMs, SystemTimeMs: nowMs}

	return RuntimeStats{
		SessionID:            s.sessionID,
		FileGeneration:       s.fileGeneration,
		HeaderPageGeneration: s.headerPageGeneration,
		WALWritePos:          s.walWriter.WritePos(),
		WALCheckpointPos:     s.walWriter.CheckpointPos(),
		WALCommittedSeq:      s.walWriter.LastSeq(),
		FrameCount:           len(s.frames.RangeScan(func(frame.Frame) bool { return true })),
		IndexedDocCount:      s.textIdx.DocCount(),
		VectorCount:          len(s.vectors.frameIDs),
		FactCount:            len(s.structured.GetFacts(nil, nil, asOf)),
		StagedFrameCount:     len(s.frames.Staged()),
	}
}
