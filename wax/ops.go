package wax

import (
	"context"

	"github.com/waxmem/wax/errs"
	"github.com/waxmem/wax/format"
	"github.com/waxmem/wax/frame"
	"github.com/waxmem/wax/vectorindex"
)

func toSimilarity(v uint8) format.VectorSimilarity { return format.VectorSimilarity(v) }

// RememberInput is one unit of content handed to Remember.
type RememberInput struct {
	Kind        format.FrameKind
	Text        string // text content; also what gets embedded and indexed
	Metadata    map[string]frame.MetadataValue
	CreatedAtMs int64
}

// Remember appends one frame, WAL-logs it, indexes its text, and (if an
// embedder is configured) embeds and stores its vector — the write path
// from spec.md §4.13. The WAL append is fsynced, so the frame survives a
// crash via WAL replay; it enters the committed TOC at the next Flush.
func (s *Store) Remember(ctx context.Context, in RememberInput) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, errs.ErrClosed
	}
	select {
	case <-ctx.Done():
		return 0, errs.ErrCancelled
	default:
	}

	payload := []byte(in.Text)
	f := s.frames.Append(in.Kind, payload, in.Metadata, in.CreatedAtMs, 0, 0)

	rec, err := frame.Encode(f)
	if err != nil {
		s.frames.Rollback()
		return 0, err
	}
	if _, err := s.walWriter.Append(format.RecordFrameWrite, rec); err != nil {
		s.frames.Rollback()
		return 0, err
	}

	s.textIdx.Add(f.FrameID, in.Text)

	if s.cfg.Embedder != nil {
		vec, err := s.cfg.Embedder.Embed(ctx, in.Text)
		if err != nil {
			return 0, err
		}
		if s.cfg.Embedder.Normalize() && toSimilarity(s.cfg.VectorSimilarity) == format.SimilarityCosine {
			vec = vectorindex.Normalize(vec)
		}
		f.EmbeddingDim = uint32(s.cfg.Embedder.Dim())
		f.EmbeddingOffset = uint64(len(s.vectors.frameIDs))
		s.addVector(f.EmbeddingDim, s.cfg.VectorSimilarity, f.FrameID, vec)
	}

	return f.FrameID, nil
}

// Forget tombstones frameID so it no longer appears in RangeScan,
// Search, or Recall. The underlying bytes stay on disk until the
// compactor reclaims them.
func (s *Store) Forget(frameID uint64, atMs int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errs.ErrClosed
	}

	if _, err := s.frames.Get(frameID); err != nil {
		return err
	}

	f := s.frames.Tombstone(frameID, atMs)
	rec, err := frame.Encode(f)
	if err != nil {
		s.frames.Rollback()
		return err
	}
	if _, err := s.walWriter.Append(format.RecordFrameTombstone, rec); err != nil {
		s.frames.Rollback()
		return err
	}

	s.textIdx.Remove(frameID)
	return nil
}

// Recall returns the frame with the given id, or errs.ErrNotFound if it
// doesn't exist or was tombstoned.
func (s *Store) Recall(frameID uint64) (frame.Frame, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return frame.Frame{}, errs.ErrClosed
	}
	return s.frames.Get(frameID)
}

// SearchRequest is one query against the orchestrator's hybrid search.
type SearchRequest struct {
	Query         string
	Mode          format.SearchMode
	TopK          int
	TimeRangeMs   *[2]int64 // [start, end), filters on created_at_ms
	MinScore      float64
	AlphaOverride *float64
}

// Search runs the configured lanes and fuses them via weighted RRF, per
// spec.md §4.13. When Mode is SearchModeText or SearchModeVector, the
// other lane is skipped entirely (not merely given weight 0), so a
// store with no embedder can still run SearchModeText queries.
func (s *Store) Search(ctx context.Context, req SearchRequest) ([]Hit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errs.ErrClosed
	}

	var textRanked, vecRanked []uint64

	if req.Mode == format.SearchModeText || req.Mode == format.SearchModeHybrid {
		for _, h := range s.textIdx.Search(req.Query, 0) {
			textRanked = append(textRanked, h.FrameID)
		}
	}

	if (req.Mode == format.SearchModeVector || req.Mode == format.SearchModeHybrid) && s.cfg.Embedder != nil && len(s.vectors.vectors) > 0 {
		vec, err := s.cfg.Embedder.Embed(ctx, req.Query)
		if err != nil {
			return nil, err
		}
		if s.cfg.Embedder.Normalize() && s.vectors.similarity == format.SimilarityCosine {
			vec = vectorindex.Normalize(vec)
		}
		seg, err := vectorSegmentFor(s.vectors)
		if err != nil {
			return nil, err
		}
		hits, err := seg.Search(vec, 0)
		if err != nil {
			return nil, err
		}
		for _, h := range hits {
			if _, err := s.frames.Get(h.FrameID); err != nil {
				continue // tombstoned frames keep their vector until compaction
			}
			vecRanked = append(vecRanked, h.FrameID)
		}
	}

	alpha := Classify(req.Query, req.TimeRangeMs != nil).Alpha(s.cfg.FusionAlpha)
	if req.AlphaOverride != nil {
		alpha = *req.AlphaOverride
	}

	hits := fuse(textRanked, vecRanked, alpha)

	if req.TimeRangeMs != nil || req.MinScore != 0 {
		hits = filterHits(hits, s.frames, req.TimeRangeMs, req.MinScore)
	}

	if req.TopK > 0 && len(hits) > req.TopK {
		hits = hits[:req.TopK]
	}
	return hits, nil
}

func filterHits(hits []Hit, frames *frame.Store, timeRange *[2]int64, minScore float64) []Hit {
	out := hits[:0]
	for _, h := range hits {
		if h.Score < minScore {
			continue
		}
		if timeRange != nil {
			f, err := frames.Get(h.FrameID)
			if err != nil || f.CreatedAtMs < timeRange[0] || f.CreatedAtMs >= timeRange[1] {
				continue
			}
		}
		out = append(out, h)
	}
	return out
}

// RangeScan exposes frame.Store.RangeScan for callers that want to
// enumerate frames directly rather than search them.
func (s *Store) RangeScan(pred func(frame.Frame) bool) []frame.Frame {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frames.RangeScan(pred)
}
