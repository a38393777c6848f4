package wax

import "github.com/waxmem/wax/vectorindex"

// vectorSegmentFor builds the single flat vec_index_v1 segment Flush
// writes on every commit that has touched the vector lane — the same
// always-rewrite-the-whole-state discipline textindex.Index.Encode and
// structured.Store.Encode use, since vectors accumulate no differently
// than postings do.
func vectorSegmentFor(st vectorState) (vectorindex.Segment, error) {
	return vectorindex.BuildFlat(st.similarity, st.dim, st.vectors, st.frameIDs, false)
}

// addVector appends one embedding to the live vector lane. Normalization
// was already applied (if the provider asked for it) before the caller
// reaches here, so BuildFlat's own normalize flag is always false at
// commit time — see vectorSegmentFor.
func (s *Store) addVector(dim uint32, similarity uint8, frameID uint64, vec []float32) {
	if s.vectors.frameIDs == nil {
		s.vectors.dim = dim
		s.vectors.similarity = toSimilarity(similarity)
	}
	s.vectors.vectors = append(s.vectors.vectors, vec)
	s.vectors.frameIDs = append(s.vectors.frameIDs, frameID)
	s.vectorsDirty = true
}
