package wax

import "sort"

// rrfK0 is the reciprocal-rank-fusion constant from spec.md §4.13.
const rrfK0 = 60

// Hit is one fused search result.
type Hit struct {
	FrameID uint64
	Score   float64
}

// fuse combines text and vector lane rankings by weighted reciprocal
// rank fusion, per spec.md §4.13:
//
//	score(d) = α · 1/(k0 + rank_vec(d)) + (1-α) · 1/(k0 + rank_text(d))
//
// A document missing from a lane contributes 0 from that lane (not
// treated as rank infinity-minus-one or excluded). Ties are broken by
// ascending frame_id.
func fuse(textRanked, vecRanked []uint64, alpha float64) []Hit {
	textRank := make(map[uint64]int, len(textRanked))
	for i, id := range textRanked {
		textRank[id] = i + 1
	}
	vecRank := make(map[uint64]int, len(vecRanked))
	for i, id := range vecRanked {
		vecRank[id] = i + 1
	}

	all := make(map[uint64]bool, len(textRanked)+len(vecRanked))
	for _, id := range textRanked {
		all[id] = true
	}
	for _, id := range vecRanked {
		all[id] = true
	}

	hits := make([]Hit, 0, len(all))
	for id := range all {
		var score float64
		if r, ok := vecRank[id]; ok {
			score += alpha * (1.0 / float64(rrfK0+r))
		}
		if r, ok := textRank[id]; ok {
			score += (1 - alpha) * (1.0 / float64(rrfK0+r))
		}
		hits = append(hits, Hit{FrameID: id, Score: score})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].FrameID < hits[j].FrameID
	})

	return hits
}
