package textindex

import (
	"math"
	"sort"

	"github.com/waxmem/wax/internal/idhash"
)

// Posting is one (frame_id, term frequency) pair within a token's
// postings list, kept sorted by FrameID ascending.
type Posting struct {
	FrameID uint64
	TF      uint32
}

// postingsList is one token's full posting set plus its literal string
// (retained to disambiguate the rare xxHash64 collision).
type postingsList struct {
	token    string
	postings []Posting
}

// Index is the live in-memory text index: an inverted postings map and
// a per-frame token-length table, per spec.md §4.10. It is not safe for
// concurrent writes; the orchestrator serializes writer access through
// its Store write lock the same way it does for the frame and structured
// stores.
type Index struct {
	postings    map[uint64]*postingsList // keyed by idhash.ID(token)
	frameLength map[uint64]int           // frame_id -> token count, for future length-normalized scoring
	docCount    int                      // N: number of frames currently indexed
}

// New builds an empty Index.
func New() *Index {
	return &Index{
		postings:    make(map[uint64]*postingsList),
		frameLength: make(map[uint64]int),
	}
}

// Add indexes the tokens of one frame's text content. Calling Add twice
// for the same frame_id double-counts; callers must not re-index a
// frame without first removing it (Remove).
func (ix *Index) Add(frameID uint64, text string) {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return
	}

	tf := make(map[string]uint32, len(tokens))
	for _, t := range tokens {
		tf[t]++
	}

	for tok, count := range tf {
		key := idhash.ID(tok)
		pl, ok := ix.postings[key]
		if !ok {
			pl = &postingsList{token: tok}
			ix.postings[key] = pl
		}
		pl.postings = append(pl.postings, Posting{FrameID: frameID, TF: count})
		sort.Slice(pl.postings, func(i, j int) bool { return pl.postings[i].FrameID < pl.postings[j].FrameID })
	}

	ix.frameLength[frameID] = len(tokens)
	ix.docCount++
}

// Remove deletes every posting for frameID, used when a frame is
// tombstoned so it stops contributing to scores and document frequency.
func (ix *Index) Remove(frameID uint64) {
	if _, ok := ix.frameLength[frameID]; !ok {
		return
	}
	for key, pl := range ix.postings {
		filtered := pl.postings[:0]
		for _, p := range pl.postings {
			if p.FrameID != frameID {
				filtered = append(filtered, p)
			}
		}
		if len(filtered) == 0 {
			delete(ix.postings, key)
		} else {
			pl.postings = filtered
		}
	}
	delete(ix.frameLength, frameID)
	ix.docCount--
}

// Hit is one scored document from Search.
type Hit struct {
	FrameID uint64
	Score   float64
}

// Search scores every frame containing at least one query token using
// the IDF-weighted TF sum from spec.md §4.10:
//
//	score(q,d) = Σ_{t∈q} tf(t,d) · (ln((N+1)/(df(t)+1)) + 1)
//
// Results are returned sorted descending by score, ties broken by
// ascending frame_id (spec.md's stable-ranking rule), truncated to
// topK.
func (ix *Index) Search(query string, topK int) []Hit {
	terms := Tokenize(query)
	if len(terms) == 0 {
		return nil
	}

	n := float64(ix.docCount)
	scores := make(map[uint64]float64)

	seen := make(map[string]bool, len(terms))
	for _, t := range terms {
		if seen[t] {
			continue
		}
		seen[t] = true

		pl, ok := ix.postings[idhash.ID(t)]
		if !ok || pl.token != t {
			continue
		}

		df := float64(len(pl.postings))
		weight := math.Log((n+1)/(df+1)) + 1

		for _, p := range pl.postings {
			scores[p.FrameID] += float64(p.TF) * weight
		}
	}

	hits := make([]Hit, 0, len(scores))
	for id, score := range scores {
		hits = append(hits, Hit{FrameID: id, Score: score})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].FrameID < hits[j].FrameID
	})

	if topK > 0 && len(hits) > topK {
		hits = hits[:topK]
	}
	return hits
}

// DocCount returns N, the number of frames currently indexed.
func (ix *Index) DocCount() int { return ix.docCount }
