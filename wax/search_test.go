package wax

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/waxmem/wax/format"
	"github.com/waxmem/wax/textindex"
)

// wordEmbedder is a deterministic, collision-free test embedder: each
// known word gets its own fixed dimension, so the expected cosine
// ranking can be hand-verified rather than depending on a hash
// function's bucket assignment.
type wordEmbedder struct {
	dims map[string]int
}

func newWordEmbedder(words ...string) *wordEmbedder {
	dims := make(map[string]int, len(words))
	for i, w := range words {
		dims[w] = i
	}
	return &wordEmbedder{dims: dims}
}

func (e *wordEmbedder) Dim() int        { return len(e.dims) }
func (e *wordEmbedder) Normalize() bool { return false }

func (e *wordEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	v := make([]float32, len(e.dims))
	for _, tok := range textindex.Tokenize(text) {
		if i, ok := e.dims[tok]; ok {
			v[i]++
		}
	}
	return v, nil
}

// TestHybridSearchOrdersByWeightedRRF is spec.md §8 scenario 5: frames
// "the quick brown fox", "lazy dog sleeps", "quick brown dog", searched
// hybrid with alpha=0.5, must come back [frame3, frame1, frame2].
func TestHybridSearchOrdersByWeightedRRF(t *testing.T) {
	embedder := newWordEmbedder("the", "quick", "brown", "fox", "lazy", "dog", "sleeps")

	s, err := Open(filepath.Join(t.TempDir(), "scenario5.wax"), WithEmbedder(embedder))
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	id1, err := s.Remember(ctx, RememberInput{Kind: format.FrameText, Text: "the quick brown fox", CreatedAtMs: 1})
	require.NoError(t, err)
	id2, err := s.Remember(ctx, RememberInput{Kind: format.FrameText, Text: "lazy dog sleeps", CreatedAtMs: 2})
	require.NoError(t, err)
	id3, err := s.Remember(ctx, RememberInput{Kind: format.FrameText, Text: "quick brown dog", CreatedAtMs: 3})
	require.NoError(t, err)

	alpha := 0.5
	hits, err := s.Search(ctx, SearchRequest{
		Query:         "quick dog",
		Mode:          format.SearchModeHybrid,
		TopK:          3,
		AlphaOverride: &alpha,
	})
	require.NoError(t, err)
	require.Len(t, hits, 3)

	got := []uint64{hits[0].FrameID, hits[1].FrameID, hits[2].FrameID}
	require.Equal(t, []uint64{id3, id1, id2}, got)
}

// TestTextOnlySearchIgnoresVectorLane checks that SearchModeText never
// touches the vector lane, so a store with no embedder can still serve
// text queries.
func TestTextOnlySearchIgnoresVectorLane(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "textonly.wax"))
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	id1, err := s.Remember(ctx, RememberInput{Kind: format.FrameText, Text: "alpha beta gamma", CreatedAtMs: 1})
	require.NoError(t, err)

	hits, err := s.Search(ctx, SearchRequest{Query: "alpha", Mode: format.SearchModeText, TopK: 10})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, id1, hits[0].FrameID)
}
