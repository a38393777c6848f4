package textindex

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenizeLowercasesAndDropsShortTokens(t *testing.T) {
	tokens := Tokenize("The QUICK Fox, jumps-over a 42nd Bridge!")
	require.Equal(t, []string{"the", "quick", "fox", "jumps", "over", "42nd", "bridge"}, tokens)
}

func TestTokenizeDropsTokensBelowMinLength(t *testing.T) {
	tokens := Tokenize("a an I of to cat dog")
	require.Equal(t, []string{"cat", "dog"}, tokens)
}

func TestTokenizeEmptyText(t *testing.T) {
	require.Empty(t, Tokenize(""))
	require.Empty(t, Tokenize("  !!! ,, ??"))
}

func TestAddAndSearchRanksByRelevance(t *testing.T) {
	ix := New()
	ix.Add(1, "the cat sat on the mat")
	ix.Add(2, "the cat chased the cat toy")
	ix.Add(3, "completely unrelated content here")

	hits := ix.Search("cat", 0)
	require.Len(t, hits, 2)
	// Frame 2 mentions "cat" twice, so it must outrank frame 1.
	require.Equal(t, uint64(2), hits[0].FrameID)
	require.Equal(t, uint64(1), hits[1].FrameID)
}

func TestSearchReturnsNothingForUnmatchedQuery(t *testing.T) {
	ix := New()
	ix.Add(1, "the cat sat on the mat")

	require.Empty(t, ix.Search("giraffe", 0))
}

func TestSearchRespectsTopK(t *testing.T) {
	ix := New()
	ix.Add(1, "apple apple apple")
	ix.Add(2, "apple apple")
	ix.Add(3, "apple")

	hits := ix.Search("apple", 2)
	require.Len(t, hits, 2)
	require.Equal(t, uint64(1), hits[0].FrameID)
}

func TestRemoveDropsFrameFromResultsAndDocCount(t *testing.T) {
	ix := New()
	ix.Add(1, "searchable content")
	ix.Add(2, "searchable content too")
	require.Equal(t, 2, ix.DocCount())

	ix.Remove(1)
	require.Equal(t, 1, ix.DocCount())

	hits := ix.Search("searchable", 0)
	require.Len(t, hits, 1)
	require.Equal(t, uint64(2), hits[0].FrameID)
}

func TestRemoveUnknownFrameIsNoOp(t *testing.T) {
	ix := New()
	ix.Add(1, "something here")
	ix.Remove(999)
	require.Equal(t, 1, ix.DocCount())
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	ix := New()
	ix.Add(1, "hybrid retrieval over structured facts")
	ix.Add(2, "vector search complements keyword search")

	data := ix.Encode()
	decoded, err := Decode(data)
	require.NoError(t, err)

	require.Equal(t, ix.DocCount(), decoded.DocCount())
	require.Equal(t, ix.Search("search", 0), decoded.Search("search", 0))
}

func TestDecodeRejectsCorruptedSegment(t *testing.T) {
	ix := New()
	ix.Add(1, "some content")
	data := ix.Encode()
	data[0] ^= 0xFF

	_, err := Decode(data)
	require.Error(t, err)
}
