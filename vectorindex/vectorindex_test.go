package vectorindex

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/waxmem/wax/format"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{
		Encoding:    format.VectorEncodingFlat,
		Similarity:  format.SimilarityCosine,
		Dim:         4,
		VectorCount: 2,
		PayloadLen:  2*4*4 + 8 + 2*8,
	}

	b := h.Bytes()
	require.Len(t, b, HeaderSize)

	got, err := ParseHeader(b)
	require.NoError(t, err)
	require.Equal(t, h, got)
}

func TestParseHeaderRejectsNonZeroReserved(t *testing.T) {
	h := Header{Encoding: format.VectorEncodingFlat, Similarity: format.SimilarityCosine, Dim: 1}
	b := h.Bytes()
	b[len(b)-1] = 0x01
	_, err := ParseHeader(b)
	require.Error(t, err)
}

func TestParseHeaderRejectsBadMagic(t *testing.T) {
	h := Header{Encoding: format.VectorEncodingFlat}
	b := h.Bytes()
	b[0] ^= 0xFF
	_, err := ParseHeader(b)
	require.Error(t, err)
}

func TestFlatPayloadRoundTrip(t *testing.T) {
	payload := FlatPayload{
		Dim:      3,
		Vectors:  [][]float32{{1, 2, 3}, {4, 5, 6}},
		FrameIDs: []uint64{10, 20},
	}

	got, err := DecodeFlatPayload(payload.Encode(), payload.Dim, uint64(len(payload.Vectors)))
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestBuildFlatAndSegmentRoundTrip(t *testing.T) {
	vectors := [][]float32{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	frameIDs := []uint64{1, 2, 3}

	seg, err := BuildFlat(format.SimilarityCosine, 3, vectors, frameIDs, false)
	require.NoError(t, err)

	decoded, err := Parse(seg.Bytes())
	require.NoError(t, err)
	require.Equal(t, vectors, decoded.Flat.Vectors)
	require.Equal(t, frameIDs, decoded.Flat.FrameIDs)
}

func TestBuildFlatRejectsMismatchedLengths(t *testing.T) {
	_, err := BuildFlat(format.SimilarityCosine, 3, [][]float32{{1, 2, 3}}, []uint64{1, 2}, false)
	require.Error(t, err)
}

func TestSearchRanksByCosineSimilarity(t *testing.T) {
	vectors := [][]float32{{1, 0}, {0, 1}, {0.9, 0.1}}
	frameIDs := []uint64{1, 2, 3}

	seg, err := BuildFlat(format.SimilarityCosine, 2, vectors, frameIDs, false)
	require.NoError(t, err)

	hits, err := seg.Search([]float32{1, 0}, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(1), hits[0].FrameID)
	require.Equal(t, uint64(3), hits[1].FrameID)
	require.Equal(t, uint64(2), hits[2].FrameID)
}

func TestSearchRejectsUsearchPayload(t *testing.T) {
	seg := Segment{Header: Header{Encoding: format.VectorEncodingUsearch}, UsearchPayload: []byte("opaque")}
	_, err := seg.Search([]float32{1, 2}, 0)
	require.Error(t, err)
}

func TestNormalizeProducesUnitVector(t *testing.T) {
	v := Normalize([]float32{3, 4})
	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	require.InDelta(t, 1.0, math.Sqrt(sumSq), 1e-6)
}

func TestNormalizeZeroVectorUnchanged(t *testing.T) {
	v := []float32{0, 0, 0}
	require.Equal(t, v, Normalize(v))
}

func TestScoreL2HigherIsCloser(t *testing.T) {
	near := Score(format.SimilarityL2, []float32{0, 0}, []float32{1, 0})
	far := Score(format.SimilarityL2, []float32{0, 0}, []float32{10, 0})
	require.Greater(t, near, far)
}

func TestScoreInnerProduct(t *testing.T) {
	require.Equal(t, float64(32), Score(format.SimilarityInnerProduct, []float32{1, 2, 3}, []float32{4, 5, 6}))
}
