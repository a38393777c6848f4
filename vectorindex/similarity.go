package vectorindex

import (
	"math"

	"github.com/waxmem/wax/format"
)

// Normalize returns v scaled to unit L2 norm, used at insert time when
// the embedding provider declares normalize=true and the segment's
// similarity is cosine, per spec.md §4.11.
func Normalize(v []float32) []float32 {
	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	norm := math.Sqrt(sumSq)
	if norm == 0 {
		return v
	}

	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

// Score computes the similarity between query and candidate under the
// given metric. For l2, a larger score means a closer match (the
// negated squared distance), keeping the "higher is better" convention
// uniform across all three metrics so callers never branch on sort
// order by metric.
func Score(metric format.VectorSimilarity, query, candidate []float32) float64 {
	switch metric {
	case format.SimilarityCosine:
		return cosine(query, candidate)
	case format.SimilarityInnerProduct:
		return dot(query, candidate)
	case format.SimilarityL2:
		return -sqDist(query, candidate)
	default:
		return math.Inf(-1)
	}
}

func dot(a, b []float32) float64 {
	var sum float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func cosine(a, b []float32) float64 {
	var normA, normB float64
	for _, x := range a {
		normA += float64(x) * float64(x)
	}
	for _, x := range b {
		normB += float64(x) * float64(x)
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot(a, b) / (math.Sqrt(normA) * math.Sqrt(normB))
}

func sqDist(a, b []float32) float64 {
	var sum float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
