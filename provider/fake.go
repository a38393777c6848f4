package provider

import (
	"context"

	"github.com/waxmem/wax/internal/idhash"
	"github.com/waxmem/wax/textindex"
)

// FakeEmbedder is a deterministic, dependency-free EmbeddingProvider for
// tests: spec.md §8 scenario 5 calls for "fake deterministic — e.g.
// per-token bag-of-words projected to fixed 8-dim" embeddings. Each
// token is hashed and accumulated into one of Dim buckets by
// idhash.ID(token) % dim, giving the same text the same vector across
// runs without needing a real model.
type FakeEmbedder struct {
	dim       int
	normalize bool
}

// NewFakeEmbedder builds a FakeEmbedder projecting into dim buckets.
func NewFakeEmbedder(dim int, normalize bool) *FakeEmbedder {
	return &FakeEmbedder{dim: dim, normalize: normalize}
}

func (e *FakeEmbedder) Dim() int        { return e.dim }
func (e *FakeEmbedder) Normalize() bool { return e.normalize }

// Embed tokenizes text with the same tokenizer the text index uses, then
// bag-of-words-projects each token into a fixed-dim vector by hash
// bucket.
func (e *FakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	v := make([]float32, e.dim)
	for _, tok := range textindex.Tokenize(text) {
		bucket := idhash.ID(tok) % uint64(e.dim)
		v[bucket]++
	}
	return v, nil
}
