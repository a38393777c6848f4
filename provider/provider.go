// Package provider defines the two open-set extension points spec.md §6
// names: EmbeddingProvider and Chunker. Per spec.md §9's re-architecture
// guidance ("Protocol-style polymorphism ... trait/interface objects for
// open sets"), both are plain Go interfaces rather than a closed enum,
// so callers can plug in a real embedding model without touching this
// package.
package provider

import "context"

// EmbeddingProvider turns text into a fixed-dimension vector.
// Implementations declare whether their vectors should be L2-normalized
// at insert time (spec.md §4.11's cosine-normalization rule).
type EmbeddingProvider interface {
	// Embed returns the embedding for text, blocking until ready or ctx
	// is cancelled.
	Embed(ctx context.Context, text string) ([]float32, error)
	// Dim returns the fixed dimensionality of vectors this provider
	// produces.
	Dim() int
	// Normalize reports whether vectors from this provider should be
	// L2-normalized before being stored under cosine similarity.
	Normalize() bool
}

// Chunk is one piece of a Chunker's streamed output.
type Chunk struct {
	Text  string
	Index int
}

// Chunker splits long text into frame-sized pieces. It is a pull-based
// iterator per spec.md §9 ("Streaming chunker generator → a pull-based
// async iterator interface; the core does not assume the iterator is
// restartable.") — Next returns io.EOF-equivalent via ok=false, and a
// Chunker must not be reused after it returns ok=false once.
type Chunker interface {
	Next(ctx context.Context) (chunk Chunk, ok bool, err error)
}
