// Package wax is the orchestrator described in spec.md §4.13: the public
// surface (remember/recall/search/flush/close/runtime_stats plus
// structured passthroughs) that composes the frame store, text index,
// vector index, and structured fact store behind the commit protocol in
// spec.md §4.7 and the single-writer/multi-reader model in §4.14.
package wax

import (
	"github.com/waxmem/wax/internal/logging"
	"github.com/waxmem/wax/internal/options"
	"github.com/waxmem/wax/provider"
	"github.com/waxmem/wax/wal"
)

// Config holds every Open-time setting, built up via the functional
// Option pattern the teacher uses throughout mebo
// (internal/options.Option[T]/Apply).
type Config struct {
	WALSize uint64

	// Embedder is optional; when nil, remember/search run text-only.
	Embedder provider.EmbeddingProvider

	// VectorSimilarity selects the metric new vector segments are built
	// for. Defaults to cosine.
	VectorSimilarity uint8

	Logger *logging.Logger

	// FusionAlpha overrides the query classifier's default alpha for
	// every query class; nil entries fall back to the package defaults.
	FusionAlpha *AlphaDefaults
}

// Option configures a Config at Open time.
type Option = options.Option[*Config]

// defaultConfig returns the Config used when no options are given.
func defaultConfig() *Config {
	return &Config{
		WALSize:          wal.DefaultSize,
		VectorSimilarity: 1, // format.SimilarityCosine
		Logger:           logging.Nop(),
	}
}

// WithWALSize overrides the WAL region size for a newly created file.
// Ignored when opening an existing file (its size is fixed at creation).
func WithWALSize(size uint64) Option {
	return options.NoError[*Config](func(c *Config) { c.WALSize = size })
}

// WithEmbedder supplies the embedding provider remember/search use for
// the vector lane.
func WithEmbedder(e provider.EmbeddingProvider) Option {
	return options.NoError[*Config](func(c *Config) { c.Embedder = e })
}

// WithLogger supplies a structured logger; defaults to logging.Nop().
func WithLogger(l *logging.Logger) Option {
	return options.NoError[*Config](func(c *Config) { c.Logger = l })
}

// WithFusionAlpha overrides the query classifier's per-class alpha
// defaults, per spec.md §9 ("expose them as configuration").
func WithFusionAlpha(a AlphaDefaults) Option {
	return options.NoError[*Config](func(c *Config) { c.FusionAlpha = &a })
}
