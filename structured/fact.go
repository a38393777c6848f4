package structured

import (
	"math"

	"github.com/waxmem/wax/checksum"
	"github.com/waxmem/wax/codec"
)

// Latest is the sentinel both temporal axes use to mean "still open" /
// "query as of now," per spec.md §4.12.
const Latest int64 = math.MaxInt64

// Span is a half-open bi-temporal interval: [ValidFrom, ValidTo) crossed
// with [SystemFrom, SystemTo), carrying the object Value that held
// during that interval. A nil ValidTo/SystemTo means open-ended;
// callers represent that with Latest rather than a pointer, since Latest
// already means "contains everything up to now" in every query that
// reads it.
type Span struct {
	ValidFromMs  int64
	ValidToMs    int64 // Latest if open-ended
	SystemFromMs int64
	SystemToMs   int64 // Latest if open-ended
	Value        FactValue
}

// axisContains reports whether v falls in the half-open [from, to)
// interval, treating to == Latest as unbounded rather than comparing
// v < Latest literally — otherwise an as-of query using the Latest
// sentinel for "now" (v == Latest) would fail v < Latest and every
// open-ended span would wrongly read as not containing "now."
func axisContains(v, from, to int64) bool {
	if v < from {
		return false
	}
	return to == Latest || v < to
}

// Contains reports whether validMs and systemMs both fall within s's
// half-open spans.
func (s Span) Contains(validMs, systemMs int64) bool {
	return axisContains(validMs, s.ValidFromMs, s.ValidToMs) &&
		axisContains(systemMs, s.SystemFromMs, s.SystemToMs)
}

// Key computes the span key from spec.md §3: SHA-256 over
// (fact_row_id, valid_from, valid_to, system_from).
func (s Span) Key(factRowID uint64) [checksum.Size]byte {
	enc := codec.NewEncoder(32)
	enc.PutU64(factRowID)
	enc.PutI64(s.ValidFromMs)
	enc.PutI64(s.ValidToMs)
	enc.PutI64(s.SystemFromMs)
	return checksum.Sum256(enc.Bytes())
}

// Evidence is one provenance record for a fact, per spec.md §3.
type Evidence struct {
	SourceFrameID     uint64
	ChunkIndex        *int32
	UTF8Span          *[2]uint32 // [start, end) byte offsets into the source text, if known
	ExtractorID       string
	ExtractorVersion  string
	Confidence        *float64
	AssertedAtMs      int64
}

// Fact is one structured triple identity (subject, predicate[,
// qualifiers]) together with its bi-temporal span history and
// provenance, addressed by a stable FactRowID. The object value is not
// a single field: it varies across the fact's lifetime and is carried
// per-span (Span.Value), so that superseded values remain queryable
// as-of an earlier time instead of being overwritten in place.
type Fact struct {
	FactRowID    uint64
	SubjectRow   uint64 // row ID into the entities table
	PredicateRow uint64 // row ID into the predicates table
	IdentityHash uint64
	Spans        []Span
	Evidence     []Evidence
}

// ActiveSpan returns the span whose ValidTo/SystemTo is still open
// (Latest), if any — the span a new supersession closes. At most one
// such span exists per fact: it is the forward-most edge of both the
// valid-time and system-time axes.
func (f Fact) ActiveSpan() (Span, bool) {
	for _, s := range f.Spans {
		if s.ValidToMs == Latest && s.SystemToMs == Latest {
			return s, true
		}
	}
	return Span{}, false
}

// SpanAsOf returns the span containing the given as-of point, per
// spec.md §4.12's get_facts semantics. Well-formed supersession never
// produces two spans that both contain the same (validMs, systemMs)
// point, so the first match is the only one.
func (f Fact) SpanAsOf(validMs, systemMs int64) (Span, bool) {
	for _, s := range f.Spans {
		if s.Contains(validMs, systemMs) {
			return s, true
		}
	}
	return Span{}, false
}

// CurrentValue returns the object value of f's active span (the
// system's present-day belief), if any — used by graph traversal
// (get_edges), which walks the live fact graph rather than an as-of
// snapshot.
func (f Fact) CurrentValue() (FactValue, bool) {
	s, ok := f.ActiveSpan()
	if !ok {
		return FactValue{}, false
	}
	return s.Value, true
}
