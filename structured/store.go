package structured

import (
	"sort"

	"github.com/waxmem/wax/errs"
	"github.com/waxmem/wax/format"
)

// Store is the in-memory structured fact store: three row-id-indexed
// tables (entities, predicates, facts) plus a staging shadow map.
// Mutations never touch the live tables directly — stage_upsert and
// stage_remove build the shadow, commit_staged atomically swaps it in,
// rollback_staged discards it, per spec.md §4.12.
type Store struct {
	entities    map[uint64]entityRow
	predicates  map[uint64]predicateRow
	facts       map[uint64]Fact
	entityByKey map[EntityKey]uint64
	predByKey   map[PredicateKey]uint64
	factByHash  map[uint64]uint64 // identity hash -> fact_row_id

	nextEntityRow uint64
	nextPredRow   uint64
	nextFactRow   uint64

	staged stagingShadow
}

type entityRow struct {
	Key  EntityKey
	Kind string
}

type predicateRow struct {
	Key PredicateKey
}

// stagingShadow accumulates pending mutations until commit_staged or
// rollback_staged resolves them.
type stagingShadow struct {
	upsertedFacts map[uint64]Fact // fact_row_id -> new/updated fact
	removedFacts  map[uint64]bool
	newEntities   map[uint64]entityRow
	newPredicates map[uint64]predicateRow
}

// New builds an empty Store.
func New() *Store {
	return &Store{
		entities:    make(map[uint64]entityRow),
		predicates:  make(map[uint64]predicateRow),
		facts:       make(map[uint64]Fact),
		entityByKey: make(map[EntityKey]uint64),
		predByKey:   make(map[PredicateKey]uint64),
		factByHash:  make(map[uint64]uint64),
		staged:      newShadow(),
	}
}

func newShadow() stagingShadow {
	return stagingShadow{
		upsertedFacts: make(map[uint64]Fact),
		removedFacts:  make(map[uint64]bool),
		newEntities:   make(map[uint64]entityRow),
		newPredicates: make(map[uint64]predicateRow),
	}
}

// ResolveEntity returns the row ID for key, allocating one (in the live
// table, not staged — entity/predicate interning is append-only and
// idempotent, unlike fact mutation) if it doesn't exist yet.
func (s *Store) ResolveEntity(key EntityKey, kind string) uint64 {
	if row, ok := s.entityByKey[key]; ok {
		return row
	}
	row := s.nextEntityRow
	s.nextEntityRow++
	s.entities[row] = entityRow{Key: key, Kind: kind}
	s.entityByKey[key] = row
	return row
}

// ResolvePredicate returns the row ID for key, allocating one if needed.
func (s *Store) ResolvePredicate(key PredicateKey) uint64 {
	if row, ok := s.predByKey[key]; ok {
		return row
	}
	row := s.nextPredRow
	s.nextPredRow++
	s.predicates[row] = predicateRow{Key: key}
	s.predByKey[key] = row
	return row
}

// LookupEntity returns the row ID for key without allocating one, for
// read paths (get_facts, get_edges) that must not create an entity
// merely by querying for it.
func (s *Store) LookupEntity(key EntityKey) (uint64, bool) {
	row, ok := s.entityByKey[key]
	return row, ok
}

// LookupPredicate returns the row ID for key without allocating one.
func (s *Store) LookupPredicate(key PredicateKey) (uint64, bool) {
	row, ok := s.predByKey[key]
	return row, ok
}

// StageUpsert applies spec.md §4.12's conflict-resolution rule against
// the live (committed) facts table, staging the result rather than
// mutating it directly:
//
//   - If an identical identity (subject+predicate) exists and its
//     current object value equals the new object: append the new
//     evidence without opening a new span.
//   - If an identical identity exists with a different current object
//     value: supersede it. The active span is split in two — a closed-
//     system copy that preserves the old belief for system-time-travel
//     queries made before assertedAtMs, and a corrected copy whose
//     valid-time closes at validFromMs but whose system-time stays open
//     (it is the current belief about the old value's validity window)
//     — then a new open span records the new value.
//   - Otherwise: create a new fact row with one open span.
func (s *Store) StageUpsert(subjectKey EntityKey, predicateKey PredicateKey, object FactValue, validFromMs, assertedAtMs int64, ev Evidence) uint64 {
	subjectRow := s.ResolveEntity(subjectKey, "")
	predRow := s.ResolvePredicate(predicateKey)
	hash := IdentityHash(subjectKey, predicateKey, "")

	if existingRow, ok := s.factByHash[hash]; ok {
		existing := s.currentFact(existingRow)
		active, hasActive := existing.ActiveSpan()

		if hasActive && active.Value.Equal(object) {
			existing.Evidence = append(existing.Evidence, ev)
			s.staged.upsertedFacts[existingRow] = existing
			return existingRow
		}

		if hasActive {
			spans := make([]Span, 0, len(existing.Spans)+2)
			for _, sp := range existing.Spans {
				if sp.ValidFromMs == active.ValidFromMs && sp.ValidToMs == active.ValidToMs &&
					sp.SystemFromMs == active.SystemFromMs && sp.SystemToMs == active.SystemToMs {
					continue
				}
				spans = append(spans, sp)
			}
			// Old belief, as it stood before this correction: still
			// open-ended in valid-time, but no longer the live
			// system-time view after assertedAtMs.
			spans = append(spans, Span{
				ValidFromMs:  active.ValidFromMs,
				ValidToMs:    Latest,
				SystemFromMs: active.SystemFromMs,
				SystemToMs:   assertedAtMs,
				Value:        active.Value,
			})
			// Corrected belief: the old value's valid-time window is
			// now known (as of assertedAtMs) to have ended at
			// validFromMs.
			spans = append(spans, Span{
				ValidFromMs:  active.ValidFromMs,
				ValidToMs:    validFromMs,
				SystemFromMs: assertedAtMs,
				SystemToMs:   Latest,
				Value:        active.Value,
			})
			existing.Spans = spans
		}
		existing.Spans = append(existing.Spans, Span{
			ValidFromMs:  validFromMs,
			ValidToMs:    Latest,
			SystemFromMs: assertedAtMs,
			SystemToMs:   Latest,
			Value:        object,
		})
		existing.Evidence = append(existing.Evidence, ev)
		s.staged.upsertedFacts[existingRow] = existing
		return existingRow
	}

	row := s.nextFactRow
	s.nextFactRow++
	f := Fact{
		FactRowID:    row,
		SubjectRow:   subjectRow,
		PredicateRow: predRow,
		IdentityHash: hash,
		Spans: []Span{{
			ValidFromMs:  validFromMs,
			ValidToMs:    Latest,
			SystemFromMs: assertedAtMs,
			SystemToMs:   Latest,
			Value:        object,
		}},
		Evidence: []Evidence{ev},
	}
	s.staged.upsertedFacts[row] = f
	return row
}

// StageRemove marks factRowID for removal on the next commit.
func (s *Store) StageRemove(factRowID uint64) {
	s.staged.removedFacts[factRowID] = true
	delete(s.staged.upsertedFacts, factRowID)
}

// currentFact returns the staged version of row if present, else the
// live committed one — so a caller building on a fact it just staged
// (in the same batch) sees its own write.
func (s *Store) currentFact(row uint64) Fact {
	if f, ok := s.staged.upsertedFacts[row]; ok {
		return f
	}
	return s.facts[row]
}

// CommitStaged atomically swaps the staged facts into the live table
// and clears the shadow. Called once the corresponding WAL record and
// segment are durable.
func (s *Store) CommitStaged() {
	for row, f := range s.staged.upsertedFacts {
		s.facts[row] = f
		s.factByHash[f.IdentityHash] = row
	}
	for row := range s.staged.removedFacts {
		if f, ok := s.facts[row]; ok {
			delete(s.factByHash, f.IdentityHash)
		}
		delete(s.facts, row)
	}
	s.staged = newShadow()
}

// RollbackStaged discards the shadow without touching the live tables.
func (s *Store) RollbackStaged() {
	s.staged = newShadow()
}

// AsOf is the temporal query point from spec.md §4.12; both axes use
// Latest to mean "now."
type AsOf struct {
	ValidTimeMs  int64
	SystemTimeMs int64
}

// FactView is a fact resolved to a single point in time: the identity
// fields plus the object value and span bounds that were in force as
// of the query, per spec.md §4.12's bi-temporal get_facts semantics.
type FactView struct {
	FactRowID    uint64
	SubjectRow   uint64
	PredicateRow uint64
	Object       FactValue
	ValidFromMs  int64
	ValidToMs    int64
	SystemFromMs int64
	SystemToMs   int64
	Evidence     []Evidence
}

// GetFacts returns every fact whose valid and system spans contain
// asOf, optionally filtered by subject and/or predicate, resolved to
// the object value that held at that as-of point.
func (s *Store) GetFacts(subjectRow, predicateRow *uint64, asOf AsOf) []FactView {
	var out []FactView
	for _, f := range s.facts {
		if subjectRow != nil && f.SubjectRow != *subjectRow {
			continue
		}
		if predicateRow != nil && f.PredicateRow != *predicateRow {
			continue
		}
		span, ok := f.SpanAsOf(asOf.ValidTimeMs, asOf.SystemTimeMs)
		if !ok {
			continue
		}
		out = append(out, FactView{
			FactRowID:    f.FactRowID,
			SubjectRow:   f.SubjectRow,
			PredicateRow: f.PredicateRow,
			Object:       span.Value,
			ValidFromMs:  span.ValidFromMs,
			ValidToMs:    span.ValidToMs,
			SystemFromMs: span.SystemFromMs,
			SystemToMs:   span.SystemToMs,
			Evidence:     f.Evidence,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FactRowID < out[j].FactRowID })
	return out
}

// EdgeResult is the outcome of GetEdges.
type EdgeResult struct {
	Facts        []FactView
	WasTruncated bool
}

// GetEdges does a BFS over entity-typed object references starting at
// entityRow, bounded by depth, maxTraversal (total facts visited), and
// maxResults (total facts returned), per spec.md §4.12. WasTruncated is
// true iff any of the three limits was the reason traversal stopped.
func (s *Store) GetEdges(entityRow uint64, direction format.EdgeDirection, depth int, maxTraversal, maxResults int) (EdgeResult, error) {
	if depth < 0 || maxTraversal < 0 || maxResults < 0 {
		return EdgeResult{}, errs.Encoding("get_edges: depth/max_traversal/max_results must be non-negative")
	}

	type frontierEntry struct {
		row   uint64
		level int
	}

	visited := make(map[uint64]bool)
	frontier := []frontierEntry{{row: entityRow, level: 0}}
	visited[entityRow] = true

	var results []FactView
	truncated := false
	traversed := 0

	for len(frontier) > 0 {
		cur := frontier[0]
		frontier = frontier[1:]

		if cur.level >= depth {
			if len(s.edgesOf(cur.row, direction)) > 0 {
				truncated = true
			}
			continue
		}

		neighbors := s.edgesOf(cur.row, direction)
		for _, nf := range neighbors {
			if traversed >= maxTraversal {
				truncated = true
				break
			}
			traversed++

			if len(results) < maxResults {
				results = append(results, nf.view)
			} else {
				truncated = true
			}

			if nf.view.Object.Kind == format.FactValueEntityRef && !visited[nf.view.Object.EntityRef] {
				nextRow := nf.view.Object.EntityRef
				visited[nextRow] = true
				frontier = append(frontier, frontierEntry{row: nextRow, level: cur.level + 1})
			}
		}
	}

	sort.Slice(results, func(i, j int) bool { return results[i].FactRowID < results[j].FactRowID })
	return EdgeResult{Facts: results, WasTruncated: truncated}, nil
}

// factEdge pairs a fact with its currently live object value, for
// graph traversal — which walks the present-day belief, not an as-of
// snapshot.
type factEdge struct {
	view FactView
}

// edgesOf returns every live fact touching entityRow as subject (for
// EdgeOutgoing), object (for EdgeIncoming), or both. Facts with no
// current (active) span — fully superseded or retracted — contribute
// no edges.
func (s *Store) edgesOf(entityRow uint64, direction format.EdgeDirection) []factEdge {
	var out []factEdge
	for _, f := range s.facts {
		active, ok := f.ActiveSpan()
		if !ok {
			continue
		}
		isOutgoing := f.SubjectRow == entityRow
		isIncoming := active.Value.Kind == format.FactValueEntityRef && active.Value.EntityRef == entityRow
		matches := false
		switch direction {
		case format.EdgeOutgoing:
			matches = isOutgoing
		case format.EdgeIncoming:
			matches = isIncoming
		case format.EdgeBoth:
			matches = isOutgoing || isIncoming
		}
		if !matches {
			continue
		}
		out = append(out, factEdge{view: FactView{
			FactRowID:    f.FactRowID,
			SubjectRow:   f.SubjectRow,
			PredicateRow: f.PredicateRow,
			Object:       active.Value,
			ValidFromMs:  active.ValidFromMs,
			ValidToMs:    active.ValidToMs,
			SystemFromMs: active.SystemFromMs,
			SystemToMs:   active.SystemToMs,
			Evidence:     f.Evidence,
		}})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].view.FactRowID < out[j].view.FactRowID })
	return out
}
