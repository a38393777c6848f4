package wax

import (
	"github.com/waxmem/wax/errs"
	"github.com/waxmem/wax/format"
	"github.com/waxmem/wax/structured"
)

// UpsertFact stages a structured fact write per spec.md §4.12's
// conflict-resolution rule and returns its fact_row_id. The write is
// durable only once the corresponding WAL record is appended here and
// Flush has run; staging alone survives a crash only via WAL replay.
func (s *Store) UpsertFact(subject, predicate string, object structured.FactValue, validFromMs, assertedAtMs int64, ev structured.Evidence) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, errs.ErrClosed
	}

	subjectKey := structured.CanonicalEntityKey(subject)
	predicateKey := structured.CanonicalPredicateKey(predicate)
	row := s.structured.StageUpsert(subjectKey, predicateKey, object, validFromMs, assertedAtMs, ev)

	body := s.structured.Encode()
	if _, err := s.walWriter.Append(format.RecordStructuredMutation, body); err != nil {
		s.structured.RollbackStaged()
		return 0, err
	}
	s.structuredPendingCommit = true
	return row, nil
}

// RemoveFact stages the removal of factRowID.
func (s *Store) RemoveFact(factRowID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errs.ErrClosed
	}

	s.structured.StageRemove(factRowID)

	body := s.structured.Encode()
	if _, err := s.walWriter.Append(format.RecordStructuredMutation, body); err != nil {
		s.structured.RollbackStaged()
		return err
	}
	s.structuredPendingCommit = true
	return nil
}

// GetFacts returns every live fact matching the given subject/predicate
// filters as of asOf, per spec.md §4.12.
func (s *Store) GetFacts(subject, predicate *string, asOf structured.AsOf) []structured.FactView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var subjectRow, predicateRow *uint64
	if subject != nil {
		key := structured.CanonicalEntityKey(*subject)
		row, ok := s.structured.LookupEntity(key)
		if !ok {
			return nil
		}
		subjectRow = &row
	}
	if predicate != nil {
		key := structured.CanonicalPredicateKey(*predicate)
		row, ok := s.structured.LookupPredicate(key)
		if !ok {
			return nil
		}
		predicateRow = &row
	}

	return s.structured.GetFacts(subjectRow, predicateRow, asOf)
}

// GetEdges runs a bounded BFS outward from the named entity, per
// spec.md §4.12.
func (s *Store) GetEdges(entity string, direction format.EdgeDirection, depth, maxTraversal, maxResults int) (structured.EdgeResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := structured.CanonicalEntityKey(entity)
	row, ok := s.structured.LookupEntity(key)
	if !ok {
		return structured.EdgeResult{}, errs.ErrNotFound
	}
	return s.structured.GetEdges(row, direction, depth, maxTraversal, maxResults)
}
