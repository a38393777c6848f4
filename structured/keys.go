// Package structured implements the bi-temporal fact store described in
// spec.md §4.12: entities/predicates/facts tables addressed by row_id,
// mutated only through a staging layer (stage_upsert/stage_remove,
// commit_staged, rollback_staged), with half-open valid/system spans and
// conflict resolution on upsert. Row-id indirection follows spec.md §9's
// guidance against object-reference cycles in the fact graph; the
// staging-then-atomic-swap shape follows the same "actor-style
// single-owner state" re-architecture guidance, implemented with a plain
// mutex-guarded shadow map rather than an actor, matching frame.Store's
// staged/Publish/Rollback discipline.
package structured

import (
	"github.com/waxmem/wax/internal/idhash"
	"github.com/waxmem/wax/internal/normalize"
)

// EntityKey identifies an entity by its canonical (NFC, lowercased)
// string identity.
type EntityKey string

// PredicateKey identifies a predicate by its canonical string identity.
type PredicateKey string

// CanonicalEntityKey normalizes raw into the canonical form stored on
// disk and used for identity hashing, per spec.md §3's "all string
// inputs to hashes are Unicode-normalised (NFC) then lowercased-where-
// canonical."
func CanonicalEntityKey(raw string) EntityKey {
	return EntityKey(normalize.CanonicalFold(raw))
}

// CanonicalPredicateKey normalizes raw the same way as
// CanonicalEntityKey.
func CanonicalPredicateKey(raw string) PredicateKey {
	return PredicateKey(normalize.CanonicalFold(raw))
}

// IdentityHash computes H(subject, predicate, qualifiers_hash?) — the
// triple *identity*, per spec.md §4.12's supersession rule ("close the
// existing span ... open a new span"). The object value is deliberately
// excluded: it is the thing that *changes* across supersessions of the
// same identity, carried per-span (see Span.Value) rather than folded
// into the lookup key. qualifiersHash is the empty string when a fact
// carries no qualifiers.
func IdentityHash(subject EntityKey, predicate PredicateKey, qualifiersHash string) uint64 {
	canonical := string(subject) + "\x00" + string(predicate) + "\x00" + qualifiersHash
	return idhash.ID(canonical)
}
