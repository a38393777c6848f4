// Package idhash provides the xxHash64 fingerprints used to key
// in-memory structures by hash instead of by string: text-index postings
// keyed by token hash, structured EntityKey/PredicateKey interning, and
// frame content fingerprints used as a dedup hint. Grounded on the
// teacher's internal/hash/id.go — same library, same single function.
package idhash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// IDBytes computes the xxHash64 of the given byte slice.
func IDBytes(data []byte) uint64 {
	return xxhash.Sum64(data)
}
