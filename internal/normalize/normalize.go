// Package normalize provides the Unicode normalization spec.md §3
// requires of every string fed into a hash or index: "All string inputs
// to hashes are Unicode-normalised (NFC) then lowercased-where-
// canonical." No pack repo imports golang.org/x/text directly, but it is
// a transitive dependency of several pack go.mod files (e.g.
// rpcpool-yellowstone-faithful) and is the standard ecosystem library
// for this exact job — there is no reasonable stdlib substitute for
// Unicode normalization.
package normalize

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NFC normalizes s to Unicode Normalization Form C.
func NFC(s string) string {
	return norm.NFC.String(s)
}

// CanonicalFold normalizes s to NFC and then folds it to lower case,
// the form used for identity hashes (structured EntityKey/PredicateKey)
// and for text-index tokens.
func CanonicalFold(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}
