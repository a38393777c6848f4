// Package textindex implements the inverted-index text lane described in
// spec.md §4.10: Unicode case-fold tokenization, a postings list keyed
// by token, and IDF-weighted TF scoring. The in-memory postings map is
// keyed by token hash rather than the token string itself — the
// teacher's idiom for large key spaces (internal/idhash, formerly
// internal/hash, used to key mebo's metric index by name) — while the
// original token string is retained alongside each posting list entry
// for exact-match disambiguation on hash collision.
package textindex

import (
	"strings"
	"unicode"

	"github.com/waxmem/wax/internal/normalize"
)

// minTokenLen is the token length floor from spec.md §4.10: "drop tokens
// with length <= 2."
const minTokenLen = 3

// Tokenize splits text into the lowercased, NFC-normalized, letter/digit
// tokens the index stores postings under.
func Tokenize(text string) []string {
	folded := normalize.CanonicalFold(text)

	var tokens []string
	var b strings.Builder
	flush := func() {
		if b.Len() == 0 {
			return
		}
		tok := b.String()
		if len([]rune(tok)) > minTokenLen-1 {
			tokens = append(tokens, tok)
		}
		b.Reset()
	}

	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		flush()
	}
	flush()

	return tokens
}
