package wax

import (
	"regexp"
	"strings"

	"github.com/waxmem/wax/textindex"
)

// QueryClass is the rule-based query classifier's output, per spec.md
// §4.13 ("A rule-based query classifier biases alpha").
type QueryClass uint8

const (
	ClassTemporal QueryClass = iota
	ClassFactual
	ClassSemantic
	ClassExploratory
)

// AlphaDefaults holds the per-class fusion weight defaults from spec.md
// §9: "choose defaults (e.g. 0.2/0.3/0.7/0.5) and expose them as
// configuration."
type AlphaDefaults struct {
	Temporal     float64
	Factual      float64
	Semantic     float64
	Exploratory  float64
}

// defaultAlpha is the package default, overridable via
// wax.WithFusionAlpha.
var defaultAlpha = AlphaDefaults{
	Temporal:    0.2,
	Factual:     0.3,
	Semantic:    0.7,
	Exploratory: 0.5,
}

// questionWords trigger the semantic class when no temporal signal
// fires, per SPEC_FULL.md's concretization of the classifier.
var questionWords = map[string]bool{
	"who": true, "what": true, "when": true, "where": true,
	"why": true, "how": true, "which": true, "whose": true,
}

// dateTimePattern matches ISO-like dates and clock times, used to
// detect temporal queries per SPEC_FULL.md.
var dateTimePattern = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2}|\d{1,2}:\d{2}|yesterday|today|tomorrow|last week|last month|last year)\b`)

// Classify implements SPEC_FULL.md's concretization of spec.md §4.13's
// rule-based classifier:
//
//   - date/time tokens or an explicit time_range ⇒ temporal
//   - <= 3 tokens and no question word ⇒ factual
//   - longer prose or a question word ⇒ semantic
//   - otherwise ⇒ exploratory
func Classify(query string, hasTimeRange bool) QueryClass {
	lower := strings.ToLower(query)

	if hasTimeRange || dateTimePattern.MatchString(lower) {
		return ClassTemporal
	}

	tokens := textindex.Tokenize(query)

	for _, t := range tokens {
		if questionWords[t] {
			return ClassSemantic
		}
	}

	if len(tokens) <= 3 {
		return ClassFactual
	}
	if len(tokens) > 3 {
		return ClassSemantic
	}

	return ClassExploratory
}

// Alpha returns the fusion weight for class c, using overrides when set.
func (c QueryClass) Alpha(overrides *AlphaDefaults) float64 {
	a := defaultAlpha
	if overrides != nil {
		a = *overrides
	}
	switch c {
	case ClassTemporal:
		return a.Temporal
	case ClassFactual:
		return a.Factual
	case ClassSemantic:
		return a.Semantic
	default:
		return a.Exploratory
	}
}
