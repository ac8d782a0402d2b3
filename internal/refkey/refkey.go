// Package refkey reduces free-text payment and invoice references to a
// canonical join key, so that a charge and its settling payment match even
// when the two rows were captured with different textual conventions.
package refkey

import (
	"regexp"
	"strings"
)

// Sentinel is the key assigned when no reference was captured. It is never
// the empty string so an empty extraction result stays distinguishable.
const Sentinel = "NO_REFERENCE"

// Rule is one extraction attempt. Rules run in registration order and the
// first match wins; format changes should append rules, not edit old ones.
type Rule struct {
	Name    string
	pattern *regexp.Regexp
	// pick selects the key from the pattern's matches on the input.
	pick func(pattern *regexp.Regexp, s string) (string, bool)
}

func firstGroup(pattern *regexp.Regexp, s string) (string, bool) {
	m := pattern.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func lastMatch(pattern *regexp.Regexp, s string) (string, bool) {
	m := pattern.FindAllString(s, -1)
	if m == nil {
		return "", false
	}
	return m[len(m)-1], true
}

// DefaultRules is the extraction order observed across export revisions.
// Payment-style "F. nnnn" outranks invoice-style "A-nnnn" because payment
// postings are the common cross-reference point between accounts.
var DefaultRules = []Rule{
	{Name: "payment-ref", pattern: regexp.MustCompile(`F\.?\s*(\d+)`), pick: firstGroup},
	{Name: "invoice-ref", pattern: regexp.MustCompile(`A\s*-\s*(\d+)`), pick: firstGroup},
	{Name: "last-digit-run", pattern: regexp.MustCompile(`\d+`), pick: lastMatch},
}

// defaultPlaceholders are textual stand-ins for "no value" that some export
// paths emit instead of an empty cell.
var defaultPlaceholders = []string{"nan", "none", "null"}

// Normalizer applies an ordered rule list to raw reference strings.
type Normalizer struct {
	rules        []Rule
	placeholders map[string]bool
}

// New creates a Normalizer with the default rules and placeholders.
func New() *Normalizer {
	return NewWithPlaceholders(defaultPlaceholders)
}

// NewWithPlaceholders creates a Normalizer treating the given strings
// (case-insensitive) as missing references.
func NewWithPlaceholders(placeholders []string) *Normalizer {
	set := make(map[string]bool, len(placeholders))
	for _, p := range placeholders {
		set[strings.ToLower(p)] = true
	}
	return &Normalizer{rules: DefaultRules, placeholders: set}
}

// Normalize maps a raw reference to its canonical key, or Sentinel when the
// cell carried no usable reference. A string matching no rule is returned
// cleaned but verbatim: an unmatched literal key, not an error.
func (n *Normalizer) Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" || n.placeholders[strings.ToLower(s)] {
		return Sentinel
	}
	s = strings.ToUpper(s)
	for _, r := range n.rules {
		if key, ok := r.pick(r.pattern, s); ok {
			return key
		}
	}
	return s
}

// Normalize applies the default rules. Shorthand for New().Normalize(raw).
func Normalize(raw string) string {
	return New().Normalize(raw)
}
