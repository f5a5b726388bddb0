// Package similarity orders pages so that pages with near-identical titles
// sit next to each other in the report.
//
// Titles are compared with a token-sort ratio: both titles are lowercased,
// punctuation becomes whitespace, the words are sorted and rejoined, and the
// two results are scored 0..100 by a weighted edit distance.
package similarity

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/xrash/smetrics"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Edit costs for the ratio. A substitution costs as much as a delete plus an
// insert, so the distance of two strings never exceeds their summed length.
const (
	insertCost     = 1
	deleteCost     = 1
	substituteCost = 2
)

// SortedTokens returns the normalised form of s used for comparison.
func SortedTokens(s string) string {
	lowered := cases.Lower(language.Und).String(s)
	tokens := strings.FieldsFunc(lowered, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// TokenSortRatio scores the similarity of a and b from 0 to 100, ignoring
// case, punctuation and word order. If either string has no words the
// score is 0.
func TokenSortRatio(a, b string) int {
	return sortedRatio(SortedTokens(a), SortedTokens(b))
}

// sortedRatio scores two strings that are already in SortedTokens form.
func sortedRatio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	total := len(a) + len(b)
	dist := smetrics.WagnerFischer(a, b, insertCost, deleteCost, substituteCost)
	return int(math.Round(100 * float64(total-dist) / float64(total)))
}
