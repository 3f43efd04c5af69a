// Package textutils provides text normalization and fuzzy similarity
// scoring for transaction descriptions.
package textutils

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// Normalize prepares a free-text description for comparison: lower-case,
// strip everything that is not a letter, digit or whitespace, collapse
// whitespace runs and trim. The result is stable under repeated application.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	lastSpace := true // leading whitespace is dropped
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		default:
			// Punctuation separates tokens the same way whitespace does.
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}

	return strings.TrimSpace(b.String())
}

// TokenSortRatio returns a 0-100 fuzzy similarity score that is insensitive
// to token order: both inputs are split into whitespace-delimited tokens,
// the tokens sorted and rejoined, and the rejoined strings compared with a
// Levenshtein edit ratio. 100 means the inputs are token-identical after
// reordering; 0 means they share nothing.
func TokenSortRatio(a, b string) int {
	sortedA := sortTokens(a)
	sortedB := sortTokens(b)

	if sortedA == sortedB {
		return 100
	}
	if sortedA == "" || sortedB == "" {
		return 0
	}

	ratio := levenshtein.RatioForStrings([]rune(sortedA), []rune(sortedB), levenshtein.DefaultOptions)
	return int(math.Round(ratio * 100))
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
