// Package similarity scores lexical overlap between page transcriptions.
//
// The score is deliberately crude: a Jaccard index over case-folded token
// sets. It measures topical continuity between adjacent pages well enough
// to propose group boundaries, and every result can be reproduced by hand.
package similarity

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Tokenize splits text into maximal runs of Unicode letters and numbers.
// Everything else (punctuation, whitespace, symbols) separates tokens.
// Tokens are case-folded so comparison is case-insensitive across scripts.
func Tokenize(text string) []string {
	folder := cases.Fold()
	var tokens []string
	var buf strings.Builder
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			buf.WriteRune(r)
			continue
		}
		if buf.Len() > 0 {
			tokens = append(tokens, folder.String(buf.String()))
			buf.Reset()
		}
	}
	if buf.Len() > 0 {
		tokens = append(tokens, folder.String(buf.String()))
	}
	return tokens
}

// Jaccard returns |A ∩ B| / |A ∪ B| over the token sets of a and b,
// in [0,1]. If either token set is empty the result is 0: no shared
// vocabulary is evidence of nothing, not of identity.
func Jaccard(a, b string) float64 {
	ta := tokenSet(a)
	tb := tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	inter := 0
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			inter++
		}
	}
	union := len(ta) + len(tb) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range Tokenize(text) {
		set[tok] = struct{}{}
	}
	return set
}
