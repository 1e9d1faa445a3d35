package suggest

import "strings"

// titleTokens lowercases, strips the action prefix, collapses whitespace,
// and keeps only tokens longer than two characters.
func titleTokens(title string) map[string]struct{} {
	cleaned := strings.ToLower(StripActionPrefix(title))
	tokens := map[string]struct{}{}
	for _, tok := range strings.Fields(cleaned) {
		if len(tok) > 2 {
			tokens[tok] = struct{}{}
		}
	}
	return tokens
}

// Jaccard computes token-set similarity between two titles. Two titles
// sharing no tokens score 0; identical token sets score 1.
func Jaccard(a, b string) float64 {
	ta, tb := titleTokens(a), titleTokens(b)
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
