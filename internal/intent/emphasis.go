package intent

import (
	"regexp"
	"strings"
)

// ShapeEmphasis upper-cases the first whole-word, case-insensitive occurrence
// of each emphasis token in text. Later occurrences of the same token, and
// any other text, are left untouched.
func ShapeEmphasis(text string, emphasis []string) string {
	if len(emphasis) == 0 {
		return text
	}

	out := text
	for _, word := range emphasis {
		word = strings.TrimSpace(word)
		if word == "" {
			continue
		}
		pattern := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
		loc := pattern.FindStringIndex(out)
		if loc == nil {
			continue
		}
		out = out[:loc[0]] + strings.ToUpper(out[loc[0]:loc[1]]) + out[loc[1]:]
	}
	return out
}

// EmphasisFactor computes the multiplicative style boost a segment's
// emphasis list contributes to the motion governor's intent gate, scaled by
// how much of the segment's own token count is emphasized.
func EmphasisFactor(seg SegmentIntent) float64 {
	tokenCount := len(strings.Fields(seg.Text))
	if tokenCount == 0 || len(seg.Emphasis) == 0 {
		return 1.0
	}
	ratio := float64(len(seg.Emphasis)) / float64(tokenCount)
	factor := 1.0 + 0.3*ratio
	if factor > 1.3 {
		factor = 1.3
	}
	return factor
}
