package llm

import (
	"strings"

	"github.com/normanking/personagen/internal/intent"
)

// splitIntoSentences splits text into sentences on '.', '!' or '?' followed
// by a space, '\n', '\r' or end-of-string, trimming each result.
func splitIntoSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for i, ch := range text {
		current.WriteRune(ch)

		if ch == '.' || ch == '!' || ch == '?' {
			if i < len(text)-1 {
				next := text[i+1]
				if next == ' ' || next == '\n' || next == '\r' {
					s := strings.TrimSpace(current.String())
					if len(s) > 0 {
						sentences = append(sentences, s)
					}
					current.Reset()
				}
			} else {
				s := strings.TrimSpace(current.String())
				if len(s) > 0 {
					sentences = append(sentences, s)
				}
				current.Reset()
			}
		}
	}

	remaining := strings.TrimSpace(current.String())
	if len(remaining) > 0 {
		sentences = append(sentences, remaining)
	}

	return sentences
}

// fallbackIntent builds a one-segment-per-sentence ScriptIntent when the LLM
// call and its repair attempt both fail. It never returns an error: a
// generation request should degrade to plain narration rather than fail
// outright.
func fallbackIntent(prompt string) *intent.ScriptIntent {
	sentences := splitIntoSentences(prompt)
	if len(sentences) == 0 {
		sentences = []string{prompt}
	}

	segments := make([]intent.SegmentIntent, 0, len(sentences))
	for _, s := range sentences {
		segments = append(segments, intent.SegmentIntent{
			Text:         s,
			PauseAfterMs: 300,
			SentenceEnd:  endsWithTerminalPunctuation(s),
		})
	}

	return &intent.ScriptIntent{Segments: segments}
}

// endsWithTerminalPunctuation reports whether s ends in '.', '!' or '?' —
// the sentence-end signal that drives the governor's nod trigger.
func endsWithTerminalPunctuation(s string) bool {
	if s == "" {
		return false
	}
	last := s[len(s)-1]
	return last == '.' || last == '!' || last == '?'
}
