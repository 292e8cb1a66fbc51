package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/normanking/personagen/internal/intent"
)

var fencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// unmarshalScriptIntent tries a direct json.Unmarshal first; on a syntax
// error it calls jsonrepair and retries once.
func unmarshalScriptIntent(data []byte) (*intent.ScriptIntent, error) {
	var si intent.ScriptIntent
	if err := json.Unmarshal(data, &si); err == nil {
		return &si, nil
	} else if _, ok := err.(*json.SyntaxError); !ok {
		return nil, err
	}

	repaired, err := jsonrepair.JSONRepair(string(data))
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(repaired), &si); err != nil {
		return nil, err
	}
	return &si, nil
}

// extractScriptIntent applies a three-tier extraction to a raw LLM response
// that may not be pure JSON: a direct parse, a markdown-fenced-block parse,
// and finally a first-'{'-to-last-'}' slice parse. Returns an error if the
// parsed object has no segments.
func extractScriptIntent(raw string) (*intent.ScriptIntent, error) {
	raw = strings.TrimSpace(raw)

	if si, err := unmarshalScriptIntent([]byte(raw)); err == nil && len(si.Segments) > 0 {
		return si, nil
	}

	if m := fencePattern.FindStringSubmatch(raw); m != nil {
		candidate := strings.TrimSpace(m[1])
		if si, err := unmarshalScriptIntent([]byte(candidate)); err == nil && len(si.Segments) > 0 {
			return si, nil
		}
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		candidate := raw[start : end+1]
		if si, err := unmarshalScriptIntent([]byte(candidate)); err == nil && len(si.Segments) > 0 {
			return si, nil
		}
	}

	return nil, errNoSegments
}

var errNoSegments = jsonNoSegmentsError{}

type jsonNoSegmentsError struct{}

func (jsonNoSegmentsError) Error() string {
	return "llm response contained no usable segments"
}
