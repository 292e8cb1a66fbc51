package llm

import "testing"

func TestExtractScriptIntent_DirectJSON(t *testing.T) {
	raw := `{"segments":[{"text":"hi","pause_after_ms":100,"emphasis":[],"sentence_end":true}]}`
	si, err := extractScriptIntent(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(si.Segments) != 1 || si.Segments[0].Text != "hi" {
		t.Errorf("unexpected segments: %+v", si.Segments)
	}
}

func TestExtractScriptIntent_MarkdownFence(t *testing.T) {
	raw := "Sure, here you go:\n```json\n{\"segments\":[{\"text\":\"hi\",\"pause_after_ms\":100,\"emphasis\":[],\"sentence_end\":true}]}\n```\n"
	si, err := extractScriptIntent(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(si.Segments) != 1 {
		t.Errorf("unexpected segments: %+v", si.Segments)
	}
}

func TestExtractScriptIntent_BraceSlice(t *testing.T) {
	raw := "preamble text {\"segments\":[{\"text\":\"hi\",\"pause_after_ms\":100,\"emphasis\":[],\"sentence_end\":true}]} trailing notes"
	si, err := extractScriptIntent(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(si.Segments) != 1 {
		t.Errorf("unexpected segments: %+v", si.Segments)
	}
}

func TestExtractScriptIntent_NoSegments(t *testing.T) {
	raw := "I cannot help with that."
	if _, err := extractScriptIntent(raw); err == nil {
		t.Errorf("expected error for response with no segments")
	}
}

func TestUnmarshalScriptIntent_RepairsTrailingComma(t *testing.T) {
	raw := `{"segments":[{"text":"hi","pause_after_ms":100,"emphasis":[],"sentence_end":true,}]}`
	si, err := unmarshalScriptIntent([]byte(raw))
	if err != nil {
		t.Fatalf("expected jsonrepair to fix trailing comma, got error: %v", err)
	}
	if len(si.Segments) != 1 {
		t.Errorf("unexpected segments: %+v", si.Segments)
	}
}
