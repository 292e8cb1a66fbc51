package llm

import "testing"

func TestSplitIntoSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "simple sentences",
			text: "Hello there. How are you? Great!",
			want: []string{"Hello there.", "How are you?", "Great!"},
		},
		{
			name: "no terminal punctuation",
			text: "just a fragment",
			want: []string{"just a fragment"},
		},
		{
			name: "empty string",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitIntoSentences(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("splitIntoSentences(%q) = %v, want %v", tt.text, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("segment %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFallbackIntent_SentenceEndFollowsTerminalPunctuation(t *testing.T) {
	si := fallbackIntent("First sentence. Second sentence.")
	if len(si.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(si.Segments))
	}
	if !si.Segments[0].SentenceEnd {
		t.Errorf("expected first segment (ends in '.') to be sentence end")
	}
	if !si.Segments[1].SentenceEnd {
		t.Errorf("expected second segment (ends in '.') to be sentence end")
	}
	for _, seg := range si.Segments {
		if seg.PauseAfterMs != 300 {
			t.Errorf("expected pause_after_ms of 300, got %d", seg.PauseAfterMs)
		}
	}
}

func TestFallbackIntent_UnterminatedFragmentIsNotSentenceEnd(t *testing.T) {
	si := fallbackIntent("First sentence. trailing fragment")
	if len(si.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(si.Segments))
	}
	if !si.Segments[0].SentenceEnd {
		t.Errorf("expected first segment (ends in '.') to be sentence end")
	}
	if si.Segments[1].SentenceEnd {
		t.Errorf("expected trailing fragment without terminal punctuation to not be sentence end")
	}
}

func TestFallbackIntent_NeverEmpty(t *testing.T) {
	si := fallbackIntent("")
	if len(si.Segments) == 0 {
		t.Fatalf("expected at least one segment even for empty prompt")
	}
}
