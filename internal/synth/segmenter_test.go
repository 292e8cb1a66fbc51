package synth

import (
	"context"
	"testing"

	"github.com/normanking/personagen/internal/intent"
	"github.com/rs/zerolog"
)

type fakeProvider struct {
	sampleRate      int
	samplesPerChar  int
}

func (f *fakeProvider) Name() string { return "fake" }
func (f *fakeProvider) Health(ctx context.Context) error { return nil }

func (f *fakeProvider) Synthesize(ctx context.Context, req *SynthesizeRequest) (*SynthesizeResponse, error) {
	n := len(req.Text) * f.samplesPerChar
	pcm := make([]int16, n)
	for i := range pcm {
		pcm[i] = 100
	}
	return &SynthesizeResponse{PCM: pcm, SampleRate: f.sampleRate}, nil
}

func TestSegmenter_BuildsContiguousTiming(t *testing.T) {
	provider := &fakeProvider{sampleRate: 1000, samplesPerChar: 10}
	seg := NewSegmenter(provider, DefaultConfig(), zerolog.Nop())

	si := &intent.ScriptIntent{
		Segments: []intent.SegmentIntent{
			{Text: "hello", PauseAfterMs: 100, SentenceEnd: false},
			{Text: "world", PauseAfterMs: 0, SentenceEnd: true},
		},
	}

	result, err := seg.Synthesize(context.Background(), si, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Timing.Segments) != 2 {
		t.Fatalf("expected 2 timing segments, got %d", len(result.Timing.Segments))
	}

	first, second := result.Timing.Segments[0], result.Timing.Segments[1]
	if first.StartMs != 0 {
		t.Errorf("first.StartMs = %d, want 0", first.StartMs)
	}
	if first.EndMs != second.StartMs-100 && first.PauseEndMs != second.StartMs {
		t.Errorf("pause gap between segments not contiguous: first=%+v second=%+v", first, second)
	}
	if result.Timing.DurationMs != second.PauseEndMs {
		t.Errorf("DurationMs = %d, want %d", result.Timing.DurationMs, second.PauseEndMs)
	}
}

func TestSegmenter_RejectsEmptyScript(t *testing.T) {
	provider := &fakeProvider{sampleRate: 1000, samplesPerChar: 10}
	seg := NewSegmenter(provider, DefaultConfig(), zerolog.Nop())

	_, err := seg.Synthesize(context.Background(), &intent.ScriptIntent{}, "")
	if err == nil {
		t.Errorf("expected error for empty script intent")
	}
}
