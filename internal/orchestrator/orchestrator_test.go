package orchestrator

import (
	"context"
	"os"
	"testing"

	"github.com/normanking/personagen/internal/errs"
	"github.com/normanking/personagen/internal/governor"
	"github.com/normanking/personagen/internal/intent"
	"github.com/normanking/personagen/internal/llm"
	"github.com/normanking/personagen/internal/persona"
	"github.com/normanking/personagen/internal/synth"
	"github.com/rs/zerolog"
)

type stubGenerator struct {
	si  *intent.ScriptIntent
	err error
}

func (s *stubGenerator) Generate(ctx context.Context, req llm.Request) (*intent.ScriptIntent, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.si, nil
}

type stubProvider struct{}

func (stubProvider) Name() string { return "stub" }
func (stubProvider) Health(ctx context.Context) error { return nil }
func (stubProvider) Synthesize(ctx context.Context, req *synth.SynthesizeRequest) (*synth.SynthesizeResponse, error) {
	return &synth.SynthesizeResponse{
		PCM:        make([]int16, 1600),
		SampleRate: 16000,
		Provider:   "stub",
	}, nil
}

func testPersonas() *persona.Registry {
	return persona.NewRegistry([]persona.Persona{
		{ID: "mkbhd", Name: "MKBHD", DefaultStyle: "calm_tech"},
	})
}

func TestOrchestrator_CompletesWithoutVideoWhenCoeffsUnwired(t *testing.T) {
	dir := t.TempDir()
	gen := &stubGenerator{si: &intent.ScriptIntent{Segments: []intent.SegmentIntent{{Text: "hello there", SentenceEnd: true}}}}

	o := New(testPersonas(), gen, stubProvider{}, synth.DefaultConfig(), nil, governor.New(zerolog.Nop()), nil, dir, zerolog.Nop())

	res, err := o.Generate(context.Background(), "say hello", "mkbhd", Options{EnableIntent: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.VideoPath != "" {
		t.Errorf("expected no video path, got %q", res.VideoPath)
	}
	if res.AudioPath == "" {
		t.Fatal("expected audio path to be set")
	}
	if _, err := os.Stat(res.AudioPath); err != nil {
		t.Errorf("expected audio file to exist: %v", err)
	}
}

func TestOrchestrator_AbortsOnUpstreamUnavailable(t *testing.T) {
	dir := t.TempDir()
	gen := &stubGenerator{err: errs.ErrModelUnavailable}

	o := New(testPersonas(), gen, stubProvider{}, synth.DefaultConfig(), nil, governor.New(zerolog.Nop()), nil, dir, zerolog.Nop())

	_, err := o.Generate(context.Background(), "say hello", "mkbhd", Options{EnableIntent: true})
	if err == nil {
		t.Fatal("expected an error when the LLM upstream is unavailable")
	}
}

func TestOrchestrator_RejectsUnknownPersona(t *testing.T) {
	dir := t.TempDir()
	gen := &stubGenerator{si: &intent.ScriptIntent{Segments: []intent.SegmentIntent{{Text: "hi", SentenceEnd: true}}}}

	o := New(testPersonas(), gen, stubProvider{}, synth.DefaultConfig(), nil, governor.New(zerolog.Nop()), nil, dir, zerolog.Nop())

	_, err := o.Generate(context.Background(), "say hello", "nobody", Options{})
	if err == nil {
		t.Fatal("expected an error for an unknown persona")
	}
}

func TestOrchestrator_RejectsEmptyPrompt(t *testing.T) {
	dir := t.TempDir()
	gen := &stubGenerator{si: &intent.ScriptIntent{Segments: []intent.SegmentIntent{{Text: "hi", SentenceEnd: true}}}}

	o := New(testPersonas(), gen, stubProvider{}, synth.DefaultConfig(), nil, governor.New(zerolog.Nop()), nil, dir, zerolog.Nop())

	_, err := o.Generate(context.Background(), "", "mkbhd", Options{})
	if err == nil {
		t.Fatal("expected an error for an empty prompt")
	}
}
