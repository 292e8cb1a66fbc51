// Package orchestrator is C8: it wires persona resolution, script-intent
// generation, segmented synthesis, coefficient generation, motion governance
// and rendering into one request, persisting artifacts under a per-request
// directory.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/normanking/personagen/internal/coeffs"
	"github.com/normanking/personagen/internal/errs"
	"github.com/normanking/personagen/internal/governor"
	"github.com/normanking/personagen/internal/intent"
	"github.com/normanking/personagen/internal/llm"
	"github.com/normanking/personagen/internal/persona"
	"github.com/normanking/personagen/internal/render"
	"github.com/normanking/personagen/internal/style"
	"github.com/normanking/personagen/internal/synth"
	"github.com/rs/zerolog"
)

// Options are the per-request generation toggles from the spec's
// generate(prompt, persona, {enable_intent, enable_governor, style}) call.
type Options struct {
	EnableIntent   bool
	EnableGovernor bool
	StyleOverride  string // empty uses the persona's default style
	Temperature    float64
	MaxTokens      int
}

// Result is what one generation request returns to its caller.
type Result struct {
	RequestID      string                  `json:"request_id"`
	Text           string                  `json:"text"`
	ScriptIntent   *intent.ScriptIntent    `json:"script_intent,omitempty"`
	AudioPath      string                  `json:"audio_path"`
	TimingMap      *intent.IntentTimingMap `json:"timing_map,omitempty"`
	VideoPath      string                  `json:"video_path"`
	ProcessingTime time.Duration           `json:"processing_time"`
}

// Orchestrator is C8.
type Orchestrator struct {
	personas    *persona.Registry
	generator   llm.Generator
	provider    synth.Provider
	synthCfg    *synth.Config
	coeffs      *coeffs.Client
	governor    *governor.Governor
	renderer    *render.Adapter
	outputsRoot string
	logger      zerolog.Logger
}

// New builds an Orchestrator from its wired components.
func New(
	personas *persona.Registry,
	generator llm.Generator,
	provider synth.Provider,
	synthCfg *synth.Config,
	coeffsClient *coeffs.Client,
	gov *governor.Governor,
	renderer *render.Adapter,
	outputsRoot string,
	logger zerolog.Logger,
) *Orchestrator {
	if synthCfg == nil {
		synthCfg = synth.DefaultConfig()
	}
	return &Orchestrator{
		personas:    personas,
		generator:   generator,
		provider:    provider,
		synthCfg:    synthCfg,
		coeffs:      coeffsClient,
		governor:    gov,
		renderer:    renderer,
		outputsRoot: outputsRoot,
		logger:      logger.With().Str("component", "orchestrator").Logger(),
	}
}

// Generate runs one request through the pipeline. Stages execute in strict
// order. An empty prompt, an unknown persona, or an unavailable upstream
// during script-intent generation aborts the request; any other script-intent
// failure falls back to the prompt as plain text. Segmented synthesis failing
// (after the segmenter's own single-shot fallback) or the audio file failing
// to write also aborts it. A coefficient or rendering failure is logged and
// the request still completes with text and audio but no video.
func (o *Orchestrator) Generate(ctx context.Context, prompt, personaID string, opts Options) (*Result, error) {
	start := time.Now()

	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt is empty", errs.ErrInvalidInput)
	}

	p, err := o.personas.Resolve(personaID)
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	logger := o.logger.With().Str("request_id", requestID).Logger()
	reqDir := filepath.Join(o.outputsRoot, requestID)
	if err := os.MkdirAll(reqDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: create request directory: %v", errs.ErrGeneration, err)
	}

	result := &Result{RequestID: requestID}

	// C1 -> C2: script intent generation. UpstreamUnavailable here aborts
	// the whole request; there is nothing downstream to fall back to.
	var si *intent.ScriptIntent
	if opts.EnableIntent {
		si, err = o.generator.Generate(ctx, llm.Request{
			Prompt:        prompt,
			PersonaName:   p.Name,
			StyleGuidance: p.LLMStyleHint,
		})
		if err != nil {
			if errors.Is(err, errs.ErrModelUnavailable) {
				return nil, err
			}
			logger.Warn().Err(err).Msg("script intent generation failed, continuing with plain text")
			si = nil
		}
	}
	if si == nil {
		si = &intent.ScriptIntent{Segments: []intent.SegmentIntent{{Text: prompt, SentenceEnd: true}}}
	}
	result.ScriptIntent = si
	result.Text = si.FlattenText()

	if err := writeJSON(filepath.Join(reqDir, "script.json"), si); err != nil {
		logger.Warn().Err(err).Msg("failed to persist script.json")
	}

	// C3: segmented synthesis.
	segmenter := synth.NewSegmenter(o.provider, o.synthCfg, logger)
	referenceAudio := p.ReferenceAudioPath
	synthResult, err := segmenter.Synthesize(ctx, si, referenceAudio)
	if err != nil {
		return nil, fmt.Errorf("%w: segmented synthesis: %v", errs.ErrModelUnavailable, err)
	}
	result.TimingMap = synthResult.Timing

	audioPath := filepath.Join(reqDir, "output.wav")
	if err := os.WriteFile(audioPath, synth.EncodeWAV(synthResult.PCM, synthResult.SampleRate), 0644); err != nil {
		return nil, fmt.Errorf("%w: write audio: %v", errs.ErrGeneration, err)
	}
	result.AudioPath = audioPath

	if err := writeJSON(filepath.Join(reqDir, "timing.json"), synthResult.Timing); err != nil {
		logger.Warn().Err(err).Msg("failed to persist timing.json")
	}

	// Without a wired coefficient source or renderer, the request completes
	// with text + audio and no video.
	if o.coeffs == nil || o.renderer == nil {
		result.ProcessingTime = time.Since(start)
		return result, nil
	}

	// C4: raw coefficients.
	bundle, err := o.coeffs.GenerateCoeffs(ctx, audioPath, p.ReferenceImagePath)
	if err != nil {
		logger.Warn().Err(err).Msg("coefficient generation failed, request completes without video")
		result.ProcessingTime = time.Since(start)
		return result, nil
	}

	// C5: motion governance, deterministic and never fails.
	if opts.EnableGovernor {
		styleName := opts.StyleOverride
		if styleName == "" {
			styleName = p.DefaultStyle
		}
		profile, ok := style.Preset(styleName)
		if !ok {
			profile = style.CalmTech
		}
		bundle = o.governor.Govern(bundle, synthResult.PCM, synthResult.SampleRate, synthResult.Timing, profile)
	}

	// C6: rendering.
	videoPath := filepath.Join(reqDir, "output.mp4")
	renderedPath, err := o.renderer.Render(ctx, bundle, p.ReferenceImagePath, audioPath, videoPath)
	if err != nil {
		logger.Warn().Err(err).Msg("rendering failed, request completes without video")
		result.ProcessingTime = time.Since(start)
		return result, nil
	}
	result.VideoPath = renderedPath

	result.ProcessingTime = time.Since(start)
	return result, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
