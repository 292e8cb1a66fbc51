package synth

import (
	"context"
	"fmt"

	"github.com/normanking/personagen/internal/errs"
	"github.com/normanking/personagen/internal/intent"
	"github.com/rs/zerolog"
)

// Segmenter runs each SegmentIntent through a Provider, in order, stitching
// the resulting PCM and the silence for each segment's pause into one
// continuous waveform, and records a TimingSegment for every piece.
type Segmenter struct {
	provider Provider
	cfg      *Config
	logger   zerolog.Logger
}

// NewSegmenter builds a Segmenter over the given Provider.
func NewSegmenter(provider Provider, cfg *Config, logger zerolog.Logger) *Segmenter {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Segmenter{
		provider: provider,
		cfg:      cfg,
		logger:   logger.With().Str("component", "segmenter").Logger(),
	}
}

// Result is the Segmented Synthesizer's output: one continuous waveform and
// the timing map locating every segment inside it.
type Result struct {
	PCM        []int16
	SampleRate int
	Timing     *intent.IntentTimingMap
}

// Synthesize renders every segment of si in order and concatenates them. If
// any individual segment's TTS call fails, it falls back to a single-shot
// synthesis of the flattened plain text and returns a one-segment timing map
// covering the full duration, rather than failing the request.
func (s *Segmenter) Synthesize(ctx context.Context, si *intent.ScriptIntent, referenceAudioPath string) (*Result, error) {
	if len(si.Segments) == 0 {
		return nil, fmt.Errorf("%w: script intent has no segments", errs.ErrInvalidInput)
	}

	var pcm []int16
	sampleRate := 0
	timing := make([]intent.TimingSegment, 0, len(si.Segments))

	for _, seg := range si.Segments {
		text := intent.ShapeEmphasis(seg.Text, seg.Emphasis)

		resp, err := s.provider.Synthesize(ctx, &SynthesizeRequest{
			Text:               text,
			ReferenceAudioPath: referenceAudioPath,
			Language:           s.cfg.Language,
			Temperature:        s.cfg.Temperature,
			RepetitionPenalty:  s.cfg.RepetitionPenalty,
			TopP:               s.cfg.TopP,
		})
		if err != nil {
			s.logger.Warn().Err(err).Str("segment", seg.Text).Msg("segment synthesis failed, falling back to single-shot flattened synthesis")
			return s.synthesizeFlattened(ctx, si, referenceAudioPath)
		}
		if sampleRate == 0 {
			sampleRate = resp.SampleRate
		} else if resp.SampleRate != sampleRate {
			return nil, fmt.Errorf("%w: sample rate changed mid-synthesis (%d -> %d); no internal resampling is performed",
				errs.ErrGeneration, sampleRate, resp.SampleRate)
		}

		startMs := msFromSamples(len(pcm), sampleRate)
		pcm = append(pcm, resp.PCM...)
		endMs := msFromSamples(len(pcm), sampleRate)

		pauseSamples := samplesFromMs(seg.PauseAfterMs, sampleRate)
		pcm = append(pcm, make([]int16, pauseSamples)...)
		pauseEndMs := msFromSamples(len(pcm), sampleRate)

		timing = append(timing, intent.TimingSegment{
			Segment:    seg,
			StartMs:    startMs,
			EndMs:      endMs,
			PauseEndMs: pauseEndMs,
		})
	}

	return &Result{
		PCM:        pcm,
		SampleRate: sampleRate,
		Timing: &intent.IntentTimingMap{
			Segments:   timing,
			DurationMs: msFromSamples(len(pcm), sampleRate),
		},
	}, nil
}

// synthesizeFlattened is the segment-failure fallback path: one TTS call
// over the whole script's plain text, reported as a single TimingSegment
// spanning the entire waveform.
func (s *Segmenter) synthesizeFlattened(ctx context.Context, si *intent.ScriptIntent, referenceAudioPath string) (*Result, error) {
	flat := si.FlattenText()

	resp, err := s.provider.Synthesize(ctx, &SynthesizeRequest{
		Text:               flat,
		ReferenceAudioPath: referenceAudioPath,
		Language:           s.cfg.Language,
		Temperature:        s.cfg.Temperature,
		RepetitionPenalty:  s.cfg.RepetitionPenalty,
		TopP:               s.cfg.TopP,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: fallback flattened synthesis: %v", errs.ErrModelUnavailable, err)
	}

	durationMs := msFromSamples(len(resp.PCM), resp.SampleRate)
	return &Result{
		PCM:        resp.PCM,
		SampleRate: resp.SampleRate,
		Timing: &intent.IntentTimingMap{
			Segments: []intent.TimingSegment{
				{
					Segment:    intent.SegmentIntent{Text: flat, SentenceEnd: true},
					StartMs:    0,
					EndMs:      durationMs,
					PauseEndMs: durationMs,
				},
			},
			DurationMs: durationMs,
		},
	}, nil
}

func msFromSamples(samples int, sampleRate int) int {
	if sampleRate == 0 {
		return 0
	}
	return samples * 1000 / sampleRate
}

func samplesFromMs(ms int, sampleRate int) int {
	return ms * sampleRate / 1000
}
