// Package synth turns a ScriptIntent into a single PCM waveform plus the
// IntentTimingMap locating each segment inside it.
package synth

import (
	"context"
	"time"
)

// Provider is a cloned-voice TTS backend. It synthesizes one segment of
// text at a time; the Segmented Synthesizer is responsible for stitching
// segments and pauses into one continuous waveform.
type Provider interface {
	Name() string
	Synthesize(ctx context.Context, req *SynthesizeRequest) (*SynthesizeResponse, error)
	Health(ctx context.Context) error
}

// SynthesizeRequest is one segment's TTS call.
type SynthesizeRequest struct {
	Text               string
	ReferenceAudioPath string
	Language           string
	Temperature        float64
	RepetitionPenalty  float64
	TopP               float64
}

// SynthesizeResponse is raw PCM audio plus its sample rate, as produced by
// the TTS model with no downstream resampling.
type SynthesizeResponse struct {
	PCM            []int16
	SampleRate     int
	ProcessingTime time.Duration
	Provider       string
}

// Config configures the default HTTP-based provider and the segmenter's
// sampling defaults.
type Config struct {
	Provider           string  `mapstructure:"provider"`
	Endpoint           string  `mapstructure:"endpoint"`
	APIKey             string  `mapstructure:"api_key"`
	ReferenceAudioPath string  `mapstructure:"reference_audio_path"`
	Language           string  `mapstructure:"language"`
	Temperature        float64 `mapstructure:"temperature"`
	RepetitionPenalty  float64 `mapstructure:"repetition_penalty"`
	TopP               float64 `mapstructure:"top_p"`
	RequestTimeout     int     `mapstructure:"request_timeout_seconds"`
}

// DefaultConfig mirrors the deterministic sampling parameters called out in
// the spec: low temperature, strong repetition penalty, moderate top_p.
func DefaultConfig() *Config {
	return &Config{
		Provider:          "http",
		Language:          "en",
		Temperature:       0.65,
		RepetitionPenalty: 2.5,
		TopP:              0.85,
		RequestTimeout:    60,
	}
}
