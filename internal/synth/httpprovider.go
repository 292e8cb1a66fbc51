package synth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// HTTPProvider calls a cloned-voice TTS HTTP endpoint that returns a WAV
// payload, the shape used by every external TTS service in this domain.
type HTTPProvider struct {
	cfg    *Config
	logger zerolog.Logger
	client *http.Client
}

// NewHTTPProvider builds a Provider backed by an HTTP endpoint.
func NewHTTPProvider(cfg *Config, logger zerolog.Logger) *HTTPProvider {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	timeout := time.Duration(cfg.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPProvider{
		cfg:    cfg,
		logger: logger.With().Str("component", "synth-provider").Logger(),
		client: &http.Client{Timeout: timeout},
	}
}

func (p *HTTPProvider) Name() string { return "http" }

func (p *HTTPProvider) Health(ctx context.Context) error {
	if p.cfg.Endpoint == "" {
		return fmt.Errorf("synth endpoint not configured")
	}
	return nil
}

func (p *HTTPProvider) Synthesize(ctx context.Context, req *SynthesizeRequest) (*SynthesizeResponse, error) {
	start := time.Now()

	refPath := req.ReferenceAudioPath
	if refPath == "" {
		refPath = p.cfg.ReferenceAudioPath
	}
	lang := req.Language
	if lang == "" {
		lang = p.cfg.Language
	}

	payload := map[string]any{
		"text":               req.Text,
		"speaker_ref_path":   refPath,
		"language":           lang,
		"temperature":        req.Temperature,
		"repetition_penalty": req.RepetitionPenalty,
		"top_p":              req.TopP,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal synth request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build synth request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("synth request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("synth endpoint returned %d: %s", resp.StatusCode, string(errBody))
	}

	wavData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read synth response: %w", err)
	}

	pcm, sampleRate, err := DecodeWAV(wavData)
	if err != nil {
		return nil, fmt.Errorf("decode wav response: %w", err)
	}

	p.logger.Info().
		Int("samples", len(pcm)).
		Int("sampleRate", sampleRate).
		Dur("processingTime", time.Since(start)).
		Msg("segment synthesized")

	return &SynthesizeResponse{
		PCM:            pcm,
		SampleRate:     sampleRate,
		ProcessingTime: time.Since(start),
		Provider:       p.Name(),
	}, nil
}
