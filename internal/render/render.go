// Package render is C6, a thin adapter over the external face-animation
// model's render stage. It never touches coefficients — only the governor
// (package governor) is permitted to transform them.
package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/normanking/personagen/internal/coeffs"
	"github.com/normanking/personagen/internal/errs"
	"github.com/rs/zerolog"
)

// Config configures the thin HTTP adapter over the external renderer.
type Config struct {
	Endpoint       string `mapstructure:"endpoint"`
	Enhancer       string `mapstructure:"enhancer"` // empty disables face enhancement
	FPS            int    `mapstructure:"fps"`
	Resolution     int    `mapstructure:"resolution"`
	RequestTimeout int    `mapstructure:"request_timeout_seconds"`
}

// DefaultConfig returns the spec's default fps/resolution.
func DefaultConfig() *Config {
	return &Config{FPS: 25, Resolution: 256, RequestTimeout: 300}
}

// Adapter is C6.
type Adapter struct {
	cfg    *Config
	logger zerolog.Logger
	http   *http.Client
}

// NewAdapter builds an Adapter.
func NewAdapter(cfg *Config, logger zerolog.Logger) *Adapter {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	timeout := time.Duration(cfg.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 300 * time.Second
	}
	return &Adapter{
		cfg:    cfg,
		logger: logger.With().Str("component", "render-adapter").Logger(),
		http:   &http.Client{Timeout: timeout},
	}
}

// Render implements C6's contract: render(governed bundle, reference image,
// audio path, output path, options) -> video path. The bundle passed here
// must already be governed; the adapter does not validate that, only passes
// it through.
func (a *Adapter) Render(ctx context.Context, bundle *coeffs.Bundle, referenceImagePath, audioPath, outputPath string) (string, error) {
	payload := map[string]any{
		"frames":           bundle.Frames,
		"reference_image":  referenceImagePath,
		"audio_path":       audioPath,
		"output_path":      outputPath,
		"fps":              a.cfg.FPS,
		"resolution":       a.cfg.Resolution,
		"enhancer":         a.cfg.Enhancer,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: marshal render request: %v", errs.ErrGeneration, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build render request: %v", errs.ErrGeneration, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: render request failed: %v", errs.ErrModelUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: render endpoint returned %d: %s", errs.ErrModelUnavailable, resp.StatusCode, string(errBody))
	}

	var result struct {
		VideoPath string `json:"video_path"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: decode render response: %v", errs.ErrGeneration, err)
	}
	if result.VideoPath == "" {
		result.VideoPath = outputPath
	}

	a.logger.Info().Str("videoPath", result.VideoPath).Msg("render complete")
	return result.VideoPath, nil
}
