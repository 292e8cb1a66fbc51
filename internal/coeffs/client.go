package coeffs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/normanking/personagen/internal/errs"
	"github.com/rs/zerolog"
)

// Config configures the thin HTTP adapter over the external face-animation
// model's audio-to-coefficients stage.
type Config struct {
	Endpoint       string `mapstructure:"endpoint"`
	FPS            int    `mapstructure:"fps"`
	RequestTimeout int    `mapstructure:"request_timeout_seconds"`
}

// DefaultConfig returns the spec's default frame rate.
func DefaultConfig() *Config {
	return &Config{FPS: 25, RequestTimeout: 120}
}

// Client is C4, the Coefficient Source: a pure adapter with no retry logic
// of its own. It fails hard — transport and non-2xx failures wrap
// errs.ErrModelUnavailable; the orchestrator logs the failure and completes
// the request without video.
type Client struct {
	cfg    *Config
	logger zerolog.Logger
	http   *http.Client
}

// NewClient builds a Client.
func NewClient(cfg *Config, logger zerolog.Logger) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	timeout := time.Duration(cfg.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		cfg:    cfg,
		logger: logger.With().Str("component", "coeffs-client").Logger(),
		http:   &http.Client{Timeout: timeout},
	}
}

type coeffsWireFormat struct {
	Frames       [][]float64 `json:"frames"`
	IsCompact    bool        `json:"is_compact"`
	ExpStart     int         `json:"exp_start"`
	ExpEnd       int         `json:"exp_end"`
	PoseStart    int         `json:"pose_start"`
	PoseEnd      int         `json:"pose_end"`
	LipChannels  []int       `json:"lip_channels"`
	IdentityChannels []int   `json:"identity_channels"`
}

// GenerateCoeffs runs the external animation model's audio->motion stage and
// returns the raw, ungoverned coefficient bundle.
func (c *Client) GenerateCoeffs(ctx context.Context, audioPath, referenceImagePath string) (*Bundle, error) {
	payload := map[string]any{
		"audio_path":      audioPath,
		"reference_image": referenceImagePath,
		"fps":              c.cfg.FPS,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal coeffs request: %v", errs.ErrGeneration, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build coeffs request: %v", errs.ErrGeneration, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: coeffs request failed: %v", errs.ErrModelUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: coeffs endpoint returned %d: %s", errs.ErrModelUnavailable, resp.StatusCode, string(errBody))
	}

	var wire coeffsWireFormat
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("%w: decode coeffs response: %v", errs.ErrGeneration, err)
	}

	bundle := &Bundle{
		Frames:           wire.Frames,
		FPS:              c.cfg.FPS,
		IsCompact:        wire.IsCompact,
		ExpRange:         Range{Start: wire.ExpStart, End: wire.ExpEnd},
		PoseRange:        Range{Start: wire.PoseStart, End: wire.PoseEnd},
		LipChannels:      wire.LipChannels,
		IdentityChannels: wire.IdentityChannels,
	}

	if err := bundle.ValidateShape(); err != nil {
		return nil, fmt.Errorf("%w: coeffs response malformed: %v", errs.ErrGeneration, err)
	}

	c.logger.Info().
		Int("frames", bundle.T()).
		Int("channels", bundle.D()).
		Bool("compact", bundle.IsCompact).
		Msg("coefficients generated")

	return bundle, nil
}
