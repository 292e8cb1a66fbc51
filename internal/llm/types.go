// Package llm generates a structured ScriptIntent from a free-form prompt,
// escalating through a strict-JSON attempt, a permissive/repaired attempt,
// and finally a sentence-split fallback that never fails.
package llm

import (
	"context"

	"github.com/normanking/personagen/internal/intent"
)

// Generator produces a ScriptIntent for a prompt under a persona's style.
type Generator interface {
	Generate(ctx context.Context, req Request) (*intent.ScriptIntent, error)
}

// Request carries everything the generator needs to build its prompt.
type Request struct {
	Prompt        string
	PersonaName   string
	StyleGuidance string
}

// Config configures the strict/permissive/fallback cascade.
type Config struct {
	Model          string  `mapstructure:"model"`
	APIKey         string  `mapstructure:"api_key"`
	Temperature    float64 `mapstructure:"temperature"`
	MaxRetries     int     `mapstructure:"max_retries"`
	RequestTimeout int     `mapstructure:"request_timeout_seconds"`
}

// DefaultConfig returns sensible defaults for the LLM client.
func DefaultConfig() *Config {
	return &Config{
		Model:          "gpt-4o-mini",
		Temperature:    0.7,
		MaxRetries:     2,
		RequestTimeout: 30,
	}
}
