// Package config provides configuration management for personagen.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	LLM      LLMConfig      `mapstructure:"llm"`
	Synth    SynthConfig    `mapstructure:"synth"`
	Coeffs   CoeffsConfig   `mapstructure:"coeffs"`
	Governor GovernorConfig `mapstructure:"governor"`
	Renderer RendererConfig `mapstructure:"renderer"`
	Output   OutputConfig   `mapstructure:"output"`
}

// LLMConfig configures the Script Intent Generator's LLM client.
type LLMConfig struct {
	Provider       string  `mapstructure:"provider"`
	Model          string  `mapstructure:"model"`
	APIKey         string  `mapstructure:"api_key"`
	Temperature    float64 `mapstructure:"temperature"`
	MaxRetries     int     `mapstructure:"max_retries"`
	RequestTimeout int     `mapstructure:"request_timeout_seconds"`
}

// SynthConfig configures the Segmented Synthesizer's TTS backend.
type SynthConfig struct {
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

// CoeffsConfig configures the Coefficient Source adapter.
type CoeffsConfig struct {
	Endpoint       string `mapstructure:"endpoint"`
	FPS            int    `mapstructure:"fps"`
	RequestTimeout int    `mapstructure:"request_timeout_seconds"`
}

// GovernorConfig configures the Motion Governor's defaults.
type GovernorConfig struct {
	DefaultStyle string `mapstructure:"default_style"`
	FPS          int    `mapstructure:"fps"`
}

// RendererConfig configures the Renderer Adapter.
type RendererConfig struct {
	Endpoint       string `mapstructure:"endpoint"`
	Enhancer       string `mapstructure:"enhancer"`
	FPS            int    `mapstructure:"fps"`
	Resolution     int    `mapstructure:"resolution"`
	RequestTimeout int    `mapstructure:"request_timeout_seconds"`
}

// OutputConfig configures where per-request artifacts are written.
type OutputConfig struct {
	OutputsRoot string `mapstructure:"outputs_root"`
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:       "openai",
			Model:          "gpt-4o-mini",
			Temperature:    0.7,
			MaxRetries:     2,
			RequestTimeout: 30,
		},
		Synth: SynthConfig{
			Provider:          "http",
			Language:          "en",
			Temperature:       0.65,
			RepetitionPenalty: 2.5,
			TopP:              0.85,
			RequestTimeout:    60,
		},
		Coeffs: CoeffsConfig{
			FPS:            25,
			RequestTimeout: 120,
		},
		Governor: GovernorConfig{
			DefaultStyle: "calm_tech",
			FPS:          25,
		},
		Renderer: RendererConfig{
			FPS:            25,
			Resolution:     256,
			RequestTimeout: 300,
		},
		Output: OutputConfig{
			OutputsRoot: "outputs",
		},
	}
}

// Load reads configuration from file and environment, falling back to
// defaults when no config file exists yet.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return cfg, err
	}

	configDir := filepath.Join(homeDir, ".personagen")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return cfg, err
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("PERSONAGEN")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return cfg, err
		}
		if err := Save(cfg); err != nil {
			return cfg, err
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Save writes the configuration to file.
func Save(cfg *Config) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	configDir := filepath.Join(homeDir, ".personagen")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	viper.Set("llm", cfg.LLM)
	viper.Set("synth", cfg.Synth)
	viper.Set("coeffs", cfg.Coeffs)
	viper.Set("governor", cfg.Governor)
	viper.Set("renderer", cfg.Renderer)
	viper.Set("output", cfg.Output)

	configPath := filepath.Join(configDir, "config.yaml")
	return viper.WriteConfigAs(configPath)
}

// GetConfigDir returns the configuration directory path.
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".personagen"), nil
}
