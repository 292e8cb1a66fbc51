package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/normanking/personagen/internal/errs"
	"github.com/normanking/personagen/internal/intent"
	"github.com/rs/zerolog"
)

// scriptIntentSchema is the JSON schema the strict-mode call is constrained
// to produce.
var scriptIntentSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"segments": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"text":           map[string]any{"type": "string"},
					"pause_after_ms": map[string]any{"type": "integer"},
					"emphasis":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"sentence_end":   map[string]any{"type": "boolean"},
				},
				"required":             []string{"text", "pause_after_ms", "emphasis", "sentence_end"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []string{"segments"},
	"additionalProperties": false,
}

// OpenAIGenerator implements Generator via an OpenAI-compatible chat
// completions endpoint, escalating through strict JSON schema mode,
// permissive repaired-JSON extraction, and a sentence-split fallback that
// never errors.
type OpenAIGenerator struct {
	client openai.Client
	cfg    *Config
	logger zerolog.Logger
}

// NewOpenAIGenerator builds a Generator backed by the OpenAI API.
func NewOpenAIGenerator(cfg *Config, logger zerolog.Logger) *OpenAIGenerator {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
		option.WithRequestTimeout(time.Duration(cfg.RequestTimeout)*time.Second),
	)
	return &OpenAIGenerator{
		client: client,
		cfg:    cfg,
		logger: logger.With().Str("component", "llm").Logger(),
	}
}

func (g *OpenAIGenerator) systemPrompt(req Request) string {
	return fmt.Sprintf(
		"You are writing narration for %s. %s "+
			"Respond with JSON only: {\"segments\":[{\"text\":...,\"pause_after_ms\":...,\"emphasis\":[...],\"sentence_end\":bool}]}.",
		req.PersonaName, req.StyleGuidance,
	)
}

// Generate runs the strict/permissive/fallback cascade. Content-shaped
// failures (bad or missing JSON) fall through the cascade and never
// surface as an error; a transport or auth failure at any attempt is
// reported immediately as errs.ErrModelUnavailable so the orchestrator can
// abort rather than keep retrying a dead upstream.
func (g *OpenAIGenerator) Generate(ctx context.Context, req Request) (*intent.ScriptIntent, error) {
	si, err := g.strictAttempt(ctx, req)
	if err == nil {
		return si, nil
	}
	if errors.Is(err, errs.ErrModelUnavailable) {
		return nil, err
	}
	g.logger.Warn().Err(err).Msg("strict JSON attempt failed, trying permissive attempt")

	si, err = g.permissiveAttempt(ctx, req)
	if err == nil {
		return si, nil
	}
	if errors.Is(err, errs.ErrModelUnavailable) {
		return nil, err
	}
	g.logger.Warn().Err(err).Msg("permissive attempt failed, falling back to sentence split")

	return fallbackIntent(req.Prompt), nil
}

func (g *OpenAIGenerator) strictAttempt(ctx context.Context, req Request) (*intent.ScriptIntent, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: g.cfg.Model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(g.systemPrompt(req)),
			openai.UserMessage(req.Prompt),
		},
		Temperature: param.NewOpt(g.cfg.Temperature),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "script_intent",
					Schema: scriptIntentSchema,
					Strict: param.NewOpt(true),
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: strict llm call: %v", errs.ErrModelUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty choices", errs.ErrGeneration)
	}
	choice := resp.Choices[0]
	if choice.Message.Refusal != "" {
		return nil, fmt.Errorf("%w: model refused: %s", errs.ErrGeneration, choice.Message.Refusal)
	}
	if choice.FinishReason != "stop" {
		return nil, fmt.Errorf("%w: finish reason %s", errs.ErrGeneration, choice.FinishReason)
	}
	if choice.Message.Content == "" {
		return nil, fmt.Errorf("%w: empty content", errs.ErrGeneration)
	}

	si, err := unmarshalScriptIntent([]byte(choice.Message.Content))
	if err != nil || len(si.Segments) == 0 {
		return nil, fmt.Errorf("%w: unmarshal strict response: %v", errs.ErrGeneration, err)
	}
	return si, nil
}

func (g *OpenAIGenerator) permissiveAttempt(ctx context.Context, req Request) (*intent.ScriptIntent, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: g.cfg.Model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(g.systemPrompt(req)),
			openai.UserMessage(req.Prompt),
		},
		Temperature: param.NewOpt(g.cfg.Temperature),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: permissive llm call: %v", errs.ErrModelUnavailable, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("%w: empty permissive response", errs.ErrGeneration)
	}

	si, err := extractScriptIntent(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: extract permissive response: %v", errs.ErrGeneration, err)
	}
	return si, nil
}
