package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/normanking/personagen/internal/coeffs"
	"github.com/normanking/personagen/internal/config"
	"github.com/normanking/personagen/internal/governor"
	"github.com/normanking/personagen/internal/llm"
	"github.com/normanking/personagen/internal/logging"
	"github.com/normanking/personagen/internal/orchestrator"
	"github.com/normanking/personagen/internal/persona"
	"github.com/normanking/personagen/internal/render"
	"github.com/normanking/personagen/internal/synth"
)

type cliFlags struct {
	Prompt         string
	Persona        string
	Style          string
	EnableIntent   bool
	EnableGovernor bool
	Temperature    float64
}

func main() {
	flags := parseFlags()

	log.Println("===========================================")
	log.Println("  personagen")
	log.Println("===========================================")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(nil)
	if err != nil {
		log.Fatalf("failed to initialize logging: %v", err)
	}
	defer logger.Close()

	componentLog := logger.Component("main")

	if flags.Prompt == "" {
		componentLog.Fatal().Msg("prompt is required (-prompt)")
	}

	personas := persona.DefaultRegistry()

	generator := llm.NewOpenAIGenerator(&llm.Config{
		Model:          cfg.LLM.Model,
		APIKey:         cfg.LLM.APIKey,
		Temperature:    cfg.LLM.Temperature,
		MaxRetries:     cfg.LLM.MaxRetries,
		RequestTimeout: cfg.LLM.RequestTimeout,
	}, logger.Zerolog())

	provider := synth.NewHTTPProvider(&synth.Config{
		Provider:           cfg.Synth.Provider,
		Endpoint:           cfg.Synth.Endpoint,
		APIKey:             cfg.Synth.APIKey,
		ReferenceAudioPath: cfg.Synth.ReferenceAudioPath,
		Language:           cfg.Synth.Language,
		Temperature:        cfg.Synth.Temperature,
		RepetitionPenalty:  cfg.Synth.RepetitionPenalty,
		TopP:               cfg.Synth.TopP,
		RequestTimeout:     cfg.Synth.RequestTimeout,
	}, logger.Zerolog())

	coeffsClient := coeffs.NewClient(&coeffs.Config{
		Endpoint:       cfg.Coeffs.Endpoint,
		FPS:            cfg.Coeffs.FPS,
		RequestTimeout: cfg.Coeffs.RequestTimeout,
	}, logger.Zerolog())

	gov := governor.New(logger.Zerolog())

	renderer := render.NewAdapter(&render.Config{
		Endpoint:       cfg.Renderer.Endpoint,
		Enhancer:       cfg.Renderer.Enhancer,
		FPS:            cfg.Renderer.FPS,
		Resolution:     cfg.Renderer.Resolution,
		RequestTimeout: cfg.Renderer.RequestTimeout,
	}, logger.Zerolog())

	orch := orchestrator.New(
		personas,
		generator,
		provider,
		&synth.Config{
			Provider:           cfg.Synth.Provider,
			Endpoint:           cfg.Synth.Endpoint,
			Language:           cfg.Synth.Language,
			Temperature:        cfg.Synth.Temperature,
			RepetitionPenalty:  cfg.Synth.RepetitionPenalty,
			TopP:               cfg.Synth.TopP,
			RequestTimeout:     cfg.Synth.RequestTimeout,
		},
		coeffsClient,
		gov,
		renderer,
		cfg.Output.OutputsRoot,
		logger.Zerolog(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		componentLog.Warn().Msg("shutdown signal received, cancelling in-flight request")
		cancel()
	}()

	opts := orchestrator.Options{
		EnableIntent:   flags.EnableIntent,
		EnableGovernor: flags.EnableGovernor,
		StyleOverride:  flags.Style,
		Temperature:    flags.Temperature,
	}

	start := time.Now()
	result, err := orch.Generate(ctx, flags.Prompt, flags.Persona, opts)
	if err != nil {
		componentLog.Error().Err(err).Msg("generation failed")
		os.Exit(1)
	}
	componentLog.Info().Dur("elapsed", time.Since(start)).Str("requestId", result.RequestID).Msg("generation complete")

	printResult(result)
}

func printResult(result *orchestrator.Result) {
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Println(result.RequestID)
		return
	}
	fmt.Println(string(out))
}

func parseFlags() *cliFlags {
	flags := &cliFlags{}

	flag.StringVar(&flags.Prompt, "prompt", "", "free-form prompt describing what to say")
	flag.StringVar(&flags.Persona, "persona", "mkbhd", "persona ID (mkbhd, ijustine)")
	flag.StringVar(&flags.Style, "style", "", "style preset override (calm_tech, energetic, lecturer)")
	flag.BoolVar(&flags.EnableIntent, "intent", true, "use the LLM script-intent generator instead of raw prompt text")
	flag.BoolVar(&flags.EnableGovernor, "governor", true, "run generated motion through the motion governor")
	flag.Float64Var(&flags.Temperature, "temperature", 0.7, "LLM sampling temperature")

	flag.Parse()

	return flags
}
