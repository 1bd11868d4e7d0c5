package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/usharma123/ShellHacks2025/internal/analysis"
	"github.com/usharma123/ShellHacks2025/internal/cache"
	"github.com/usharma123/ShellHacks2025/internal/config"
	"github.com/usharma123/ShellHacks2025/internal/ingest"
	"github.com/usharma123/ShellHacks2025/internal/llm"
)

var rootCmd = &cobra.Command{
	Use:   "vca",
	Short: "Startup analysis pipeline",
	Long: `vca evaluates startups the way an analyst team would: it parses
freeform startup text into a structured record, fans out independent
market, product, and founder analyses to a language model, then folds
them into an integrated assessment and a final decision.

Identical requests are memoized on disk, so repeated runs over the
same inputs cost nothing.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildPipeline assembles the caller, framework, and ingestor from
// configuration.
func buildPipeline(cfg *config.Config) (*analysis.Framework, *ingest.Ingestor, error) {
	c := cache.New(cfg.Cache.Dir, cfg.Cache.TTL(), cfg.Cache.Disabled)

	var client llm.CompletionClient
	switch {
	case cfg.TestResponse != "":
		client = &llm.StubClient{Response: cfg.TestResponse}
	case cfg.Credential() == "":
		// nil client runs the pipeline offline with sentinel results.
		client = nil
	case cfg.Provider == "anthropic":
		ac, err := llm.NewAnthropicClient(cfg.AnthropicKey)
		if err != nil {
			return nil, nil, err
		}
		client = ac
	default:
		oc, err := llm.NewOpenAIClient(cfg.OpenAIKey, "")
		if err != nil {
			return nil, nil, err
		}
		client = oc
	}

	caller := llm.NewCaller(client, c, llm.CallerConfig{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		Timeout:     cfg.Call.Timeout(),
		MaxRetries:  cfg.Call.MaxRetries,
	})

	var exa *ingest.ExaClient
	if cfg.ExaKey != "" {
		exa = ingest.NewExaClient(cfg.ExaKey, "")
	}

	return analysis.New(caller, cfg.Workers), ingest.New(exa, caller), nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}
