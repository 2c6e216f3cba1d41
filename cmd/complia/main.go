package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/complia-labs/complia-cli/internal/adapters/driven/config/file"
	"github.com/complia-labs/complia-cli/internal/adapters/driven/docsource/filesystem"
	"github.com/complia-labs/complia-cli/internal/adapters/driven/embedding/cached"
	embopenai "github.com/complia-labs/complia-cli/internal/adapters/driven/embedding/openai"
	llmopenai "github.com/complia-labs/complia-cli/internal/adapters/driven/llm/openai"
	"github.com/complia-labs/complia-cli/internal/adapters/driven/storage/sqlite"
	"github.com/complia-labs/complia-cli/internal/adapters/driven/vectorstore/memory"
	"github.com/complia-labs/complia-cli/internal/adapters/driving/cli"
	"github.com/complia-labs/complia-cli/internal/core/services"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	_ = godotenv.Load()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := file.NewConfigStore(os.Getenv("COMPLIA_CONFIG_DIR"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	prompts, err := file.NewPromptStore(os.Getenv("COMPLIA_PROMPT_DIR"))
	if err != nil {
		return fmt.Errorf("load prompts: %w", err)
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		apiKey = cfg.GetString("openai.api_key")
	}

	svc := &cli.Services{}

	// The API-backed services are optional at startup: commands that
	// need them report the missing configuration themselves.
	if apiKey != "" {
		llm, err := llmopenai.NewLLMService(llmopenai.Config{
			APIKey:            apiKey,
			BaseURL:           cfg.GetString("openai.base_url"),
			Model:             cfg.GetString("llm.model"),
			Timeout:           durationSetting(cfg, "llm.timeout_seconds"),
			RequestsPerSecond: float64(cfg.GetInt("llm.requests_per_second")),
		})
		if err != nil {
			return fmt.Errorf("create llm service: %w", err)
		}

		embedder, err := embopenai.NewEmbeddingService(embopenai.Config{
			APIKey:  apiKey,
			BaseURL: cfg.GetString("openai.base_url"),
			Model:   cfg.GetString("embedding.model"),
		})
		if err != nil {
			return fmt.Errorf("create embedding service: %w", err)
		}

		cachedEmbedder, err := cached.New(embedder, cfg.GetInt("embedding.cache_size"))
		if err != nil {
			return fmt.Errorf("create embedding cache: %w", err)
		}

		source, err := filesystem.New(corpusDir(cfg))
		if err != nil {
			return fmt.Errorf("open corpus: %w", err)
		}

		classifier, err := services.NewClassifier(llm, prompts, cfg.GetInt("intent.cache_size"))
		if err != nil {
			return fmt.Errorf("create classifier: %w", err)
		}

		store := memory.NewStore()

		transcript, err := sqlite.NewTranscriptStore(os.Getenv("COMPLIA_DATA_DIR"))
		if err != nil {
			return fmt.Errorf("open transcript store: %w", err)
		}
		defer transcript.Close()

		svc.Assistant = services.NewAssistant(
			classifier, cachedEmbedder, store, llm, prompts,
			services.AssistantConfig{TopK: cfg.GetInt("retrieval.top_k")},
		)
		svc.Indexer = services.NewIndexer(source, cachedEmbedder, store)
		svc.Transcript = transcript
		svc.Source = source
	}

	cli.SetServices(svc)
	cli.SetVersion(version)
	return cli.Execute()
}

func corpusDir(cfg *file.ConfigStore) string {
	if dir := os.Getenv("COMPLIA_CORPUS_DIR"); dir != "" {
		return dir
	}
	if dir := cfg.GetString("corpus.dir"); dir != "" {
		return dir
	}
	return "corpus"
}

func durationSetting(cfg *file.ConfigStore, key string) time.Duration {
	return time.Duration(cfg.GetInt(key)) * time.Second
}
