package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"docchat/internal/catalog"
	"docchat/internal/config"
	"docchat/internal/embeddings"
	"docchat/internal/engine"
	"docchat/internal/index"
	"docchat/internal/llm"
	"docchat/internal/ocr"
	"docchat/internal/pipeline"
	"docchat/internal/reader"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `docchat init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newEmbedder creates an embeddings.Embedder based on config.
func newEmbedder(cfg *config.Config) (embeddings.Embedder, error) {
	provider := cfg.EmbeddingProvider
	if provider == "" {
		provider = cfg.Provider
	}

	switch provider {
	case config.ProviderOpenAI:
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for OpenAI embeddings")
		}
		return embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(cfg.EmbeddingModel)), nil
	case config.ProviderOllama:
		return embeddings.NewOllamaEmbedder(cfg.EmbeddingModel, cfg.EmbeddingDims, ""), nil
	case config.ProviderHash:
		return embeddings.NewHashEmbedder(cfg.EmbeddingDims), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", provider)
	}
}

// newProvider creates the chat model provider based on config.
func newProvider(cfg *config.Config) (llm.Provider, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required")
		}
		return llm.NewOpenAIProvider(apiKey, cfg.Model), nil
	case config.ProviderOllama:
		return llm.NewOllamaProvider("http://localhost:11434", cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// newEngine wires the full ingestion and answer stack from config. The
// provider may be nil for commands that never call the model; pipeOpts are
// appended to the config-derived pipeline options.
func newEngine(cfg *config.Config, provider llm.Provider, pipeOpts ...pipeline.Option) *engine.Engine {
	var store index.Store = index.New()
	if cfg.MaxIndexedDocs > 0 {
		store = index.NewLRU(store, cfg.MaxIndexedDocs)
	}

	embedder, err := newEmbedder(cfg)
	exitOnError(err)

	opts := []pipeline.Option{
		pipeline.WithThresholds(cfg.Thresholds()),
		pipeline.WithChunkSize(cfg.ChunkSize),
	}
	if cfg.OCR.Enabled {
		opts = append(opts, pipeline.WithOCR(ocr.NewTesseract(cfg.OCR.Language)))
	}
	opts = append(opts, pipeOpts...)

	return engine.New(engine.Options{
		Open:            reader.Open,
		Embedder:        embedder,
		Provider:        provider,
		Store:           store,
		Pipeline:        pipeline.New(embedder, store, opts...),
		Model:           cfg.Model,
		TopK:            cfg.TopK,
		HistoryTurns:    cfg.HistoryTurns,
		MaxContextChars: cfg.MaxContextChars,
	})
}

// openCatalog opens the persistent document catalog under the data dir.
func openCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	return catalog.Open(filepath.Join(cfg.DataDir, "catalog.db"))
}
