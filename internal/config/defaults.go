package config

import (
	"docchat/internal/chunker"
	"docchat/internal/classify"
	"docchat/internal/index"
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	th := classify.DefaultThresholds()
	return &Config{
		Provider:          ProviderOpenAI,
		Model:             "gpt-4o-mini",
		EmbeddingProvider: ProviderOpenAI,
		EmbeddingModel:    "text-embedding-3-small",
		EmbeddingDims:     768,

		ChunkSize:       chunker.DefaultMaxSize,
		TopK:            index.DefaultTopK,
		HistoryTurns:    6,
		MaxContextChars: 0,
		MaxIndexedDocs:  0,

		DataDir: ".docchat",

		OCR: OCRConfig{
			Enabled:    true,
			MinTextLen: th.OCRMinTextLen,
			Language:   "eng",
		},
		Classifier: ClassifierConfig{
			ChartAspectHigh: th.ChartAspectHigh,
			ChartAspectLow:  th.ChartAspectLow,
			EquationMaxDim:  th.EquationMaxDim,
		},
		Server: ServerConfig{
			Port: 8377,
		},
	}
}

// APIKeyEnvVar returns the conventional environment variable name for the
// API key of the given provider.
func APIKeyEnvVar(provider ProviderType) string {
	switch provider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	default:
		return ""
	}
}
