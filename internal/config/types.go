package config

import "docchat/internal/classify"

// ProviderType identifies an embedding or chat model provider.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
	// ProviderHash is the deterministic placeholder embedder, for
	// structural testing and offline runs only.
	ProviderHash ProviderType = "hash"
)

// Config is the top-level docchat configuration, corresponding to .docchat.yml.
type Config struct {
	Provider          ProviderType `yaml:"provider" koanf:"provider"`
	Model             string       `yaml:"model" koanf:"model"`
	EmbeddingProvider ProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel    string       `yaml:"embedding_model" koanf:"embedding_model"`
	EmbeddingDims     int          `yaml:"embedding_dims" koanf:"embedding_dims"`

	ChunkSize       int `yaml:"chunk_size" koanf:"chunk_size"`
	TopK            int `yaml:"top_k" koanf:"top_k"`
	HistoryTurns    int `yaml:"history_turns" koanf:"history_turns"`
	MaxContextChars int `yaml:"max_context_chars" koanf:"max_context_chars"`
	MaxIndexedDocs  int `yaml:"max_indexed_docs" koanf:"max_indexed_docs"`

	DataDir string `yaml:"data_dir" koanf:"data_dir"`

	OCR        OCRConfig        `yaml:"ocr" koanf:"ocr"`
	Classifier ClassifierConfig `yaml:"classifier" koanf:"classifier"`
	Server     ServerConfig     `yaml:"server" koanf:"server"`
}

// OCRConfig controls the OCR fallback.
type OCRConfig struct {
	Enabled    bool   `yaml:"enabled" koanf:"enabled"`
	MinTextLen int    `yaml:"min_text_len" koanf:"min_text_len"`
	Language   string `yaml:"language" koanf:"language"`
}

// ClassifierConfig holds the image classification cutoffs.
type ClassifierConfig struct {
	ChartAspectHigh float64 `yaml:"chart_aspect_high" koanf:"chart_aspect_high"`
	ChartAspectLow  float64 `yaml:"chart_aspect_low" koanf:"chart_aspect_low"`
	EquationMaxDim  float64 `yaml:"equation_max_dim" koanf:"equation_max_dim"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port     int  `yaml:"port" koanf:"port"`
	AllowAll bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// Thresholds converts the configured cutoffs into the classifier's struct.
func (c *Config) Thresholds() classify.Thresholds {
	return classify.Thresholds{
		OCRMinTextLen:   c.OCR.MinTextLen,
		ChartAspectHigh: c.Classifier.ChartAspectHigh,
		ChartAspectLow:  c.Classifier.ChartAspectLow,
		EquationMaxDim:  c.Classifier.EquationMaxDim,
	}
}
