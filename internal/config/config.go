package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (DOCCHAT_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: DOCCHAT_PROVIDER -> provider,
	// DOCCHAT_OCR__MIN_TEXT_LEN -> ocr.min_text_len (double underscore
	// nests).
	if err := k.Load(env.Provider("DOCCHAT_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "DOCCHAT_")), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validProviders is the set of recognized chat model providers.
var validProviders = map[ProviderType]bool{
	ProviderOpenAI: true,
	ProviderOllama: true,
}

// validEmbeddingProviders additionally allows the hash placeholder.
var validEmbeddingProviders = map[ProviderType]bool{
	ProviderOpenAI: true,
	ProviderOllama: true,
	ProviderHash:   true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if !validProviders[c.Provider] {
		return fmt.Errorf("invalid provider %q: must be one of openai, ollama", c.Provider)
	}

	if c.Model == "" {
		return fmt.Errorf("model is required")
	}

	if c.EmbeddingProvider != "" && !validEmbeddingProviders[c.EmbeddingProvider] {
		return fmt.Errorf("invalid embedding_provider %q: must be one of openai, ollama, hash", c.EmbeddingProvider)
	}

	if c.ChunkSize < 0 {
		return fmt.Errorf("chunk_size must be non-negative")
	}
	if c.TopK < 0 {
		return fmt.Errorf("top_k must be non-negative")
	}
	if c.MaxContextChars < 0 {
		return fmt.Errorf("max_context_chars must be non-negative")
	}
	if c.MaxIndexedDocs < 0 {
		return fmt.Errorf("max_indexed_docs must be non-negative")
	}
	if c.OCR.MinTextLen < 0 {
		return fmt.Errorf("ocr.min_text_len must be non-negative")
	}

	if c.Classifier.ChartAspectLow >= c.Classifier.ChartAspectHigh {
		return fmt.Errorf("classifier.chart_aspect_low must be below chart_aspect_high")
	}

	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	return nil
}
