package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	if cfg.OCR.MinTextLen != 50 {
		t.Errorf("ocr.min_text_len = %d, want 50", cfg.OCR.MinTextLen)
	}
	if cfg.ChunkSize != 512 {
		t.Errorf("chunk_size = %d, want 512", cfg.ChunkSize)
	}
	if cfg.TopK != 5 {
		t.Errorf("top_k = %d, want 5", cfg.TopK)
	}
	if cfg.HistoryTurns != 6 {
		t.Errorf("history_turns = %d, want 6", cfg.HistoryTurns)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != ProviderOpenAI {
		t.Errorf("provider = %q, want openai", cfg.Provider)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".docchat.yml")
	content := `provider: ollama
model: llama3
embedding_provider: hash
chunk_size: 256
ocr:
  enabled: false
  min_text_len: 80
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != ProviderOllama {
		t.Errorf("provider = %q, want ollama", cfg.Provider)
	}
	if cfg.ChunkSize != 256 {
		t.Errorf("chunk_size = %d, want 256", cfg.ChunkSize)
	}
	if cfg.OCR.Enabled {
		t.Error("ocr.enabled = true, want false")
	}
	if cfg.OCR.MinTextLen != 80 {
		t.Errorf("ocr.min_text_len = %d, want 80", cfg.OCR.MinTextLen)
	}
	// Unset keys keep their defaults.
	if cfg.TopK != 5 {
		t.Errorf("top_k = %d, want default 5", cfg.TopK)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("DOCCHAT_PROVIDER", "ollama")
	t.Setenv("DOCCHAT_TOP_K", "3")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != ProviderOllama {
		t.Errorf("provider = %q, want ollama (env override)", cfg.Provider)
	}
	if cfg.TopK != 3 {
		t.Errorf("top_k = %d, want 3 (env override)", cfg.TopK)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing provider", func(c *Config) { c.Provider = "" }},
		{"unknown provider", func(c *Config) { c.Provider = "carrier-pigeon" }},
		{"missing model", func(c *Config) { c.Model = "" }},
		{"unknown embedding provider", func(c *Config) { c.EmbeddingProvider = "random" }},
		{"negative chunk size", func(c *Config) { c.ChunkSize = -1 }},
		{"negative top_k", func(c *Config) { c.TopK = -1 }},
		{"inverted aspect bounds", func(c *Config) { c.Classifier.ChartAspectLow = 3.0 }},
		{"missing data dir", func(c *Config) { c.DataDir = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate accepted an invalid config")
			}
		})
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".docchat.yml")

	cfg := DefaultConfig()
	cfg.Provider = ProviderOllama
	cfg.Model = "llama3"
	cfg.ChunkSize = 300
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Provider != ProviderOllama || loaded.Model != "llama3" || loaded.ChunkSize != 300 {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}
