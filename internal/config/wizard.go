package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .docchat.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to docchat! Let's configure your assistant.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Chat model provider.
	providerPrompt := promptui.Select{
		Label: "Select chat model provider",
		Items: []string{"openai", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.Provider = ProviderType(providerStr)
	if cfg.Provider == ProviderOllama {
		cfg.Model = "llama3"
	}

	// 2. Embedding provider.
	embeddingPrompt := promptui.Select{
		Label: "Select embedding provider",
		Items: []string{
			"openai (text-embedding-3-small)",
			"ollama (nomic-embed-text, local)",
			"hash (deterministic placeholder, testing only)",
		},
	}
	embIdx, _, err := embeddingPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("embedding selection: %w", err)
	}
	switch embIdx {
	case 1:
		cfg.EmbeddingProvider = ProviderOllama
		cfg.EmbeddingModel = "nomic-embed-text"
	case 2:
		cfg.EmbeddingProvider = ProviderHash
		cfg.EmbeddingModel = ""
	default:
		cfg.EmbeddingProvider = ProviderOpenAI
		cfg.EmbeddingModel = "text-embedding-3-small"
	}

	// 3. Chunk size.
	chunkPrompt := promptui.Prompt{
		Label:   "Chunk size (characters)",
		Default: strconv.Itoa(cfg.ChunkSize),
		Validate: func(s string) error {
			n, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil || n <= 0 {
				return fmt.Errorf("enter a positive number")
			}
			return nil
		},
	}
	chunkStr, err := chunkPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("chunk size: %w", err)
	}
	cfg.ChunkSize, _ = strconv.Atoi(strings.TrimSpace(chunkStr))

	// 4. OCR fallback.
	ocrPrompt := promptui.Select{
		Label: "Run OCR on low-text pages (needs Tesseract, build tag \"ocr\")",
		Items: []string{"yes", "no"},
	}
	ocrIdx, _, err := ocrPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("ocr selection: %w", err)
	}
	cfg.OCR.Enabled = ocrIdx == 0

	// Check for API key.
	needsKey := cfg.Provider == ProviderOpenAI || cfg.EmbeddingProvider == ProviderOpenAI
	if envVar := APIKeyEnvVar(ProviderOpenAI); needsKey && os.Getenv(envVar) == "" {
		fmt.Printf("\nNote: Set %s in your environment before running docchat ingest.\n", envVar)
	}

	// Save to .docchat.yml.
	configPath := ".docchat.yml"
	if err := cfg.Save(configPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	return cfg, nil
}
