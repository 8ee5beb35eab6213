package embeddings

import (
	"context"
	"fmt"
)

// Embedder defines the interface for generating text embeddings. It is
// deterministic for a given model version and swappable without touching
// the chunker, index, or ranker.
type Embedder interface {
	// Embed generates embeddings for one or more texts.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the number of dimensions in the embedding vectors.
	Dimensions() int

	// Name returns the name/identifier of the embedding model.
	Name() string
}

// UnavailableError reports that the embedding backend could not produce a
// vector. Ingestion skips only the affected chunks and continues.
type UnavailableError struct {
	Model string
	Err   error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("embedding unavailable (%s): %v", e.Model, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }
