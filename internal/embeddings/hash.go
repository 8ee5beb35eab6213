package embeddings

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

// HashEmbedder is a deterministic, non-semantic placeholder: each token is
// hashed into a bucket of the output vector, which is then L2-normalized.
// It exists for structural testing and offline runs; production use
// requires a real embedding model.
type HashEmbedder struct {
	dims int
}

// NewHashEmbedder creates a placeholder embedder with the given dimensions.
func NewHashEmbedder(dims int) *HashEmbedder {
	if dims <= 0 {
		dims = 256
	}
	return &HashEmbedder{dims: dims}
}

func (e *HashEmbedder) Name() string    { return "hash-placeholder" }
func (e *HashEmbedder) Dimensions() int { return e.dims }

func (e *HashEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))
	for i, text := range texts {
		results[i] = e.vector(text)
	}
	return results, nil
}

func (e *HashEmbedder) vector(text string) []float32 {
	vec := make([]float32, e.dims)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(tok))
		vec[int(h.Sum32())%e.dims]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
	}
	return vec
}
