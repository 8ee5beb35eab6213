package embeddings

import (
	"context"
	"math"
	"testing"
)

func TestHashEmbedder_Deterministic(t *testing.T) {
	e := NewHashEmbedder(64)
	ctx := context.Background()

	a, err := e.Embed(ctx, []string{"photosynthesis requires light"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	b, err := e.Embed(ctx, []string{"photosynthesis requires light"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}

	for i := range a[0] {
		if a[0][i] != b[0][i] {
			t.Fatalf("vectors differ at %d: %v vs %v", i, a[0][i], b[0][i])
		}
	}
}

func TestHashEmbedder_DimensionsAndNorm(t *testing.T) {
	e := NewHashEmbedder(32)
	vecs, err := e.Embed(context.Background(), []string{"some words here", "other text"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vecs) != 2 {
		t.Fatalf("got %d vectors, want 2", len(vecs))
	}
	for _, v := range vecs {
		if len(v) != 32 {
			t.Errorf("got %d dims, want 32", len(v))
		}
		var norm float64
		for _, x := range v {
			norm += float64(x) * float64(x)
		}
		if math.Abs(norm-1.0) > 1e-5 {
			t.Errorf("vector norm² = %v, want 1.0", norm)
		}
	}
}

func TestHashEmbedder_EmptyText(t *testing.T) {
	e := NewHashEmbedder(16)
	vecs, err := e.Embed(context.Background(), []string{""})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	for _, x := range vecs[0] {
		if x != 0 {
			t.Fatal("empty text should embed to the zero vector")
		}
	}
}
