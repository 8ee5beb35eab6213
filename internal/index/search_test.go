package index

import (
	"math"
	"testing"
)

func TestSearch_ExactMatchRanksFirst(t *testing.T) {
	records := []Record{
		rec("d", 1, "off axis", 0.9, 0.1, 0),
		rec("d", 2, "exact", 0.6, 0.8, 0),
		rec("d", 3, "orthogonal", 0, 0, 1),
	}
	query := []float32{0.6, 0.8, 0}

	results := Search(query, records, 3)
	if len(results) == 0 {
		t.Fatal("no results")
	}
	if results[0].Span.Text != "exact" {
		t.Errorf("top result = %q, want the identical vector", results[0].Span.Text)
	}
	if math.Abs(results[0].Score-1.0) > 1e-6 {
		t.Errorf("identical vector score = %v, want 1.0", results[0].Score)
	}
}

func TestSearch_NonIncreasingOrder(t *testing.T) {
	records := []Record{
		rec("d", 1, "a", 1, 0),
		rec("d", 2, "b", 0.5, 0.5),
		rec("d", 3, "c", 0, 1),
		rec("d", 4, "d", 0.9, 0.1),
	}
	results := Search([]float32{1, 0}, records, 10)
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("results not in non-increasing order: %v then %v", results[i-1].Score, results[i].Score)
		}
	}
}

func TestSearch_ZeroVectorsExcluded(t *testing.T) {
	records := []Record{
		rec("d", 1, "zero", 0, 0),
		rec("d", 2, "real", 1, 0),
	}
	results := Search([]float32{1, 0}, records, 10)
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1 (zero vector excluded)", len(results))
	}
	if results[0].Span.Text != "real" {
		t.Errorf("unexpected result %q", results[0].Span.Text)
	}
}

func TestSearch_ZeroQueryMatchesNothing(t *testing.T) {
	records := []Record{rec("d", 1, "a", 1, 0)}
	if results := Search([]float32{0, 0}, records, 5); len(results) != 0 {
		t.Errorf("zero query returned %d results, want 0", len(results))
	}
}

// Equal scores must keep the original chunk order for determinism.
func TestSearch_TiesKeepChunkOrder(t *testing.T) {
	records := []Record{
		rec("d", 1, "first", 2, 0),  // same direction, same cosine
		rec("d", 2, "second", 4, 0), // magnitude does not affect cosine
		rec("d", 3, "third", 1, 0),
	}
	results := Search([]float32{1, 0}, records, 3)
	want := []string{"first", "second", "third"}
	for i, w := range want {
		if results[i].Span.Text != w {
			t.Errorf("result %d = %q, want %q", i, results[i].Span.Text, w)
		}
	}
}

func TestSearch_TopKBounds(t *testing.T) {
	records := []Record{
		rec("d", 1, "a", 1, 0),
		rec("d", 2, "b", 0.9, 0.1),
		rec("d", 3, "c", 0.8, 0.2),
	}
	if got := Search([]float32{1, 0}, records, 2); len(got) != 2 {
		t.Errorf("topK=2 returned %d results", len(got))
	}
	// Non-positive topK falls back to the default.
	if got := Search([]float32{1, 0}, records, 0); len(got) != 3 {
		t.Errorf("topK=0 returned %d results, want all 3 (default %d)", len(got), DefaultTopK)
	}
}
