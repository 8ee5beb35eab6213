package index

import (
	"math"
	"sort"
)

// DefaultTopK is the number of records returned when the caller does not
// ask for a specific count.
const DefaultTopK = 5

// ScoredRecord pairs a record with its cosine similarity to the query.
// Scores are exposed so callers can apply their own thresholds.
type ScoredRecord struct {
	Record
	Score float64
}

// Search returns the topK records most similar to the query vector, in
// non-increasing score order. Ties keep the original chunk order, so
// results are deterministic. Records whose vector is all-zero (undefined
// similarity) are excluded rather than raising; a zero query vector
// matches nothing.
func Search(query []float32, records []Record, topK int) []ScoredRecord {
	if topK <= 0 {
		topK = DefaultTopK
	}

	qnorm := norm(query)
	if qnorm == 0 {
		return nil
	}

	scored := make([]ScoredRecord, 0, len(records))
	for _, r := range records {
		rnorm := norm(r.Vector)
		if rnorm == 0 {
			continue
		}
		scored = append(scored, ScoredRecord{
			Record: r,
			Score:  dot(query, r.Vector) / (qnorm * rnorm),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
