// Package search provides the semantic search domain: cosine similarity
// scoring and relevance ranking over photo embeddings.
package search

import "math"

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns a value between -1 (opposite) and 1 (identical).
//
// Degenerate inputs score 0 rather than failing: nil or empty vectors,
// vectors of different lengths, and zero-magnitude vectors all yield the
// neutral no-similarity value. This is deliberate policy so that corpus
// entries with missing or corrupt embeddings rank last instead of aborting
// a search, and so that the undefined zero-norm division never produces
// a NaN that could reach a caller.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, magA, magB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}

	if magA == 0 || magB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(magA) * math.Sqrt(magB))
}
