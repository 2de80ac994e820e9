package search

import (
	"sort"

	"github.com/pickworth/photofind/domain/photo"
)

// Rank scores every candidate against the query vector, sorts by score
// descending, and truncates to the first limit entries.
//
// Ties are broken by photo ID ascending so that output is deterministic
// regardless of input order. Candidates are never mutated; each result's
// embedding is stripped before it is returned.
//
// A non-positive limit yields an empty result. Callers that treat a bad
// limit as a client error validate it before calling Rank.
func Rank(query []float64, candidates []photo.Photo, limit int) []ScoredResult {
	if len(candidates) == 0 || limit <= 0 {
		return []ScoredResult{}
	}

	results := make([]ScoredResult, 0, len(candidates))
	for _, c := range candidates {
		score := CosineSimilarity(query, c.Embedding())
		results = append(results, NewScoredResult(c, score))
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].photo.ID() < results[j].photo.ID()
	})

	if limit > len(results) {
		limit = len(results)
	}
	return results[:limit]
}
