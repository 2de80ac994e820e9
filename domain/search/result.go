package search

import "github.com/pickworth/photofind/domain/photo"

// ScoredResult is a candidate photo annotated with its relevance score.
// The photo it carries never contains an embedding vector — the vector is
// consumed during ranking and stripped before the result is constructed.
type ScoredResult struct {
	photo photo.Photo
	score float64
}

// NewScoredResult creates a ScoredResult, dropping the photo's embedding.
func NewScoredResult(p photo.Photo, score float64) ScoredResult {
	return ScoredResult{
		photo: p.WithoutEmbedding(),
		score: score,
	}
}

// Photo returns the candidate photo (without embedding).
func (r ScoredResult) Photo() photo.Photo { return r.photo }

// Score returns the similarity score. Higher is more relevant.
func (r ScoredResult) Score() float64 { return r.score }
