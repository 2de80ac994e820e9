package provider

import (
	"context"

	"github.com/pickworth/photofind/domain/search"
)

// EmbedderAdapter adapts a provider Embedder to the domain search.Embedder
// interface, so the search service depends only on the domain contract.
type EmbedderAdapter struct {
	provider Embedder
}

// NewEmbedderAdapter creates a new EmbedderAdapter.
func NewEmbedderAdapter(p Embedder) *EmbedderAdapter {
	return &EmbedderAdapter{provider: p}
}

// Embed generates embeddings for the given texts.
func (a *EmbedderAdapter) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	resp, err := a.provider.Embed(ctx, NewEmbeddingRequest(texts))
	if err != nil {
		return nil, err
	}
	return resp.Embeddings(), nil
}

var _ search.Embedder = (*EmbedderAdapter)(nil)
