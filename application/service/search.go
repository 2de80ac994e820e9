// Package service provides application layer services that orchestrate
// domain operations.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/pickworth/photofind/domain/photo"
	"github.com/pickworth/photofind/domain/search"
)

// SearchOption configures a search request.
type SearchOption func(*searchConfig)

// searchConfig holds search parameters.
type searchConfig struct {
	limit int
}

// WithLimit sets the maximum number of results. The service rejects
// non-positive values with ErrInvalidInput, so the raw value is kept here.
func WithLimit(n int) SearchOption {
	return func(c *searchConfig) {
		c.limit = n
	}
}

// Search orchestrates semantic search over the photo corpus: embed the
// query text, score it against every stored photo, rank and truncate.
type Search struct {
	embedder     search.Embedder
	store        photo.Store
	defaultLimit int
	closed       *atomic.Bool
	logger       *slog.Logger
}

// NewSearch creates a new Search service.
func NewSearch(
	embedder search.Embedder,
	store photo.Store,
	defaultLimit int,
	closed *atomic.Bool,
	logger *slog.Logger,
) *Search {
	if logger == nil {
		logger = slog.Default()
	}
	if defaultLimit <= 0 {
		defaultLimit = search.DefaultLimit
	}
	return &Search{
		embedder:     embedder,
		store:        store,
		defaultLimit: defaultLimit,
		closed:       closed,
		logger:       logger,
	}
}

// Available reports whether semantic search is configured.
func (s *Search) Available() bool {
	return s.embedder != nil
}

// Query runs a semantic search for the given free-text query.
//
// An empty or whitespace-only query and a non-positive explicit limit both
// return ErrInvalidInput. Embedding provider failures return
// ErrDependencyUnavailable with the cause wrapped for logging.
func (s *Search) Query(ctx context.Context, queryText string, opts ...SearchOption) ([]search.ScoredResult, error) {
	if s.closed != nil && s.closed.Load() {
		return nil, ErrClientClosed
	}
	if !s.Available() {
		return nil, fmt.Errorf("%w: no embedding provider configured", ErrDependencyUnavailable)
	}

	cfg := &searchConfig{limit: s.defaultLimit}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidInput, cfg.limit)
	}

	query := search.NewQuery(queryText, cfg.limit)
	if query.IsEmpty() {
		return nil, fmt.Errorf("%w: missing query", ErrInvalidInput)
	}

	start := time.Now()

	vectors, err := s.embedder.Embed(ctx, []string{query.Text()})
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %w", ErrDependencyUnavailable, err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: embedder returned no vector", ErrDependencyUnavailable)
	}

	candidates, err := s.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load corpus: %w", ErrDependencyUnavailable, err)
	}

	results := search.Rank(vectors[0], candidates, query.Limit())

	s.logger.DebugContext(ctx, "search complete",
		"corpus_size", len(candidates),
		"results", len(results),
		"limit", query.Limit(),
		"duration", time.Since(start),
	)

	return results, nil
}
