package photo

import (
	"context"
	"errors"
)

// ErrNotFound indicates the requested photo does not exist.
var ErrNotFound = errors.New("photo not found")

// ListOptions controls pagination for Store.List.
type ListOptions struct {
	limit  int
	offset int
}

// NewListOptions creates ListOptions. Non-positive values disable the
// corresponding constraint.
func NewListOptions(limit, offset int) ListOptions {
	return ListOptions{limit: limit, offset: offset}
}

// Limit returns the maximum number of records to return (0 = no limit).
func (o ListOptions) Limit() int { return o.limit }

// Offset returns the number of records to skip.
func (o ListOptions) Offset() int { return o.offset }

// Store defines persistence operations for photos.
type Store interface {
	// Save inserts or replaces a photo record.
	Save(ctx context.Context, p Photo) (Photo, error)

	// SaveAll inserts or replaces a batch of photo records.
	SaveAll(ctx context.Context, photos []Photo) error

	// Get retrieves a single photo by ID.
	Get(ctx context.Context, id string) (Photo, error)

	// List retrieves photos ordered by ID with pagination.
	List(ctx context.Context, opts ListOptions) ([]Photo, error)

	// All retrieves the full corpus including embeddings. Ranking is global
	// over the whole corpus at query time, so this is read per search.
	All(ctx context.Context) ([]Photo, error)

	// WithoutEmbedding retrieves photos that have no embedding vector yet.
	WithoutEmbedding(ctx context.Context) ([]Photo, error)

	// Count returns the total number of photos.
	Count(ctx context.Context) (int64, error)
}
