package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pickworth/photofind/domain/photo"
	"github.com/pickworth/photofind/domain/search"
)

// ReviewOption configures a photo review update.
type ReviewOption func(*reviewConfig)

type reviewConfig struct {
	caption  *string
	keywords []string
	metadata map[string]any
}

// WithCaption sets a new caption for the photo.
func WithCaption(caption string) ReviewOption {
	return func(c *reviewConfig) {
		c.caption = &caption
	}
}

// WithKeywords replaces the photo's keyword list.
func WithKeywords(keywords []string) ReviewOption {
	return func(c *reviewConfig) {
		kw := make([]string, len(keywords))
		copy(kw, keywords)
		c.keywords = kw
	}
}

// WithMetadata replaces the photo's pass-through metadata.
func WithMetadata(metadata map[string]any) ReviewOption {
	return func(c *reviewConfig) {
		m := make(map[string]any, len(metadata))
		for k, v := range metadata {
			m[k] = v
		}
		c.metadata = m
	}
}

// EmbedReport summarises an ingestion embedding run.
type EmbedReport struct {
	embedded int
	skipped  int
	batches  int
}

// Embedded returns the number of photos that received a vector.
func (r EmbedReport) Embedded() int { return r.embedded }

// Skipped returns the number of photos skipped for lack of text.
func (r EmbedReport) Skipped() int { return r.skipped }

// Batches returns the number of provider batches sent.
func (r EmbedReport) Batches() int { return r.batches }

// Photos manages the photo archive: browsing, review edits, imports and
// ingestion embedding.
type Photos struct {
	store       photo.Store
	embedder    search.Embedder
	budget      search.Budget
	parallelism int
	closed      *atomic.Bool
	logger      *slog.Logger
}

// NewPhotos creates a new Photos service.
func NewPhotos(
	store photo.Store,
	embedder search.Embedder,
	budget search.Budget,
	parallelism int,
	closed *atomic.Bool,
	logger *slog.Logger,
) *Photos {
	if logger == nil {
		logger = slog.Default()
	}
	if parallelism <= 0 {
		parallelism = 1
	}
	return &Photos{
		store:       store,
		embedder:    embedder,
		budget:      budget,
		parallelism: parallelism,
		closed:      closed,
		logger:      logger,
	}
}

// List returns photos ordered by ID with pagination.
func (p *Photos) List(ctx context.Context, limit, offset int) ([]photo.Photo, error) {
	if p.closed != nil && p.closed.Load() {
		return nil, ErrClientClosed
	}
	if limit < 0 || offset < 0 {
		return nil, fmt.Errorf("%w: limit and offset must be non-negative", ErrInvalidInput)
	}

	photos, err := p.store.List(ctx, photo.NewListOptions(limit, offset))
	if err != nil {
		return nil, fmt.Errorf("%w: list photos: %w", ErrDependencyUnavailable, err)
	}
	return photos, nil
}

// Get returns a single photo by ID. photo.ErrNotFound passes through so
// the API layer can map it to a 404.
func (p *Photos) Get(ctx context.Context, id string) (photo.Photo, error) {
	if p.closed != nil && p.closed.Load() {
		return photo.Photo{}, ErrClientClosed
	}
	if strings.TrimSpace(id) == "" {
		return photo.Photo{}, fmt.Errorf("%w: missing photo id", ErrInvalidInput)
	}
	return p.store.Get(ctx, id)
}

// Count returns the number of photos in the archive.
func (p *Photos) Count(ctx context.Context) (int64, error) {
	if p.closed != nil && p.closed.Load() {
		return 0, ErrClientClosed
	}
	count, err := p.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: count photos: %w", ErrDependencyUnavailable, err)
	}
	return count, nil
}

// UpdateReview applies review edits to a photo. Changing the caption or
// keywords invalidates the stored embedding so the next ingestion run
// re-embeds the photo with its corrected text.
func (p *Photos) UpdateReview(ctx context.Context, id string, opts ...ReviewOption) (photo.Photo, error) {
	if p.closed != nil && p.closed.Load() {
		return photo.Photo{}, ErrClientClosed
	}

	cfg := &reviewConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.caption == nil && cfg.keywords == nil && cfg.metadata == nil {
		return photo.Photo{}, fmt.Errorf("%w: no review fields to update", ErrInvalidInput)
	}

	current, err := p.store.Get(ctx, id)
	if err != nil {
		return photo.Photo{}, err
	}

	updated := current
	textChanged := false
	if cfg.caption != nil && *cfg.caption != current.Caption() {
		updated = updated.WithCaption(*cfg.caption)
		textChanged = true
	}
	if cfg.keywords != nil {
		updated = updated.WithKeywords(cfg.keywords)
		textChanged = true
	}
	if cfg.metadata != nil {
		updated = updated.WithMetadata(cfg.metadata)
	}
	if textChanged {
		updated = updated.WithoutEmbedding()
	}

	saved, err := p.store.Save(ctx, updated)
	if err != nil {
		return photo.Photo{}, fmt.Errorf("%w: save photo: %w", ErrDependencyUnavailable, err)
	}

	p.logger.InfoContext(ctx, "photo review updated",
		"photo_id", id,
		"embedding_invalidated", textChanged,
	)
	return saved, nil
}

// Import inserts or replaces a batch of photos in the archive. Imported
// photos carry no embedding until EmbedMissing runs.
func (p *Photos) Import(ctx context.Context, photos []photo.Photo) (int, error) {
	if p.closed != nil && p.closed.Load() {
		return 0, ErrClientClosed
	}
	if len(photos) == 0 {
		return 0, nil
	}
	for _, ph := range photos {
		if strings.TrimSpace(ph.ID()) == "" {
			return 0, fmt.Errorf("%w: photo with empty id", ErrInvalidInput)
		}
	}

	if err := p.store.SaveAll(ctx, photos); err != nil {
		return 0, fmt.Errorf("%w: import photos: %w", ErrDependencyUnavailable, err)
	}

	p.logger.InfoContext(ctx, "photos imported", "count", len(photos))
	return len(photos), nil
}

// EmbedMissing embeds every photo that has no vector yet. Texts are batched
// under the character budget and batches run concurrently up to the
// configured parallelism. Photos with no usable text are skipped.
func (p *Photos) EmbedMissing(ctx context.Context) (EmbedReport, error) {
	if p.closed != nil && p.closed.Load() {
		return EmbedReport{}, ErrClientClosed
	}
	if p.embedder == nil {
		return EmbedReport{}, fmt.Errorf("%w: no embedding provider configured", ErrDependencyUnavailable)
	}

	pending, err := p.store.WithoutEmbedding(ctx)
	if err != nil {
		return EmbedReport{}, fmt.Errorf("%w: list unembedded photos: %w", ErrDependencyUnavailable, err)
	}

	var report EmbedReport
	embeddable := make([]photo.Photo, 0, len(pending))
	texts := make([]string, 0, len(pending))
	for _, ph := range pending {
		text := EmbedText(ph)
		if text == "" {
			report.skipped++
			continue
		}
		embeddable = append(embeddable, ph)
		texts = append(texts, p.budget.Truncate(text))
	}

	if len(embeddable) == 0 {
		return report, nil
	}

	batches := p.budget.Batches(texts)
	report.batches = len(batches)

	start := time.Now()
	var mu sync.Mutex
	embedded := make([]photo.Photo, 0, len(embeddable))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.parallelism)

	offset := 0
	for _, batch := range batches {
		batchStart := offset
		batchTexts := batch
		offset += len(batch)

		g.Go(func() error {
			vectors, err := p.embedder.Embed(gctx, batchTexts)
			if err != nil {
				return fmt.Errorf("embed batch: %w", err)
			}
			if len(vectors) != len(batchTexts) {
				return fmt.Errorf("embed batch: expected %d vectors, got %d", len(batchTexts), len(vectors))
			}

			mu.Lock()
			defer mu.Unlock()
			for i, vec := range vectors {
				embedded = append(embedded, embeddable[batchStart+i].WithEmbedding(vec))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return EmbedReport{}, fmt.Errorf("%w: %w", ErrDependencyUnavailable, err)
	}

	if err := p.store.SaveAll(ctx, embedded); err != nil {
		return EmbedReport{}, fmt.Errorf("%w: save embeddings: %w", ErrDependencyUnavailable, err)
	}

	report.embedded = len(embedded)
	p.logger.InfoContext(ctx, "ingestion embedding complete",
		"embedded", report.embedded,
		"skipped", report.skipped,
		"batches", report.batches,
		"duration", time.Since(start),
	)
	return report, nil
}

// EmbedText builds the text embedded for a photo: caption, keywords and
// filename joined into one passage. Returns empty when the photo has no
// usable text.
func EmbedText(p photo.Photo) string {
	parts := make([]string, 0, 3)
	if caption := strings.TrimSpace(p.Caption()); caption != "" {
		parts = append(parts, caption)
	}
	if kw := p.Keywords(); len(kw) > 0 {
		parts = append(parts, strings.Join(kw, ", "))
	}
	if len(parts) == 0 {
		// Filename alone is a weak signal; use it only as a last resort.
		if fn := strings.TrimSpace(p.Filename()); fn != "" {
			parts = append(parts, fn)
		}
	}
	return strings.Join(parts, "\n")
}
