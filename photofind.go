// Package photofind provides semantic search over a family photo archive.
//
// Photos are ingested with captions and keywords, embedded through an
// OpenAI-compatible embedding endpoint, and searched by free-text query
// with cosine similarity ranking.
//
// Basic usage:
//
//	client, err := photofind.New(
//	    photofind.WithSQLite(".photofind/photofind.db"),
//	    photofind.WithOpenAI(os.Getenv("OPENAI_API_KEY")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Embed photos that have no vector yet
//	report, err := client.Photos.EmbedMissing(ctx)
//
//	// Search the archive
//	results, err := client.Search.Query(ctx, "beach sunset with grandma",
//	    service.WithLimit(10),
//	)
//
//	for _, res := range results {
//	    fmt.Println(res.Photo().Filename(), res.Score())
//	}
package photofind

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/pickworth/photofind/application/service"
	"github.com/pickworth/photofind/domain/search"
	"github.com/pickworth/photofind/infrastructure/persistence"
	"github.com/pickworth/photofind/infrastructure/provider"
	"github.com/pickworth/photofind/internal/config"
	"github.com/pickworth/photofind/internal/database"
	"github.com/pickworth/photofind/internal/log"
)

// ErrNoDatabase indicates New was called without a database option.
var ErrNoDatabase = errors.New("photofind: no database configured, use WithSQLite or WithPostgres")

// Client is the main entry point for the photofind library.
//
// Access resources via struct fields:
//
//	client.Search.Query(ctx, "query")
//	client.Photos.List(ctx, 50, 0)
type Client struct {
	// Public resource fields (direct service access)
	Search *service.Search
	Photos *service.Photos

	db      database.Database
	store   *persistence.PhotoStore
	closers []io.Closer

	logger  *slog.Logger
	apiKeys []string
	closed  atomic.Bool
	mu      sync.Mutex
}

// New creates a new Client with the given options.
func New(opts ...Option) (*Client, error) {
	cfg := newClientConfig()

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.dbURL == "" {
		return nil, ErrNoDatabase
	}

	logger := cfg.logger
	if logger == nil {
		logger = log.Default().Slog()
	}

	ctx := context.Background()

	db, err := database.NewDatabase(ctx, cfg.dbURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store, err := persistence.NewPhotoStore(ctx, db)
	if err != nil {
		errClose := db.Close()
		return nil, errors.Join(fmt.Errorf("photo store: %w", err), errClose)
	}

	var embedder search.Embedder
	if cfg.embeddingProvider != nil {
		embedder = provider.NewEmbedderAdapter(cfg.embeddingProvider)
	} else if cfg.embedder != nil {
		embedder = cfg.embedder
	} else {
		logger.Warn("no embedding provider configured, search and ingestion are unavailable")
	}

	c := &Client{
		db:      db,
		store:   store,
		logger:  logger,
		apiKeys: cfg.apiKeys,
	}

	c.Search = service.NewSearch(embedder, store, cfg.searchLimit, &c.closed, logger)
	c.Photos = service.NewPhotos(store, embedder, cfg.embeddingBudget, cfg.embeddingParallelism, &c.closed, logger)

	if cfg.embeddingProvider != nil {
		c.closers = append(c.closers, providerCloser{cfg.embeddingProvider})
	}
	c.closers = append(c.closers, cfg.closers...)

	return c, nil
}

// Logger returns the client's logger.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}

// APIKeys returns the API keys configured for write protection.
func (c *Client) APIKeys() []string {
	keys := make([]string, len(c.apiKeys))
	copy(keys, c.apiKeys)
	return keys
}

// Close releases the database connection and any provider resources.
// Subsequent service calls return ErrClientClosed.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Swap(true) {
		return nil
	}

	var errs []error
	for _, closer := range c.closers {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := c.db.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// providerCloser adapts a provider.Embedder to io.Closer.
type providerCloser struct {
	p provider.Embedder
}

func (pc providerCloser) Close() error {
	return pc.p.Close()
}

// NewFromConfig creates a Client from application configuration, wiring the
// embedding endpoint when one is configured.
func NewFromConfig(cfg config.AppConfig, logger *slog.Logger) (*Client, error) {
	opts := []Option{
		WithDatabaseURL(cfg.DBURL()),
		WithAPIKeys(cfg.APIKeys()),
		WithSearchLimit(cfg.SearchLimit()),
	}
	if logger != nil {
		opts = append(opts, WithLogger(logger))
	}

	if endpoint := cfg.EmbeddingEndpoint(); endpoint != nil && endpoint.IsConfigured() {
		opts = append(opts, WithEndpoint(*endpoint))

		budget, err := search.NewBudget(endpoint.MaxBatchChars())
		if err != nil {
			return nil, fmt.Errorf("embedding budget: %w", err)
		}
		opts = append(opts,
			WithEmbeddingBudget(budget.WithMaxBatchSize(endpoint.MaxBatchSize())),
			WithEmbeddingParallelism(endpoint.Parallelism()),
		)
	}

	return New(opts...)
}
