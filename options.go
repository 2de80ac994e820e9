package photofind

import (
	"io"
	"log/slog"

	"github.com/pickworth/photofind/domain/search"
	"github.com/pickworth/photofind/infrastructure/provider"
	"github.com/pickworth/photofind/internal/config"
)

// clientConfig holds configuration for Client construction.
type clientConfig struct {
	dbURL                string
	embeddingProvider    provider.Embedder
	embedder             search.Embedder
	logger               *slog.Logger
	apiKeys              []string
	searchLimit          int
	embeddingBudget      search.Budget
	embeddingParallelism int
	closers              []io.Closer
}

// newClientConfig creates a clientConfig with defaults from internal/config.
func newClientConfig() *clientConfig {
	return &clientConfig{
		searchLimit:          config.DefaultSearchLimit,
		embeddingBudget:      search.DefaultBudget().WithMaxBatchSize(config.DefaultEndpointMaxBatchSize),
		embeddingParallelism: 1,
	}
}

// Option configures the Client.
type Option func(*clientConfig)

// WithSQLite configures SQLite as the database.
func WithSQLite(path string) Option {
	return func(c *clientConfig) {
		c.dbURL = "sqlite:///" + path
	}
}

// WithPostgres configures PostgreSQL as the database.
func WithPostgres(dsn string) Option {
	return func(c *clientConfig) {
		c.dbURL = dsn
	}
}

// WithDatabaseURL sets the database connection URL directly.
// Supported formats: sqlite:///path, postgres://..., postgresql://...
func WithDatabaseURL(url string) Option {
	return func(c *clientConfig) {
		c.dbURL = url
	}
}

// WithOpenAI sets OpenAI as the embedding provider.
func WithOpenAI(apiKey string) Option {
	return func(c *clientConfig) {
		c.embeddingProvider = provider.NewOpenAIProvider(apiKey)
	}
}

// WithEndpoint sets an OpenAI-compatible embedding endpoint with custom
// configuration (base URL, model, retries, dimensions, response cache).
func WithEndpoint(endpoint config.Endpoint) Option {
	return func(c *clientConfig) {
		c.embeddingProvider = provider.NewOpenAIProviderFromEndpoint(endpoint)
	}
}

// WithEmbeddingProvider sets a custom embedding provider.
func WithEmbeddingProvider(p provider.Embedder) Option {
	return func(c *clientConfig) {
		c.embeddingProvider = p
	}
}

// WithEmbedder sets a domain-level embedder directly, bypassing the provider
// layer. Intended for tests.
func WithEmbedder(e search.Embedder) Option {
	return func(c *clientConfig) {
		c.embedder = e
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithAPIKeys sets the API keys used for write protection.
func WithAPIKeys(keys []string) Option {
	return func(c *clientConfig) {
		c.apiKeys = make([]string, len(keys))
		copy(c.apiKeys, keys)
	}
}

// WithSearchLimit sets the default number of search results.
// Values <= 0 are ignored.
func WithSearchLimit(n int) Option {
	return func(c *clientConfig) {
		if n > 0 {
			c.searchLimit = n
		}
	}
}

// WithEmbeddingBudget sets the character budget for embedding batches.
func WithEmbeddingBudget(b search.Budget) Option {
	return func(c *clientConfig) {
		c.embeddingBudget = b
	}
}

// WithEmbeddingParallelism sets how many embedding batches are dispatched
// concurrently during ingestion. Defaults to 1. Values <= 0 are ignored.
func WithEmbeddingParallelism(n int) Option {
	return func(c *clientConfig) {
		if n > 0 {
			c.embeddingParallelism = n
		}
	}
}

// WithCloser registers an additional resource to close with the client.
func WithCloser(closer io.Closer) Option {
	return func(c *clientConfig) {
		c.closers = append(c.closers, closer)
	}
}
