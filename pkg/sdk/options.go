package catalogqa

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // "redis", "valkey" or "milvus"
	addrs    []string
	password string

	milvusAddr       string
	milvusCollection string

	indexName string
	keyPrefix string

	embedder   Embedder
	reranker   Reranker
	rerankPool int

	rulesPath      string
	collapseChunks bool

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithRedis reads the catalog from a Redis instance with the search module.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithValkey reads the catalog from a Valkey instance with valkey-search.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithMilvus reads the catalog from a Milvus collection.
func WithMilvus(addr, collection string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "milvus"
		c.milvusAddr = addr
		c.milvusCollection = collection
	})
}

// WithIndex overrides the FT index name and the chunk key prefix.
// Defaults: "products" and "catalog:chunk:".
func WithIndex(name, keyPrefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.indexName = name
		c.keyPrefix = keyPrefix
	})
}

// WithEmbedder sets the query embedder. Required.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithReranker enables reranking. pool is the number of candidates
// retrieved for reranking; zero keeps the default of 20.
func WithReranker(r Reranker, pool int) Option {
	return optionFunc(func(c *clientConfig) {
		c.reranker = r
		c.rerankPool = pool
	})
}

// WithRules loads keyword rules from a YAML file instead of the built-in tables.
func WithRules(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.rulesPath = path
	})
}

// WithChunkCollapse keeps only the best chunk of each product in chat context.
func WithChunkCollapse() Option {
	return optionFunc(func(c *clientConfig) {
		c.collapseChunks = true
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
