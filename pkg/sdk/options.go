package careerdex

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
	driver   string // "qdrant", "valkey" or "sqlite"
	url      string
	apiKey   string
	addrs    []string
	password string
	path     string

	fallbackDataset    string
	fallbackEmbeddings string

	collection       string
	vectorDimensions int
	topK             int

	embedder  Embedder
	completer Completer

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithQdrant searches a Qdrant collection over gRPC.
func WithQdrant(url, apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "qdrant"
		c.url = url
		c.apiKey = apiKey
	})
}

// WithValkey searches a Valkey instance with the search module loaded.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithSQLite searches a local sqlite-vec database file.
func WithSQLite(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "sqlite"
		c.path = path
	})
}

// WithFallbackIndex searches the cleaned dataset and its embeddings file in
// memory. Ignored when a store option is also given.
func WithFallbackIndex(datasetPath, embeddingsPath string) Option {
	return optionFunc(func(c *clientConfig) {
		c.fallbackDataset = datasetPath
		c.fallbackEmbeddings = embeddingsPath
	})
}

// WithCollection sets the collection name. Default: "careers".
func WithCollection(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.collection = name
	})
}

// WithVectorDimensions sets the collection vector size. Default: 384
// (all-MiniLM-L6-v2).
func WithVectorDimensions(dim int) Option {
	return optionFunc(func(c *clientConfig) {
		c.vectorDimensions = dim
	})
}

// WithTopK sets how many matches Recommend returns. Default: 5.
func WithTopK(k int) Option {
	return optionFunc(func(c *clientConfig) {
		c.topK = k
	})
}

// WithEmbedder sets the text embedding provider.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithCompleter narrates recommendations through a language model instead
// of the template.
func WithCompleter(cp Completer) Option {
	return optionFunc(func(c *clientConfig) {
		c.completer = cp
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default).
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
