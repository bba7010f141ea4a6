package chunkdex

import (
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // "file" or "redis"
	dir      string
	addrs    []string
	password string
	prefix   string

	chunksKey  string
	vectorsKey string
	statsKey   string
	documentID string

	dimension    int
	minChunkSize int
	maxChunkSize int
	fallback     bool

	logger *zap.Logger
}

// WithDir keeps snapshots as JSON files under dir. This is the default,
// rooted at the working directory.
func WithDir(dir string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverFile
		c.dir = dir
	})
}

// WithRedis keeps snapshots in a Redis or Valkey instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverRedis
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithKeyPrefix sets the Redis key prefix. Default: "chunkdex:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.prefix = prefix
	})
}

// WithSnapshotKeys overrides the chunks, vectors and stats snapshot names.
// An empty stats name disables the stats snapshot.
func WithSnapshotKeys(chunks, vectors, stats string) Option {
	return optionFunc(func(c *clientConfig) {
		c.chunksKey = chunks
		c.vectorsKey = vectors
		c.statsKey = stats
	})
}

// WithDocumentID sets the document id used as chunk id prefix. Default: "textbook".
func WithDocumentID(id string) Option {
	return optionFunc(func(c *clientConfig) {
		c.documentID = id
	})
}

// WithDimension sets the hashed vector dimension. Default: 2000.
// Snapshots must be rebuilt after a change.
func WithDimension(dim int) Option {
	return optionFunc(func(c *clientConfig) {
		c.dimension = dim
	})
}

// WithChunkSizes sets the segmenter bounds, in characters. Defaults: 100 and 700.
func WithChunkSizes(minSize, maxSize int) Option {
	return optionFunc(func(c *clientConfig) {
		c.minChunkSize = minSize
		c.maxChunkSize = maxSize
	})
}

// WithFallback serves an empty corpus instead of failing Load when the
// snapshots are missing or unreadable.
func WithFallback() Option {
	return optionFunc(func(c *clientConfig) {
		c.fallback = true
	})
}

// WithLogger enables structured logging of corpus loads. Default: no-op.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}
