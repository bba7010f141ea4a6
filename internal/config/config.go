package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/chunkdex/internal/domain"
)

// Storage drivers.
const (
	DriverFile  = "file"
	DriverRedis = "redis"
)

// Config holds the chunkdex configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Corpus    CorpusConfig    `yaml:"corpus"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Segment   SegmentConfig   `yaml:"segment"`
	Storage   StorageConfig   `yaml:"storage"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// CorpusConfig holds snapshot locations and load behaviour.
type CorpusConfig struct {
	ChunksPath  string `yaml:"chunks_path"`
	VectorsPath string `yaml:"vectors_path"`
	StatsPath   string `yaml:"stats_path"`
	DocumentID  string `yaml:"document_id"`
	// Fallback serves an empty corpus when snapshots cannot be loaded.
	Fallback bool `yaml:"fallback"`
	// Watch reloads the corpus when snapshot files change (file driver only).
	Watch           bool `yaml:"watch"`
	WatchDebounceMs int  `yaml:"watch_debounce_ms"`
}

// EmbeddingConfig holds vectorizer settings.
type EmbeddingConfig struct {
	Dimension int `yaml:"dimension"`
}

// RetrievalConfig holds query defaults.
type RetrievalConfig struct {
	TopK      int      `yaml:"top_k"`
	Threshold *float64 `yaml:"threshold"`
}

// SegmentConfig holds chunk size bounds, in characters.
type SegmentConfig struct {
	MinChunkSize int `yaml:"min_chunk_size"`
	MaxChunkSize int `yaml:"max_chunk_size"`
}

// StorageConfig holds snapshot storage settings.
type StorageConfig struct {
	Driver           string   `yaml:"driver"` // file, redis (default: file)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration, expands ${VAR} references, applies
// defaults and validates the result.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Corpus.ChunksPath == "" {
		c.Corpus.ChunksPath = "data/chunks.json"
	}
	if c.Corpus.VectorsPath == "" {
		c.Corpus.VectorsPath = "data/vectors.json"
	}
	if c.Corpus.StatsPath == "" {
		c.Corpus.StatsPath = "data/stats.json"
	}
	if c.Corpus.DocumentID == "" {
		c.Corpus.DocumentID = "textbook"
	}
	if c.Corpus.WatchDebounceMs <= 0 {
		c.Corpus.WatchDebounceMs = 500
	}
	if c.Embedding.Dimension == 0 {
		c.Embedding.Dimension = domain.DefaultVectorConfig().Dimensions
	}
	if c.Retrieval.TopK == 0 {
		c.Retrieval.TopK = 5
	}
	if c.Retrieval.Threshold == nil {
		th := 0.7
		c.Retrieval.Threshold = &th
	}
	if c.Segment.MinChunkSize == 0 {
		c.Segment.MinChunkSize = 100
	}
	if c.Segment.MaxChunkSize == 0 {
		c.Segment.MaxChunkSize = 700
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverFile
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "chunkdex:"
	}
	if c.Storage.ReadinessTimeout <= 0 {
		c.Storage.ReadinessTimeout = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Corpus.ChunksPath == "" || c.Corpus.VectorsPath == "" {
		return fmt.Errorf("corpus.chunks_path and corpus.vectors_path are required")
	}
	if c.Embedding.Dimension <= 0 {
		return fmt.Errorf("embedding.dimension must be positive, got %d", c.Embedding.Dimension)
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("retrieval.top_k must be positive, got %d", c.Retrieval.TopK)
	}
	if th := c.Threshold(); th < 0 || th > 1 {
		return fmt.Errorf("retrieval.threshold must be between 0 and 1, got %g", th)
	}
	if c.Segment.MinChunkSize <= 0 || c.Segment.MaxChunkSize < c.Segment.MinChunkSize {
		return fmt.Errorf(
			"segment chunk sizes must satisfy 0 < min <= max, got min=%d max=%d",
			c.Segment.MinChunkSize, c.Segment.MaxChunkSize,
		)
	}
	switch c.Storage.Driver {
	case DriverFile:
	case DriverRedis:
		if len(c.Storage.Addrs) == 0 {
			return fmt.Errorf("storage.addrs is required for the redis driver")
		}
	default:
		return fmt.Errorf("storage.driver must be %q or %q, got %q", DriverFile, DriverRedis, c.Storage.Driver)
	}
	return nil
}

// Threshold returns the configured similarity threshold.
func (c *Config) Threshold() float64 {
	if c.Retrieval.Threshold == nil {
		return 0
	}
	return *c.Retrieval.Threshold
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
