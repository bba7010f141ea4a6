package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig() Config {
	var cfg Config
	cfg.ApplyDefaults()
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()

	if cfg.Embedding.Dimension != 2000 {
		t.Errorf("expected dimension 2000, got %d", cfg.Embedding.Dimension)
	}
	if cfg.Retrieval.TopK != 5 {
		t.Errorf("expected top_k 5, got %d", cfg.Retrieval.TopK)
	}
	if cfg.Threshold() != 0.7 {
		t.Errorf("expected threshold 0.7, got %g", cfg.Threshold())
	}
	if cfg.Segment.MinChunkSize != 100 || cfg.Segment.MaxChunkSize != 700 {
		t.Errorf("unexpected chunk sizes: %+v", cfg.Segment)
	}
	if cfg.Storage.Driver != DriverFile {
		t.Errorf("expected file driver, got %q", cfg.Storage.Driver)
	}
	if cfg.Corpus.Fallback {
		t.Error("fallback must be opt-in")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestApplyDefaults_KeepsExplicitZeroThreshold(t *testing.T) {
	cfg, err := Parse([]byte("retrieval:\n  threshold: 0\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Threshold() != 0 {
		t.Errorf("expected explicit threshold 0 to survive defaults, got %g", cfg.Threshold())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"invalid port", func(c *Config) { c.HTTP.Port = 70000 }, "http.port"},
		{"missing chunks path", func(c *Config) { c.Corpus.ChunksPath = "" }, "corpus.chunks_path"},
		{"negative dimension", func(c *Config) { c.Embedding.Dimension = -1 }, "embedding.dimension"},
		{"negative top_k", func(c *Config) { c.Retrieval.TopK = -3 }, "retrieval.top_k"},
		{"threshold above one", func(c *Config) { th := 1.5; c.Retrieval.Threshold = &th }, "retrieval.threshold"},
		{"min above max", func(c *Config) { c.Segment.MinChunkSize = 800 }, "segment chunk sizes"},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "s3" }, "storage.driver"},
		{"redis without addrs", func(c *Config) { c.Storage.Driver = DriverRedis }, "storage.addrs"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error mentioning %q, got %q", tc.wantErr, err.Error())
			}
		})
	}
}

func TestValidate_RedisWithAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.Driver = DriverRedis
	cfg.Storage.Addrs = []string{"localhost:6379"}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("CHUNKDEX_TEST_PATH", "/srv/chunks.json")

	tests := []struct {
		in, want string
	}{
		{"path: ${CHUNKDEX_TEST_PATH}", "path: /srv/chunks.json"},
		{"path: ${CHUNKDEX_TEST_UNSET:-fallback}", "path: fallback"},
		{"path: ${CHUNKDEX_TEST_PATH:-fallback}", "path: /srv/chunks.json"},
		{"path: ${CHUNKDEX_TEST_UNSET}", "path: "},
	}
	for _, tc := range tests {
		if got := string(expandEnvVars([]byte(tc.in))); got != tc.want {
			t.Errorf("expandEnvVars(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv("CHUNKDEX_TEST_DIM", "64")
	path := filepath.Join(t.TempDir(), "test.yaml")
	data := `
http:
  port: 9090
corpus:
  chunks_path: /data/c.json
  vectors_path: /data/v.json
  fallback: true
embedding:
  dimension: ${CHUNKDEX_TEST_DIM}
storage:
  driver: redis
  addrs: ["localhost:6379"]
auth:
  api_keys: ["k1", "k2"]
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.HTTP.Port != 9090 || cfg.Embedding.Dimension != 64 {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if !cfg.Corpus.Fallback || cfg.Corpus.ChunksPath != "/data/c.json" {
		t.Errorf("unexpected corpus config: %+v", cfg.Corpus)
	}
	if len(cfg.Auth.APIKeys) != 2 || cfg.Auth.APIKeys[1] != "k2" {
		t.Errorf("unexpected api keys: %v", cfg.Auth.APIKeys)
	}
	if cfg.Storage.KeyPrefix != "chunkdex:" {
		t.Errorf("expected default key prefix, got %q", cfg.Storage.KeyPrefix)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if got := GetEnv(); got != "local" {
		t.Errorf("expected local, got %q", got)
	}
	t.Setenv("ENV", "prod")
	if got := GetEnv(); got != "prod" {
		t.Errorf("expected prod, got %q", got)
	}
}

func TestLoad_LocalConfig(t *testing.T) {
	cfg, err := Load("local")
	if err != nil {
		t.Fatalf("Load(local): %v", err)
	}
	if cfg.Storage.Driver != DriverFile {
		t.Errorf("expected file driver for local, got %q", cfg.Storage.Driver)
	}
}
