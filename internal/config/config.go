package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Vector store drivers.
const (
	DriverRedis  = "redis"
	DriverValkey = "valkey"
	DriverMilvus = "milvus"
)

// Rerank backends. An empty backend disables reranking.
const (
	RerankTEI    = "tei"
	RerankCohere = "cohere"
)

// Config holds the catalogqa configuration.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	Index       IndexConfig       `yaml:"index"`
	Embedding   EmbeddingConfig   `yaml:"embedding"`
	Rerank      RerankConfig      `yaml:"rerank"`
	Chat        ChatConfig        `yaml:"chat"`
	Rules       RulesConfig       `yaml:"rules"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// VectorStoreConfig selects and connects the nearest-neighbour store.
type VectorStoreConfig struct {
	Driver           string       `yaml:"driver"` // redis, valkey, milvus (default: redis)
	Addrs            []string     `yaml:"addrs"`
	Username         string       `yaml:"username"`
	Password         string       `yaml:"password"`
	DB               int          `yaml:"db"`
	ReadinessTimeout int          `yaml:"readiness_timeout_sec"`
	IndexName        string       `yaml:"index"`
	KeyPrefix        string       `yaml:"key_prefix"`
	Milvus           MilvusConfig `yaml:"milvus"`
}

// MilvusConfig holds Milvus connection settings.
type MilvusConfig struct {
	Address     string `yaml:"address"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	Collection  string `yaml:"collection"`
	VectorField string `yaml:"vector_field"`
	SearchEf    int    `yaml:"search_ef"`
}

// IndexConfig holds HNSW build settings for the catalog index.
type IndexConfig struct {
	HNSWM           int `yaml:"hnsw_m"`
	HNSWEFConstruct int `yaml:"hnsw_ef_construction"`
	ChunkSize       int `yaml:"chunk_size"`
	ChunkOverlap    int `yaml:"chunk_overlap"`
	BatchSize       int `yaml:"batch_size"`
}

// EmbeddingConfig holds the query embedder settings. The local backend is
// preferred; the remote one is used when the local probe fails.
type EmbeddingConfig struct {
	Local               BackendConfig `yaml:"local"`
	Remote              BackendConfig `yaml:"remote"`
	QueryInstruction    string        `yaml:"query_instruction"`
	DocumentInstruction string        `yaml:"document_instruction"` // prefixes chunk texts at indexing time
	MaxBatchSize        int           `yaml:"max_batch_size"`
	Cache               CacheConfig   `yaml:"cache"`
}

// BackendConfig holds one OpenAI-compatible embedding endpoint.
type BackendConfig struct {
	BaseURL    string  `yaml:"base_url"`
	APIKey     string  `yaml:"api_key"`
	Model      string  `yaml:"model"`
	Dimensions int     `yaml:"dimensions"`
	RateLimit  float64 `yaml:"rate_limit"` // requests per second, 0 = unlimited
	Burst      int     `yaml:"burst"`
	TimeoutSec int     `yaml:"timeout_sec"`
}

// CacheConfig holds the embedding cache settings.
type CacheConfig struct {
	Disabled  bool   `yaml:"disabled"`
	TTLSec    int    `yaml:"ttl_sec"`
	KeyPrefix string `yaml:"key_prefix"`
}

// RerankConfig holds the optional cross-encoder settings.
type RerankConfig struct {
	Backend    string `yaml:"backend"` // "", tei, cohere
	BaseURL    string `yaml:"base_url"`
	APIKey     string `yaml:"api_key"`
	Model      string `yaml:"model"`
	TimeoutSec int    `yaml:"timeout_sec"`
	Pool       int    `yaml:"pool"`
}

// ChatConfig tunes chat retrieval.
type ChatConfig struct {
	PoolMultiplier int  `yaml:"pool_multiplier"`
	MinPool        int  `yaml:"min_pool"`
	CollapseChunks bool `yaml:"collapse_chunks"`
}

// RulesConfig points at an optional rule table file.
type RulesConfig struct {
	Path string `yaml:"path"` // empty = built-in tables
}

// LocalEnabled reports whether a local embedding backend is configured.
func (e EmbeddingConfig) LocalEnabled() bool { return e.Local.BaseURL != "" }

// RemoteEnabled reports whether a remote embedding backend is configured.
func (e EmbeddingConfig) RemoteEnabled() bool { return e.Remote.APIKey != "" }

// Timeout returns the backend request timeout.
func (b BackendConfig) Timeout() time.Duration { return time.Duration(b.TimeoutSec) * time.Second }

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse expands ${VAR} references, decodes YAML, applies defaults and validates.
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

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
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
		c.HTTP.Port = 8000
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.VectorStore.Driver == "" {
		c.VectorStore.Driver = DriverRedis
	}
	if c.VectorStore.ReadinessTimeout <= 0 {
		c.VectorStore.ReadinessTimeout = 10
	}
	if c.VectorStore.IndexName == "" {
		c.VectorStore.IndexName = "products"
	}
	if c.VectorStore.KeyPrefix == "" {
		c.VectorStore.KeyPrefix = "catalog:chunk:"
	}
	if c.Index.HNSWM <= 0 {
		c.Index.HNSWM = 16
	}
	if c.Index.HNSWEFConstruct <= 0 {
		c.Index.HNSWEFConstruct = 200
	}
	if c.Index.ChunkSize <= 0 {
		c.Index.ChunkSize = 1200
	}
	if c.Index.ChunkOverlap <= 0 {
		c.Index.ChunkOverlap = 150
	}
	if c.Index.BatchSize <= 0 {
		c.Index.BatchSize = 64
	}
	if c.Embedding.Remote.BaseURL == "" && c.Embedding.RemoteEnabled() {
		c.Embedding.Remote.BaseURL = "https://api.openai.com/v1"
	}
	if c.Embedding.Remote.Model == "" {
		c.Embedding.Remote.Model = "text-embedding-3-small"
	}
	for _, b := range []*BackendConfig{&c.Embedding.Local, &c.Embedding.Remote} {
		if b.TimeoutSec <= 0 {
			b.TimeoutSec = 30
		}
	}
	if c.Embedding.Cache.TTLSec <= 0 {
		c.Embedding.Cache.TTLSec = 7 * 24 * 3600
	}
	if c.Rerank.TimeoutSec <= 0 {
		c.Rerank.TimeoutSec = 10
	}
	if c.Rerank.Pool <= 0 {
		c.Rerank.Pool = 20
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	switch c.VectorStore.Driver {
	case DriverRedis, DriverValkey:
		if len(c.VectorStore.Addrs) == 0 {
			return fmt.Errorf("vector_store.addrs is required for driver %q", c.VectorStore.Driver)
		}
	case DriverMilvus:
		if c.VectorStore.Milvus.Address == "" {
			return fmt.Errorf("vector_store.milvus.address is required")
		}
		if c.VectorStore.Milvus.Collection == "" {
			return fmt.Errorf("vector_store.milvus.collection is required")
		}
	default:
		return fmt.Errorf("vector_store.driver must be redis, valkey or milvus, got %q", c.VectorStore.Driver)
	}

	if !c.Embedding.LocalEnabled() && !c.Embedding.RemoteEnabled() {
		return fmt.Errorf("embedding: configure local.base_url or remote.api_key")
	}
	if c.Embedding.LocalEnabled() && c.Embedding.Local.Model == "" {
		return fmt.Errorf("embedding.local.model is required")
	}

	switch c.Rerank.Backend {
	case "":
	case RerankTEI:
		if c.Rerank.BaseURL == "" {
			return fmt.Errorf("rerank.base_url is required for backend %q", RerankTEI)
		}
	case RerankCohere:
		if c.Rerank.APIKey == "" {
			return fmt.Errorf("rerank.api_key is required for backend %q", RerankCohere)
		}
	default:
		return fmt.Errorf("rerank.backend must be empty, \"tei\" or \"cohere\", got %q", c.Rerank.Backend)
	}

	if c.Index.ChunkOverlap >= c.Index.ChunkSize {
		return fmt.Errorf("index.chunk_overlap (%d) must be smaller than index.chunk_size (%d)",
			c.Index.ChunkOverlap, c.Index.ChunkSize)
	}
	return nil
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
