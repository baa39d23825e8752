package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Vector store drivers.
const (
	DriverAuto   = "auto"
	DriverQdrant = "qdrant"
	DriverValkey = "valkey"
	DriverSQLite = "sqlite"
)

// Embedding providers.
const (
	EmbedderOpenAI = "openai"
	EmbedderOllama = "ollama"
	EmbedderHash   = "hash"
)

// Advisor providers.
const (
	AdvisorTemplate  = "template"
	AdvisorOpenAI    = "openai"
	AdvisorAnthropic = "anthropic"
)

// Config holds the careerdex configuration.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Logging     LoggingConfig     `yaml:"logging"`
	Data        DataConfig        `yaml:"data"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	Embedding   EmbeddingConfig   `yaml:"embedding"`
	Advisor     AdvisorConfig     `yaml:"advisor"`
	Cache       CacheConfig       `yaml:"cache"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int    `yaml:"port"`
	ReadTimeoutSec  int    `yaml:"read_timeout_sec"`
	WriteTimeoutSec int    `yaml:"write_timeout_sec"`
	ShutdownSec     int    `yaml:"shutdown_timeout_sec"`
	ServiceName     string `yaml:"service_name"`
	TopK            int    `yaml:"top_k"`
}

// DataConfig holds the data directory layout.
type DataConfig struct {
	Dir             string `yaml:"dir"`
	OccupationsFile string `yaml:"occupations_file"`
	SkillsFile      string `yaml:"skills_file"`
	JobZonesFile    string `yaml:"job_zones_file"`
	DatasetFile     string `yaml:"dataset_file"`
	EmbeddingsFile  string `yaml:"embeddings_file"`
	WagesFile       string `yaml:"wages_file"`
}

// Path joins name onto the data directory.
func (d DataConfig) Path(name string) string {
	return filepath.Join(d.Dir, name)
}

// VectorStoreConfig holds vector store connection settings.
type VectorStoreConfig struct {
	Driver     string   `yaml:"driver"` // auto, qdrant, valkey, sqlite (default: auto)
	URL        string   `yaml:"url"`
	APIKey     string   `yaml:"api_key"`
	Addrs      []string `yaml:"addrs"`
	Password   string   `yaml:"password"`
	KeyPrefix  string   `yaml:"key_prefix"`
	LocalPath  string   `yaml:"local_path"`
	Collection string   `yaml:"collection"`
	Dimensions int      `yaml:"dimensions"`
	BatchSize  int      `yaml:"batch_size"`

	FallbackToLocalOnRemoteFailure bool `yaml:"fallback_to_local_on_remote_failure"`
	ReadinessTimeout               int  `yaml:"readiness_timeout_sec"`
}

// ResolveDriver returns the concrete driver for "auto": qdrant when both URL
// and API key are set, valkey when addresses are set, sqlite otherwise.
func (v VectorStoreConfig) ResolveDriver() string {
	if v.Driver != "" && v.Driver != DriverAuto {
		return v.Driver
	}
	switch {
	case v.URL != "" && v.APIKey != "":
		return DriverQdrant
	case len(v.Addrs) > 0:
		return DriverValkey
	default:
		return DriverSQLite
	}
}

// EmbeddingConfig holds sentence encoder settings.
type EmbeddingConfig struct {
	Provider     string `yaml:"provider"` // openai, ollama, hash (default: hash)
	APIKey       string `yaml:"api_key"`
	BaseURL      string `yaml:"base_url"`
	Model        string `yaml:"model"`
	Dimensions   int    `yaml:"dimensions"`
	MaxBatchSize int    `yaml:"max_batch_size"`
}

// AdvisorConfig holds language model settings for the advisor.
type AdvisorConfig struct {
	Provider    string  `yaml:"provider"` // template, openai, anthropic
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// Enabled reports whether a credential is configured for a remote provider.
func (a AdvisorConfig) Enabled() bool {
	return a.Provider != AdvisorTemplate && a.APIKey != ""
}

// CacheConfig holds query embedding cache settings.
type CacheConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Addrs    []string `yaml:"addrs"`
	Password string   `yaml:"password"`
	TTLSec   int      `yaml:"ttl_sec"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// A .env file in the working directory, if present, is loaded first.
func Load(env string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse expands environment variables in data and decodes it.
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
	if c.HTTP.Port <= 0 {
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
	if c.HTTP.ServiceName == "" {
		c.HTTP.ServiceName = "careerdex"
	}
	if c.HTTP.TopK <= 0 {
		c.HTTP.TopK = 5
	}

	c.applyDataDefaults()
	c.applyStoreDefaults()

	if c.Embedding.Provider == "" {
		c.Embedding.Provider = EmbedderHash
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "all-MiniLM-L6-v2"
	}
	if c.Embedding.Dimensions <= 0 {
		c.Embedding.Dimensions = c.VectorStore.Dimensions
	}
	if c.Embedding.MaxBatchSize <= 0 {
		c.Embedding.MaxBatchSize = 256
	}

	if c.Advisor.Provider == "" {
		c.Advisor.Provider = AdvisorOpenAI
	}
	if c.Advisor.Model == "" {
		switch c.Advisor.Provider {
		case AdvisorAnthropic:
			c.Advisor.Model = "claude-3-5-haiku-latest"
		default:
			c.Advisor.Model = "gpt-3.5-turbo"
		}
	}
	if c.Advisor.Temperature <= 0 {
		c.Advisor.Temperature = 0.7
	}
	if c.Advisor.MaxTokens <= 0 {
		c.Advisor.MaxTokens = 150
	}

	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 86400
	}
}

func (c *Config) applyDataDefaults() {
	d := &c.Data
	if d.Dir == "" {
		d.Dir = "data"
	}
	if d.OccupationsFile == "" {
		d.OccupationsFile = "Occupation Data.txt"
	}
	if d.SkillsFile == "" {
		d.SkillsFile = "Skills.txt"
	}
	if d.JobZonesFile == "" {
		d.JobZonesFile = "Job Zones.txt"
	}
	if d.DatasetFile == "" {
		d.DatasetFile = "career_gold_dataset.csv"
	}
	if d.EmbeddingsFile == "" {
		d.EmbeddingsFile = "career_embeddings.f32"
	}
	if d.WagesFile == "" {
		d.WagesFile = "Wages and Employment.txt"
	}
}

func (c *Config) applyStoreDefaults() {
	v := &c.VectorStore
	if v.Driver == "" {
		v.Driver = DriverAuto
	}
	if v.KeyPrefix == "" {
		v.KeyPrefix = "careerdex:"
	}
	if v.LocalPath == "" {
		v.LocalPath = "qdrant_data/careers.db"
	}
	if v.Collection == "" {
		v.Collection = "careers"
	}
	if v.Dimensions <= 0 {
		v.Dimensions = 384
	}
	if v.BatchSize <= 0 {
		v.BatchSize = 100
	}
	if v.ReadinessTimeout <= 0 {
		v.ReadinessTimeout = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	switch c.VectorStore.Driver {
	case DriverAuto, DriverSQLite:
	case DriverQdrant:
		if c.VectorStore.URL == "" {
			return fmt.Errorf("vector_store.url is required for driver %q", DriverQdrant)
		}
	case DriverValkey:
		if len(c.VectorStore.Addrs) == 0 {
			return fmt.Errorf("vector_store.addrs is required for driver %q", DriverValkey)
		}
	default:
		return fmt.Errorf("vector_store.driver must be one of auto, qdrant, valkey, sqlite, got %q", c.VectorStore.Driver)
	}

	switch c.Embedding.Provider {
	case EmbedderOpenAI, EmbedderOllama, EmbedderHash:
	default:
		return fmt.Errorf("embedding.provider must be one of openai, ollama, hash, got %q", c.Embedding.Provider)
	}
	if c.Embedding.Dimensions != c.VectorStore.Dimensions {
		return fmt.Errorf(
			"embedding.dimensions (%d) must match vector_store.dimensions (%d)",
			c.Embedding.Dimensions, c.VectorStore.Dimensions,
		)
	}

	switch c.Advisor.Provider {
	case AdvisorTemplate, AdvisorOpenAI, AdvisorAnthropic:
	default:
		return fmt.Errorf("advisor.provider must be one of template, openai, anthropic, got %q", c.Advisor.Provider)
	}

	if c.Cache.Enabled && len(c.Cache.Addrs) == 0 {
		return fmt.Errorf("cache.addrs is required when cache is enabled")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// Relative to the source file, for tests run from package dirs.
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b)))
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

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
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
