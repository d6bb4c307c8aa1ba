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

	"github.com/kailas-cloud/contentdex/internal/domain"
)

// Store drivers.
const (
	DriverCMS           = "cms"
	DriverPostgres      = "postgres"
	DriverElasticsearch = "elasticsearch"
	DriverMemory        = "memory"
)

// Cache drivers.
const (
	CacheDriverRedis  = "redis"
	CacheDriverValkey = "valkey"
)

// MaxResultLimit is the hard ceiling for both per-category and page limits.
const MaxResultLimit = domain.MaxPageSize

// Config holds the contentdex API configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Store   StoreConfig   `yaml:"store"`
	Cache   CacheConfig   `yaml:"cache"`
	Search  SearchConfig  `yaml:"search"`
	Auth    AuthConfig    `yaml:"auth"`
	Logging LoggingConfig `yaml:"logging"`
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

// StoreConfig selects and configures the content store.
type StoreConfig struct {
	Driver           string              `yaml:"driver"` // cms, postgres, elasticsearch, memory (default: cms)
	ReadinessTimeout int                 `yaml:"readiness_timeout_sec"`
	CMS              CMSConfig           `yaml:"cms"`
	Postgres         PostgresConfig      `yaml:"postgres"`
	Elasticsearch    ElasticsearchConfig `yaml:"elasticsearch"`
	Memory           MemoryConfig        `yaml:"memory"`
}

// CMSConfig holds headless CMS REST API settings.
type CMSConfig struct {
	BaseURL         string `yaml:"base_url"`
	APIToken        string `yaml:"api_token"`
	TimeoutSec      int    `yaml:"timeout_sec"`
	MaxRetries      int    `yaml:"max_retries"`
	BreakerFailures int    `yaml:"breaker_failures"`
	BreakerOpenSec  int    `yaml:"breaker_open_sec"`
}

// PostgresConfig holds Postgres mirror settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"max_conns"`
}

// ElasticsearchConfig holds Elasticsearch mirror settings.
type ElasticsearchConfig struct {
	Addrs       []string `yaml:"addrs"`
	Username    string   `yaml:"username"`
	Password    string   `yaml:"password"`
	IndexPrefix string   `yaml:"index_prefix"`
}

// MemoryConfig holds in-memory fixture store settings.
type MemoryConfig struct {
	FixturesPath string `yaml:"fixtures_path"`
}

// CacheConfig holds search result cache settings.
type CacheConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Driver    string   `yaml:"driver"` // redis, valkey (default: valkey)
	Addrs     []string `yaml:"addrs"`
	Password  string   `yaml:"password"`
	TTLSec    int      `yaml:"ttl_sec"`
	KeyPrefix string   `yaml:"key_prefix"`
}

// SearchConfig holds federated search tuning.
type SearchConfig struct {
	CategoryTimeoutMs int `yaml:"category_timeout_ms"`
	PerCategoryLimit  int `yaml:"per_category_limit"`
	PageLimit         int `yaml:"page_limit"`
	MaxParallel       int `yaml:"max_parallel"` // 0 = one task per category
	DescriptionLength int `yaml:"description_length"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// A .env file (ENV_FILE, default .env) is loaded first when present.
func Load(env string) (Config, error) {
	if err := loadDotEnv(); err != nil {
		return Config{}, err
	}

	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse expands ${VAR} references in data, decodes it and validates the result.
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
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}

	if c.Store.Driver == "" {
		c.Store.Driver = DriverCMS
	}
	if c.Store.ReadinessTimeout <= 0 {
		c.Store.ReadinessTimeout = 10
	}
	if c.Store.CMS.TimeoutSec <= 0 {
		c.Store.CMS.TimeoutSec = 5
	}
	if c.Store.CMS.MaxRetries < 0 {
		c.Store.CMS.MaxRetries = 0
	}
	if c.Store.CMS.BreakerFailures <= 0 {
		c.Store.CMS.BreakerFailures = 5
	}
	if c.Store.CMS.BreakerOpenSec <= 0 {
		c.Store.CMS.BreakerOpenSec = 30
	}
	if c.Store.Elasticsearch.IndexPrefix == "" {
		c.Store.Elasticsearch.IndexPrefix = "contentdex-"
	}

	if c.Cache.Driver == "" {
		c.Cache.Driver = CacheDriverValkey
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 60
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = domain.KeyPrefix + "search_cache:"
	}

	if c.Search.CategoryTimeoutMs <= 0 {
		c.Search.CategoryTimeoutMs = 3000
	}
	if c.Search.PerCategoryLimit <= 0 {
		c.Search.PerCategoryLimit = MaxResultLimit
	}
	if c.Search.PageLimit <= 0 {
		c.Search.PageLimit = MaxResultLimit
	}
	if c.Search.DescriptionLength <= 0 {
		c.Search.DescriptionLength = domain.DefaultDescriptionLength
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	switch c.Store.Driver {
	case DriverCMS:
		if c.Store.CMS.BaseURL == "" {
			return fmt.Errorf("store.cms.base_url is required")
		}
	case DriverPostgres:
		if c.Store.Postgres.DSN == "" {
			return fmt.Errorf("store.postgres.dsn is required")
		}
	case DriverElasticsearch:
		if len(c.Store.Elasticsearch.Addrs) == 0 {
			return fmt.Errorf("store.elasticsearch.addrs is required")
		}
	case DriverMemory:
		if c.Store.Memory.FixturesPath == "" {
			return fmt.Errorf("store.memory.fixtures_path is required")
		}
	default:
		return fmt.Errorf(
			"store.driver must be one of %q, %q, %q, %q, got %q",
			DriverCMS, DriverPostgres, DriverElasticsearch, DriverMemory, c.Store.Driver,
		)
	}

	if c.Cache.Enabled {
		switch c.Cache.Driver {
		case CacheDriverRedis, CacheDriverValkey:
		default:
			return fmt.Errorf("cache.driver must be %q or %q, got %q", CacheDriverRedis, CacheDriverValkey, c.Cache.Driver)
		}
		if len(c.Cache.Addrs) == 0 {
			return fmt.Errorf("cache.addrs is required when cache is enabled")
		}
	}

	if c.Search.PerCategoryLimit > MaxResultLimit {
		return fmt.Errorf("search.per_category_limit must be between 1 and %d, got %d",
			MaxResultLimit, c.Search.PerCategoryLimit)
	}
	if c.Search.PageLimit > MaxResultLimit {
		return fmt.Errorf("search.page_limit must be between 1 and %d, got %d", MaxResultLimit, c.Search.PageLimit)
	}
	if c.Search.MaxParallel < 0 {
		return fmt.Errorf("search.max_parallel must not be negative, got %d", c.Search.MaxParallel)
	}
	return nil
}

// loadDotEnv loads ENV_FILE (default .env) into the process environment.
// Variables already set are left alone; a missing default file is not an error.
func loadDotEnv() error {
	path, explicit := os.LookupEnv("ENV_FILE")
	if !explicit || path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
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
