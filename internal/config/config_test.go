package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP: HTTPConfig{Port: 8080},
		Store: StoreConfig{
			Driver: DriverCMS,
			CMS:    CMSConfig{BaseURL: "http://localhost:1337"},
		},
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_UnknownDriver(t *testing.T) {
	cfg := validConfig()
	cfg.Store.Driver = "mongo"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
	if !strings.Contains(err.Error(), `got "mongo"`) {
		t.Errorf("unexpected error message: %q", err.Error())
	}
}

func TestValidate_DriverRequiredFields(t *testing.T) {
	tests := []struct {
		driver string
		want   string
	}{
		{DriverCMS, "store.cms.base_url is required"},
		{DriverPostgres, "store.postgres.dsn is required"},
		{DriverElasticsearch, "store.elasticsearch.addrs is required"},
		{DriverMemory, "store.memory.fixtures_path is required"},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			cfg := Config{
				HTTP:  HTTPConfig{Port: 8080},
				Store: StoreConfig{Driver: tt.driver},
			}
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Error() != tt.want {
				t.Errorf("got %q, want %q", err.Error(), tt.want)
			}
		})
	}
}

func TestValidate_CacheRequiresAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()
	cfg.Cache.Enabled = true

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing cache addrs")
	}

	cfg.Cache.Addrs = []string{"localhost:6379"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.Cache.Driver = "memcached"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown cache driver")
	}
}

func TestValidate_LimitsCapped(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()
	cfg.Search.PageLimit = 50

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for page_limit above the cap")
	}

	cfg.Search.PageLimit = 20
	cfg.Search.PerCategoryLimit = 21
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for per_category_limit above the cap")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Store.Driver != DriverCMS {
		t.Errorf("expected driver=cms, got %q", cfg.Store.Driver)
	}
	if cfg.Store.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Store.ReadinessTimeout)
	}
	if cfg.Search.CategoryTimeoutMs != 3000 {
		t.Errorf("expected CategoryTimeoutMs=3000, got %d", cfg.Search.CategoryTimeoutMs)
	}
	if cfg.Search.PerCategoryLimit != 20 || cfg.Search.PageLimit != 20 {
		t.Errorf("expected limits 20/20, got %d/%d", cfg.Search.PerCategoryLimit, cfg.Search.PageLimit)
	}
	if cfg.Search.DescriptionLength != 200 {
		t.Errorf("expected DescriptionLength=200, got %d", cfg.Search.DescriptionLength)
	}
	if cfg.Cache.Driver != CacheDriverValkey {
		t.Errorf("expected cache driver valkey, got %q", cfg.Cache.Driver)
	}
	if cfg.Cache.KeyPrefix != "contentdex:search_cache:" {
		t.Errorf("expected KeyPrefix='contentdex:search_cache:', got %q", cfg.Cache.KeyPrefix)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:   HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Store:  StoreConfig{Driver: DriverPostgres, ReadinessTimeout: 15},
		Cache:  CacheConfig{KeyPrefix: "custom:", TTLSec: 5},
		Search: SearchConfig{CategoryTimeoutMs: 500, PageLimit: 10},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Store.Driver != DriverPostgres {
		t.Errorf("expected driver=postgres, got %q", cfg.Store.Driver)
	}
	if cfg.Cache.KeyPrefix != "custom:" || cfg.Cache.TTLSec != 5 {
		t.Errorf("cache overridden: %+v", cfg.Cache)
	}
	if cfg.Search.CategoryTimeoutMs != 500 || cfg.Search.PageLimit != 10 {
		t.Errorf("search overridden: %+v", cfg.Search)
	}
}

func TestParse_ExpandsEnvVars(t *testing.T) {
	t.Setenv("CONTENTDEX_TEST_CMS_URL", "https://cms.example.com")

	cfg, err := Parse([]byte(`
http:
  port: ${CONTENTDEX_TEST_PORT:-9090}
store:
  driver: cms
  cms:
    base_url: ${CONTENTDEX_TEST_CMS_URL}
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.HTTP.Port)
	}
	if cfg.Store.CMS.BaseURL != "https://cms.example.com" {
		t.Errorf("unexpected base_url %q", cfg.Store.CMS.BaseURL)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("http: [")); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := Parse([]byte("http:\n  port: 8080\nstore:\n  driver: memory\n")); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("CONTENTDEX_DOTENV_PROBE=loaded\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ENV_FILE", path)
	t.Setenv("CONTENTDEX_DOTENV_PROBE", "")
	_ = os.Unsetenv("CONTENTDEX_DOTENV_PROBE")

	if err := loadDotEnv(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := os.Getenv("CONTENTDEX_DOTENV_PROBE"); got != "loaded" {
		t.Errorf("expected probe=loaded, got %q", got)
	}
}

func TestLoadDotEnv_MissingExplicitFile(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	if err := loadDotEnv(); err == nil {
		t.Fatal("expected error for missing explicit env file")
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
