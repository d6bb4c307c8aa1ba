package contentdex

import (
	"log/slog"
	"time"

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
	driver string // "cms", "postgres", "elasticsearch" or "memory"

	cmsURL   string
	cmsToken string

	postgresDSN string

	esAddrs       []string
	esIndexPrefix string

	fixturesPath string

	categoryTimeout  time.Duration
	maxParallel      int
	readinessTimeout time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithCMS searches a headless CMS over its REST API.
func WithCMS(baseURL, apiToken string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "cms"
		c.cmsURL = baseURL
		c.cmsToken = apiToken
	})
}

// WithPostgres searches a Postgres mirror of the content collections.
func WithPostgres(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "postgres"
		c.postgresDSN = dsn
	})
}

// WithElasticsearch searches an Elasticsearch mirror with one index per collection.
func WithElasticsearch(indexPrefix string, addrs ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "elasticsearch"
		c.esAddrs = addrs
		c.esIndexPrefix = indexPrefix
	})
}

// WithFixtures serves content from a YAML fixtures file held in memory.
func WithFixtures(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "memory"
		c.fixturesPath = path
	})
}

// WithCategoryTimeout bounds each per-category lookup. Default: 3s.
func WithCategoryTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.categoryTimeout = d
	})
}

// WithMaxParallel limits concurrent category lookups. Default: one per category.
func WithMaxParallel(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxParallel = n
	})
}

// WithReadinessTimeout bounds the initial store readiness check. Default: 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readinessTimeout = d
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
