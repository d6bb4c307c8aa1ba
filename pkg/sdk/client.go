package contentdex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/contentdex/internal/db"
	"github.com/kailas-cloud/contentdex/internal/db/cms"
	"github.com/kailas-cloud/contentdex/internal/db/elastic"
	"github.com/kailas-cloud/contentdex/internal/db/memory"
	"github.com/kailas-cloud/contentdex/internal/db/postgres"
	"github.com/kailas-cloud/contentdex/internal/domain/category"
	"github.com/kailas-cloud/contentdex/internal/domain/search/request"
	searchrepo "github.com/kailas-cloud/contentdex/internal/repository/search"
	healthuc "github.com/kailas-cloud/contentdex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/contentdex/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, replaced in tests.
type searchUseCase interface {
	Search(ctx context.Context, req *request.Request) (searchuc.Page, error)
	Categories() []category.Descriptor
}

// Client is the contentdex SDK entry point.
type Client struct {
	store     db.ContentStore
	searchSvc searchUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client and connects to the content store.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{readinessTimeout: defaultReadinessTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver == "" {
		return nil, errors.New(
			"contentdex: content store required (use WithCMS, WithPostgres, WithElasticsearch or WithFixtures)",
		)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := createStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := db.WaitForReady(ctx, store, cfg.readinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("contentdex: content store not ready: %w", err)
	}

	if ix, ok := store.(db.IndexEnsurer); ok {
		if err := ix.EnsureIndexes(ctx, category.Default().Descriptors()); err != nil {
			store.Close()
			return nil, fmt.Errorf("contentdex: ensure indexes: %w", err)
		}
	}

	return wireClient(store, cfg, obs), nil
}

func createStore(ctx context.Context, cfg *clientConfig) (db.ContentStore, error) {
	switch cfg.driver {
	case "cms":
		s, err := cms.NewStore(cms.Config{BaseURL: cfg.cmsURL, APIToken: cfg.cmsToken}, nil)
		if err != nil {
			return nil, fmt.Errorf("contentdex: create cms store: %w", err)
		}
		return s, nil
	case "postgres":
		s, err := postgres.NewStore(ctx, postgres.Config{DSN: cfg.postgresDSN})
		if err != nil {
			return nil, fmt.Errorf("contentdex: create postgres store: %w", err)
		}
		return s, nil
	case "elasticsearch":
		s, err := elastic.NewStore(elastic.Config{Addrs: cfg.esAddrs, IndexPrefix: cfg.esIndexPrefix})
		if err != nil {
			return nil, fmt.Errorf("contentdex: create elasticsearch store: %w", err)
		}
		return s, nil
	case "memory":
		s, err := memory.LoadFile(cfg.fixturesPath)
		if err != nil {
			return nil, fmt.Errorf("contentdex: load fixtures: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("contentdex: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.ContentStore, cfg *clientConfig, obs *observer) *Client {
	searchSvc := searchuc.New(category.Default(), searchrepo.New(store, 0), nil, searchuc.Config{
		CategoryTimeout: cfg.categoryTimeout,
		MaxParallel:     cfg.maxParallel,
	})

	return &Client{
		store:     store,
		searchSvc: searchSvc,
		healthSvc: healthuc.New(store, nil),
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks content store connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}
