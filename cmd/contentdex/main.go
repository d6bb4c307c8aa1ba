package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/contentdex/internal/config"
	"github.com/kailas-cloud/contentdex/internal/db"
	"github.com/kailas-cloud/contentdex/internal/db/cms"
	"github.com/kailas-cloud/contentdex/internal/db/elastic"
	"github.com/kailas-cloud/contentdex/internal/db/memory"
	"github.com/kailas-cloud/contentdex/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/contentdex/internal/db/redis"
	"github.com/kailas-cloud/contentdex/internal/domain/category"
	logpkg "github.com/kailas-cloud/contentdex/internal/logger"
	"github.com/kailas-cloud/contentdex/internal/metrics"
	searchrepo "github.com/kailas-cloud/contentdex/internal/repository/search"
	"github.com/kailas-cloud/contentdex/internal/repository/searchcache"
	chiTransport "github.com/kailas-cloud/contentdex/internal/transport/chi"
	healthuc "github.com/kailas-cloud/contentdex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/contentdex/internal/usecase/search"
	"github.com/kailas-cloud/contentdex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting contentdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("store_driver", cfg.Store.Driver),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
	)

	ctx := context.Background()

	content, err := newContentStore(ctx, &cfg.Store, logger)
	if err != nil {
		logger.Fatal("Failed to create content store", zap.Error(err))
	}
	defer content.Close()

	readiness := time.Duration(cfg.Store.ReadinessTimeout) * time.Second
	if err := db.WaitForReady(ctx, content, readiness); err != nil {
		logger.Fatal("Content store not ready", zap.Error(err))
	}
	logger.Info("Connected to content store")

	registry := category.Default()
	if ix, ok := content.(db.IndexEnsurer); ok {
		if err := ix.EnsureIndexes(ctx, registry.Descriptors()); err != nil {
			logger.Fatal("Failed to ensure content indexes", zap.Error(err))
		}
	}

	// Register metrics explicitly (no init())
	metrics.RegisterHTTPMetrics()
	metrics.RegisterSearchMetrics()

	var searcher searchuc.CategorySearcher = searchrepo.New(content, cfg.Search.PerCategoryLimit)

	// Pass nil interface (not typed nil pointer!) to health when the cache is disabled.
	var cachePinger healthuc.Pinger
	if cfg.Cache.Enabled {
		cache, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer cache.Close()

		if err := db.WaitForReady(ctx, cache, readiness); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		logger.Info("Connected to cache", zap.String("driver", cfg.Cache.Driver), zap.Strings("addrs", cfg.Cache.Addrs))

		searcher = searchcache.New(searcher, cache, searchcache.Config{
			TTL:       time.Duration(cfg.Cache.TTLSec) * time.Second,
			KeyPrefix: cfg.Cache.KeyPrefix,
		}, metrics.SearchCacheTotal, logger)
		cachePinger = cache
	}

	searchSvc := searchuc.New(registry, searcher, metrics.SearchRecorder{}, searchuc.Config{
		CategoryTimeout:   time.Duration(cfg.Search.CategoryTimeoutMs) * time.Millisecond,
		MaxParallel:       cfg.Search.MaxParallel,
		PageLimit:         cfg.Search.PageLimit,
		DescriptionLength: cfg.Search.DescriptionLength,
	}).WithLogger(logger)

	healthSvc := healthuc.New(content, cachePinger)

	server := chiTransport.NewServer(searchSvc, healthSvc, logger)
	router := chiTransport.NewRouter(server, logger, cfg.Auth.APIKeys)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// newContentStore builds the content store selected by cfg.Driver.
func newContentStore(ctx context.Context, cfg *config.StoreConfig, logger *zap.Logger) (db.ContentStore, error) {
	switch cfg.Driver {
	case config.DriverCMS:
		return cms.NewStore(cms.Config{
			BaseURL:         cfg.CMS.BaseURL,
			APIToken:        cfg.CMS.APIToken,
			Timeout:         time.Duration(cfg.CMS.TimeoutSec) * time.Second,
			MaxRetries:      cfg.CMS.MaxRetries,
			BreakerFailures: cfg.CMS.BreakerFailures,
			BreakerOpen:     time.Duration(cfg.CMS.BreakerOpenSec) * time.Second,
		}, logger)
	case config.DriverPostgres:
		return postgres.NewStore(ctx, postgres.Config{
			DSN:      cfg.Postgres.DSN,
			MaxConns: cfg.Postgres.MaxConns,
		})
	case config.DriverElasticsearch:
		return elastic.NewStore(elastic.Config{
			Addrs:       cfg.Elasticsearch.Addrs,
			Username:    cfg.Elasticsearch.Username,
			Password:    cfg.Elasticsearch.Password,
			IndexPrefix: cfg.Elasticsearch.IndexPrefix,
		})
	case config.DriverMemory:
		return memory.LoadFile(cfg.Memory.FixturesPath)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
