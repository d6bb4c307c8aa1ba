// Package searchcache caches per-category search hits in a key-value store.
package searchcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/contentdex/internal/db"
	"github.com/kailas-cloud/contentdex/internal/domain"
	"github.com/kailas-cloud/contentdex/internal/domain/category"
	"github.com/kailas-cloud/contentdex/internal/domain/record"
	"github.com/kailas-cloud/contentdex/internal/domain/search/request"
	"github.com/kailas-cloud/contentdex/internal/domain/search/result"
)

// DefaultKeyPrefix namespaces cache entries.
var DefaultKeyPrefix = domain.KeyPrefix + "search_cache:"

// searcher is the wrapped collection adapter.
type searcher interface {
	Search(ctx context.Context, desc category.Descriptor, req *request.Request) ([]result.Hit, error)
}

// store is the consumer interface for the cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Config tunes the cache.
type Config struct {
	TTL       time.Duration
	KeyPrefix string
}

// Searcher is a caching decorator over a collection adapter.
// Failed lookups are never cached; cache errors fall through to the inner adapter.
type Searcher struct {
	inner      searcher
	store      store
	ttl        time.Duration
	prefix     string
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with labels "category" and "result" ("hit"/"miss"), passed explicitly.
func New(inner searcher, s store, cfg Config, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *Searcher {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Searcher{
		inner:      inner,
		store:      s,
		ttl:        cfg.TTL,
		prefix:     prefix,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

type cachedHit struct {
	Record record.Record `json:"record"`
	Score  int           `json:"score"`
}

// Search returns cached hits or calls the inner adapter.
func (c *Searcher) Search(ctx context.Context, desc category.Descriptor, req *request.Request) ([]result.Hit, error) {
	key := c.Key(desc.Tag(), req)

	if hits, ok := c.getFromCache(ctx, key); ok {
		c.incCache(desc.Tag(), "hit")
		return hits, nil
	}
	c.incCache(desc.Tag(), "miss")

	hits, err := c.inner.Search(ctx, desc, req)
	if err != nil {
		return nil, err
	}

	c.putToCache(ctx, key, hits)
	return hits, nil
}

// Key derives the cache key from category tag, query and category filter.
func (c *Searcher) Key(tag category.Tag, req *request.Request) string {
	h := sha256.Sum256([]byte(string(tag) + "|" + req.Query() + "|" + req.CategorySlug()))
	return c.prefix + hex.EncodeToString(h[:])
}

func (c *Searcher) incCache(tag category.Tag, res string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(string(tag), res).Inc()
	}
}

func (c *Searcher) getFromCache(ctx context.Context, key string) ([]result.Hit, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to read search cache", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	hits, err := decodeHits(data)
	if err != nil {
		c.logger.Warn("Corrupt search cache entry", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return hits, true
}

func (c *Searcher) putToCache(ctx context.Context, key string, hits []result.Hit) {
	data, err := encodeHits(hits)
	if err != nil {
		c.logger.Warn("Failed to encode search hits", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache search hits", zap.String("key", key), zap.Error(err))
	}
}

func encodeHits(hits []result.Hit) ([]byte, error) {
	out := make([]cachedHit, len(hits))
	for i, h := range hits {
		out[i] = cachedHit{Record: h.Record, Score: h.Score}
	}
	return json.Marshal(out)
}

func decodeHits(data []byte) ([]result.Hit, error) {
	var in []cachedHit
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decode cached hits: %w", err)
	}
	hits := make([]result.Hit, len(in))
	for i, h := range in {
		hits[i] = result.Hit{Record: h.Record, Score: h.Score}
	}
	return hits, nil
}
