package db

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/contentdex/internal/domain/category"
	"github.com/kailas-cloud/contentdex/internal/domain/record"
)

// ContentStore is the facade every content backend implements.
type ContentStore interface {
	Pinger
	Finder
	Close()
}

// CacheStore is the facade of the result cache backend.
type CacheStore interface {
	Pinger
	KVStore
	Close()
}

// Pinger checks backend connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Finder runs a filtered, sorted and limited query against one collection.
type Finder interface {
	Find(ctx context.Context, q *Query) ([]record.Record, error)
}

// IndexEnsurer is implemented by backends that own their index schema.
type IndexEnsurer interface {
	EnsureIndexes(ctx context.Context, descs []category.Descriptor) error
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// WaitForReady polls Ping until the backend responds or timeout expires.
func WaitForReady(ctx context.Context, p Pinger, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if err := p.Ping(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for backend: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}
