package searchcache

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/contentdex/internal/db"
	"github.com/kailas-cloud/contentdex/internal/domain/category"
	"github.com/kailas-cloud/contentdex/internal/domain/search/request"
	"github.com/kailas-cloud/contentdex/internal/domain/search/result"
)

type mockSearcher struct {
	hits  []result.Hit
	err   error
	calls int
}

func (m *mockSearcher) Search(_ context.Context, _ category.Descriptor, _ *request.Request) ([]result.Hit, error) {
	m.calls++
	return m.hits, m.err
}

// mockKVStore is an in-memory implementation of the consumer interface.
type mockKVStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	ttls   map[string]time.Duration
	getErr error
	setErr error
}

func newMockKVStore() *mockKVStore {
	return &mockKVStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *mockKVStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockKVStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func newTestSearcher(t *testing.T, inner *mockSearcher) (*Searcher, *mockKVStore) {
	t.Helper()
	ms := newMockKVStore()
	return New(inner, ms, Config{TTL: time.Minute}, nil, zap.NewNop()), ms
}

func mustRequest(t *testing.T, query, slug string) *request.Request {
	t.Helper()
	req, err := request.New(query, "", slug)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return &req
}

func articleDescriptor(t *testing.T) category.Descriptor {
	t.Helper()
	d, ok := category.Default().Lookup(category.Article)
	if !ok {
		t.Fatal("article descriptor missing")
	}
	return d
}
