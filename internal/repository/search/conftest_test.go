package search

import (
	"context"
	"testing"

	"github.com/kailas-cloud/contentdex/internal/db"
	"github.com/kailas-cloud/contentdex/internal/domain/category"
	"github.com/kailas-cloud/contentdex/internal/domain/record"
	"github.com/kailas-cloud/contentdex/internal/domain/search/request"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	findFn func(ctx context.Context, q *db.Query) ([]record.Record, error)
	last   *db.Query
}

func (m *mockStore) Find(ctx context.Context, q *db.Query) ([]record.Record, error) {
	m.last = q
	if m.findFn != nil {
		return m.findFn(ctx, q)
	}
	return nil, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, 0), ms
}

func mustRequest(t *testing.T, query, types, slug string) *request.Request {
	t.Helper()
	req, err := request.New(query, types, slug)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return &req
}

func mustDescriptor(t *testing.T, tag category.Tag) category.Descriptor {
	t.Helper()
	d, ok := category.Default().Lookup(tag)
	if !ok {
		t.Fatalf("descriptor %q not registered", tag)
	}
	return d
}
