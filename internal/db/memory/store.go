// Package memory implements an in-process content store backed by YAML fixtures.
package memory

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/contentdex/internal/db"
	"github.com/kailas-cloud/contentdex/internal/domain/category"
	"github.com/kailas-cloud/contentdex/internal/domain/record"
)

// Compile-time check: Store implements db.ContentStore.
var _ db.ContentStore = (*Store)(nil)

// Store keeps records per collection in memory.
type Store struct {
	mu          sync.RWMutex
	collections map[string][]record.Record
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{collections: make(map[string][]record.Record)}
}

// LoadFile reads a fixtures file mapping collection names to record lists.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML fixtures.
func Parse(data []byte) (*Store, error) {
	var raw map[string][]map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}

	s := NewStore()
	for collection, items := range raw {
		recs := make([]record.Record, 0, len(items))
		for _, item := range items {
			recs = append(recs, record.Record(item))
		}
		s.Add(collection, recs...)
	}
	return s, nil
}

// Add appends records to a collection, creating it if needed.
func (s *Store) Add(collection string, recs ...record.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[collection] = append(s.collections[collection], recs...)
}

// Find evaluates the query against the stored records.
func (s *Store) Find(ctx context.Context, q *db.Query) ([]record.Record, error) {
	if err := q.Validate(); err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, &db.Error{Op: db.OpFind, Err: err}
	}

	s.mu.RLock()
	all, ok := s.collections[q.Collection]
	s.mu.RUnlock()
	if !ok {
		return nil, &db.Error{Op: db.OpFind, Err: fmt.Errorf("%w: %s", db.ErrCollectionNotFound, q.Collection)}
	}

	out := make([]record.Record, 0, len(all))
	for _, rec := range all {
		if q.Status != "" && !hasStatus(rec, q.Status) {
			continue
		}
		if !q.Filter.Matches(rec) {
			continue
		}
		out = append(out, rec)
	}

	if q.Sort.Field != "" {
		sortByTime(out, q.Sort)
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() {}

// hasStatus treats a record without an explicit status as published once it has a publish date.
func hasStatus(rec record.Record, status string) bool {
	if v, ok := rec.String(category.FieldStatus); ok {
		return v == status
	}
	if status != db.StatusPublished {
		return false
	}
	_, ok := rec.Time(category.FieldPublishedAt)
	return ok
}

func sortByTime(recs []record.Record, by db.Sort) {
	sort.SliceStable(recs, func(i, j int) bool {
		ti, iok := recs[i].Time(by.Field)
		tj, jok := recs[j].Time(by.Field)
		if iok != jok {
			return iok
		}
		if by.Desc {
			return ti.After(tj)
		}
		return ti.Before(tj)
	})
}
