// Package search implements the per-category collection adapter.
package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/contentdex/internal/db"
	"github.com/kailas-cloud/contentdex/internal/domain"
	"github.com/kailas-cloud/contentdex/internal/domain/category"
	"github.com/kailas-cloud/contentdex/internal/domain/record"
	"github.com/kailas-cloud/contentdex/internal/domain/search/filter"
	"github.com/kailas-cloud/contentdex/internal/domain/search/relevance"
	"github.com/kailas-cloud/contentdex/internal/domain/search/request"
	"github.com/kailas-cloud/contentdex/internal/domain/search/result"
)

// store is the consumer interface for collection lookups (ISP).
type store interface {
	Find(ctx context.Context, q *db.Query) ([]record.Record, error)
}

// Repo implements usecase/search.CategorySearcher.
type Repo struct {
	store store
	limit int
}

// New creates a search repository. limit caps hits per category;
// non-positive or larger values fall back to domain.MaxPerCategory.
func New(s store, limit int) *Repo {
	if limit <= 0 || limit > domain.MaxPerCategory {
		limit = domain.MaxPerCategory
	}
	return &Repo{store: s, limit: limit}
}

// Search fetches published entries of one category matching the request
// and scores them. Hits come back newest first.
func (r *Repo) Search(ctx context.Context, desc category.Descriptor, req *request.Request) ([]result.Hit, error) {
	q := &db.Query{
		Collection: desc.Collection(),
		Filter:     filter.Build(desc, req.Query(), req.CategorySlug()),
		Status:     db.StatusPublished,
		Sort:       db.Sort{Field: category.FieldPublishedAt, Desc: true},
		Limit:      r.limit,
		Populate:   desc.Populate(),
	}

	recs, err := r.store.Find(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", desc.Collection(), err)
	}
	if len(recs) > r.limit {
		recs = recs[:r.limit]
	}

	fields := desc.SearchableFields()
	hits := make([]result.Hit, 0, len(recs))
	for _, rec := range recs {
		hits = append(hits, result.Hit{
			Record: rec,
			Score:  relevance.Score(rec, req.Query(), fields),
		})
	}
	return hits, nil
}
