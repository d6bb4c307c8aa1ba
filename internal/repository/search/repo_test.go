package search

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/kailas-cloud/contentdex/internal/db"
	"github.com/kailas-cloud/contentdex/internal/domain/category"
	"github.com/kailas-cloud/contentdex/internal/domain/record"
	"github.com/kailas-cloud/contentdex/internal/domain/search/relevance"
)

func TestSearch_BuildsQuery(t *testing.T) {
	repo, ms := newTestRepo(t)

	_, err := repo.Search(context.Background(), mustDescriptor(t, category.Article), mustRequest(t, "ethics", "", "philosophy"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	q := ms.last
	if q.Collection != "articles" {
		t.Errorf("collection = %q", q.Collection)
	}
	if q.Status != db.StatusPublished {
		t.Errorf("status = %q", q.Status)
	}
	if q.Sort.Field != category.FieldPublishedAt || !q.Sort.Desc {
		t.Errorf("sort = %+v", q.Sort)
	}
	if q.Limit != 20 {
		t.Errorf("limit = %d", q.Limit)
	}
	want := `((title ~ "ethics" OR content ~ "ethics" OR description ~ "ethics") AND categories.slug = "philosophy")`
	if got := q.Filter.String(); got != want {
		t.Errorf("filter = %s, want %s", got, want)
	}
	if len(q.Populate) == 0 {
		t.Error("expected populate list")
	}
}

func TestSearch_ScoresHits(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.findFn = func(_ context.Context, _ *db.Query) ([]record.Record, error) {
		return []record.Record{
			{"title": "Maimonides on Ethics"},
			{"title": "On Maimonides' Ethics"},
		}, nil
	}

	hits, err := repo.Search(context.Background(), mustDescriptor(t, category.Article), mustRequest(t, "Maimonides", "", ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].Score != relevance.TitleContains+relevance.PrefixBonus {
		t.Errorf("hits[0].Score = %d", hits[0].Score)
	}
	if hits[1].Score != relevance.TitleContains {
		t.Errorf("hits[1].Score = %d", hits[1].Score)
	}
}

func TestSearch_EmptyQueryScoresOne(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.findFn = func(_ context.Context, _ *db.Query) ([]record.Record, error) {
		return []record.Record{{"term": "Torah"}}, nil
	}

	hits, err := repo.Search(context.Background(), mustDescriptor(t, category.Term), mustRequest(t, "", "", ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 1 || hits[0].Score != relevance.EmptyQuery {
		t.Errorf("unexpected hits: %+v", hits)
	}
	if !ms.last.Filter.IsEmpty() {
		t.Errorf("expected empty filter, got %s", ms.last.Filter)
	}
}

func TestSearch_CapsResults(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.findFn = func(_ context.Context, _ *db.Query) ([]record.Record, error) {
		recs := make([]record.Record, 35)
		for i := range recs {
			recs[i] = record.Record{"title": fmt.Sprintf("t%d", i)}
		}
		return recs, nil
	}

	hits, err := repo.Search(context.Background(), mustDescriptor(t, category.Writing), mustRequest(t, "", "", ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 20 {
		t.Errorf("expected 20 hits, got %d", len(hits))
	}
}

func TestSearch_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)
	storeErr := &db.Error{Op: db.OpFind, Err: db.ErrUnavailable}
	ms.findFn = func(_ context.Context, _ *db.Query) ([]record.Record, error) {
		return nil, storeErr
	}

	_, err := repo.Search(context.Background(), mustDescriptor(t, category.QA), mustRequest(t, "x", "", ""))
	if !errors.Is(err, db.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestNew_ClampsLimit(t *testing.T) {
	if r := New(&mockStore{}, 100); r.limit != 20 {
		t.Errorf("limit = %d, want 20", r.limit)
	}
	if r := New(&mockStore{}, 5); r.limit != 5 {
		t.Errorf("limit = %d, want 5", r.limit)
	}
}
