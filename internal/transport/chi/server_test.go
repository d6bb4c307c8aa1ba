package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/contentdex/internal/db/memory"
	"github.com/kailas-cloud/contentdex/internal/domain/category"
	"github.com/kailas-cloud/contentdex/internal/domain/record"
	reposearch "github.com/kailas-cloud/contentdex/internal/repository/search"
	healthuc "github.com/kailas-cloud/contentdex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/contentdex/internal/usecase/search"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func newTestRouter(t *testing.T, apiKeys ...string) http.Handler {
	t.Helper()
	store := newTestStore()
	return newTestRouterWithHealth(t, store, healthuc.New(store, nil), apiKeys...)
}

func newTestRouterWithHealth(t *testing.T, store *memory.Store, health *healthuc.Service, apiKeys ...string) http.Handler {
	t.Helper()

	svc := searchuc.New(category.Default(), reposearch.New(store, 0), nil, searchuc.Config{})
	srv := NewServer(svc, health, zap.NewNop())
	srv.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	return NewRouter(srv, zap.NewNop(), apiKeys)
}

func newTestStore() *memory.Store {
	store := memory.NewStore()
	store.Add("articles",
		record.Record{
			"id": 1, "documentId": "a1", "title": "Maimonides", "slug": "maimonides",
			"status": "published", "publishedAt": "2024-01-01T00:00:00Z",
			"categories": []any{map[string]any{"slug": "philosophy"}},
		},
		record.Record{
			"id": 2, "documentId": "a2", "title": "On Maimonides' Ethics", "slug": "ethics",
			"status": "published", "publishedAt": "2024-05-01T00:00:00Z",
		},
	)
	store.Add("video-episodes", record.Record{
		"id": 3, "title": "Maimonides lecture", "slug": "lecture", "status": "published",
		"collection": map[string]any{"slug": "great-thinkers"},
	})
	return store
}

func doGet(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeSearch(t *testing.T, rr *httptest.ResponseRecorder) SearchResponse {
	t.Helper()
	var resp SearchResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestSearch_OK(t *testing.T) {
	h := newTestRouter(t)

	rr := doGet(t, h, "/search?query=Maimonides&categoryTypes=article")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type = %q", ct)
	}

	resp := decodeSearch(t, rr)
	if len(resp.Data) != 2 {
		t.Fatalf("expected 2 results, got %d", len(resp.Data))
	}
	first := resp.Data[0]
	if first.ID != "1" || first.RelevanceScore != 105 {
		t.Errorf("first = %+v, want id 1 with score 105", first)
	}
	if first.ExternalID != "a1" || first.CategoryTag != "article" || first.URL != "/articles/maimonides" {
		t.Errorf("first = %+v", first)
	}
	if first.Date == nil {
		t.Error("expected date")
	}
	if resp.Meta.Query != "Maimonides" || resp.Meta.Total != 2 {
		t.Errorf("meta = %+v", resp.Meta)
	}
	if len(resp.Meta.CategoryTypes) != 1 || resp.Meta.CategoryTypes[0] != "article" {
		t.Errorf("categoryTypes = %v", resp.Meta.CategoryTypes)
	}
	if len(resp.Meta.Categories) != 0 {
		t.Errorf("categories = %v", resp.Meta.Categories)
	}
	if !resp.Meta.Timestamp.Equal(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Errorf("timestamp = %v", resp.Meta.Timestamp)
	}
}

func TestSearch_AllCategoriesAndFailures(t *testing.T) {
	h := newTestRouter(t)

	rr := doGet(t, h, "/search?query=maimonides")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body)
	}
	resp := decodeSearch(t, rr)

	if len(resp.Data) != 3 {
		t.Fatalf("expected 3 results, got %d", len(resp.Data))
	}
	var video *SearchResultItem
	for i := range resp.Data {
		if resp.Data[i].CategoryTag == "video" {
			video = &resp.Data[i]
		}
	}
	if video == nil || video.ParentSlug == nil || *video.ParentSlug != "great-thinkers" {
		t.Fatalf("video result = %+v", video)
	}
	if video.URL != "/videos/great-thinkers/lecture" {
		t.Errorf("video url = %q", video.URL)
	}
	// Collections without fixtures degrade instead of failing the request.
	if len(resp.Meta.FailedCategories) != 4 {
		t.Errorf("failedCategories = %v", resp.Meta.FailedCategories)
	}
	if len(resp.Meta.CategoryTypes) != 6 {
		t.Errorf("categoryTypes = %v", resp.Meta.CategoryTypes)
	}
}

func TestSearch_CategoryFilter(t *testing.T) {
	h := newTestRouter(t)

	rr := doGet(t, h, "/search?query=maimonides&categoryTypes=article,video&category=philosophy")
	resp := decodeSearch(t, rr)

	if len(resp.Data) != 1 || resp.Data[0].ID != "1" {
		t.Fatalf("data = %+v", resp.Data)
	}
	if len(resp.Meta.Categories) != 1 || resp.Meta.Categories[0] != "philosophy" {
		t.Errorf("categories = %v", resp.Meta.Categories)
	}
}

func TestSearch_ValidationFailed(t *testing.T) {
	h := newTestRouter(t)

	tests := []struct {
		name   string
		target string
	}{
		{"bad slug", "/search?category=" + url.QueryEscape("no spaces!")},
		{"query too long", "/search?query=" + strings.Repeat("a", 600)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doGet(t, h, tt.target)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rr.Code)
			}
			var errResp ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if errResp.Code != ErrorResponseCodeValidationFailed {
				t.Errorf("code = %q", errResp.Code)
			}
		})
	}
}

func TestListCategories(t *testing.T) {
	h := newTestRouter(t)

	rr := doGet(t, h, "/categories")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp CategoryListResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Items) != 6 {
		t.Fatalf("expected 6 categories, got %d", len(resp.Items))
	}
	if resp.Items[0].Tag != "article" || resp.Items[0].Collection != "articles" {
		t.Errorf("first = %+v", resp.Items[0])
	}
}

func TestHealthCheck(t *testing.T) {
	h := newTestRouter(t, "secret")

	rr := doGet(t, h, "/health")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" || resp.Checks["content_store"] != "ok" {
		t.Errorf("health = %+v", resp)
	}
}

func TestHealthCheck_CacheDownDegraded(t *testing.T) {
	store := newTestStore()
	health := healthuc.New(store, stubPinger{err: errors.New("connection refused")})
	h := newTestRouterWithHealth(t, store, health)

	rr := doGet(t, h, "/health")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body = %s", rr.Code, rr.Body)
	}
	var resp HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "degraded" {
		t.Errorf("status = %q, want degraded", resp.Status)
	}
	if resp.Checks["cache"] != "error" || resp.Checks["content_store"] != "ok" {
		t.Errorf("checks = %v", resp.Checks)
	}

	// searches keep working without the cache
	if rr := doGet(t, h, "/search?query=Maimonides"); rr.Code != http.StatusOK {
		t.Errorf("search status = %d, want 200", rr.Code)
	}
}

func TestHealthCheck_ContentStoreDown(t *testing.T) {
	health := healthuc.New(stubPinger{err: errors.New("dial tcp: refused")}, stubPinger{})
	h := newTestRouterWithHealth(t, newTestStore(), health)

	rr := doGet(t, h, "/health")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
	var resp HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "error" || resp.Checks["content_store"] != "error" {
		t.Errorf("health = %+v", resp)
	}
}

func TestRouter_AuthRequired(t *testing.T) {
	h := newTestRouter(t, "secret")

	if rr := doGet(t, h, "/search?query=x"); rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/search?query=x", http.NoBody)
	req.Header.Set("Authorization", "Bearer secret")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestRouter_NotFound(t *testing.T) {
	h := newTestRouter(t)

	if rr := doGet(t, h, "/nope"); rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestJSONRecoverer(t *testing.T) {
	h := JSONRecoverer(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := doGet(t, h, "/")
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
	var errResp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if errResp.Code != ErrorResponseCodeInternalError {
		t.Errorf("code = %q", errResp.Code)
	}
}
