package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/contentdex/internal/domain"
	"github.com/kailas-cloud/contentdex/internal/domain/category"
	"github.com/kailas-cloud/contentdex/internal/domain/search/request"
	"github.com/kailas-cloud/contentdex/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/contentdex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/contentdex/internal/usecase/search"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the search HTTP API.
type Server struct {
	search        *searchuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	now           func() time.Time
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search *searchuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		search: search,
		health: health,
		logger: logger,
		now:    time.Now,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, ErrorResponseCodeValidationFailed),
	}
	return s
}

// Search handles GET /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	params, err := bindSearchParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "invalid query parameters: "+err.Error())
		return
	}

	req, err := request.New(deref(params.Query), deref(params.CategoryTypes), deref(params.Category))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	page, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, s.searchResponse(&req, page))
}

// ListCategories handles GET /categories.
func (s *Server) ListCategories(w http.ResponseWriter, _ *http.Request) {
	descs := s.search.Categories()
	items := make([]CategoryItem, len(descs))
	for i, d := range descs {
		items[i] = CategoryItem{
			Tag:              string(d.Tag()),
			Collection:       d.Collection(),
			SearchableFields: d.SearchableFields(),
			RoutePrefix:      d.RoutePrefix(),
		}
	}
	writeJSON(w, http.StatusOK, CategoryListResponse{Items: items})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	// A degraded cache still serves searches.
	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func bindSearchParams(r *http.Request) (SearchParams, error) {
	var p SearchParams
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "query", q, &p.Query); err != nil {
		return p, err
	}
	if err := runtime.BindQueryParameter("form", true, false, "categoryTypes", q, &p.CategoryTypes); err != nil {
		return p, err
	}
	if err := runtime.BindQueryParameter("form", true, false, "category", q, &p.Category); err != nil {
		return p, err
	}
	return p, nil
}

func (s *Server) searchResponse(req *request.Request, page searchuc.Page) SearchResponse {
	data := make([]SearchResultItem, len(page.Results))
	for i := range page.Results {
		data[i] = searchResultToDTO(&page.Results[i])
	}

	categories := []string{}
	if slug := req.CategorySlug(); slug != "" {
		categories = append(categories, slug)
	}

	return SearchResponse{
		Data: data,
		Meta: SearchMeta{
			Query:            req.Query(),
			CategoryTypes:    tagStrings(page.Tags),
			Categories:       categories,
			Total:            len(data),
			Timestamp:        s.now().UTC(),
			FailedCategories: tagStrings(page.Failed),
		},
	}
}

func searchResultToDTO(r *result.Result) SearchResultItem {
	item := SearchResultItem{
		ID:             r.ID(),
		ExternalID:     r.ExternalID(),
		Title:          r.Title(),
		Description:    r.Description(),
		CategoryTag:    string(r.Tag()),
		Slug:           r.Slug(),
		URL:            r.URL(),
		RelevanceScore: r.Score(),
	}
	if d, ok := r.Date(); ok {
		item.Date = &d
	}
	if p := r.ParentSlug(); p != "" {
		item.ParentSlug = &p
	}
	return item
}

func tagStrings(tags []category.Tag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = string(t)
	}
	return out
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorResponseCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func sentinelHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// safeDomainMessage returns the error text only for client-facing sentinels.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidRequest) {
		return err.Error()
	}
	return "request failed"
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorResponseCodeInternalError, "internal error")
}
