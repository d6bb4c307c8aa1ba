package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/contentdex/internal/domain"
	"github.com/kailas-cloud/contentdex/internal/domain/category"
	"github.com/kailas-cloud/contentdex/internal/domain/search/request"
	"github.com/kailas-cloud/contentdex/internal/domain/search/result"
	"github.com/kailas-cloud/contentdex/internal/logger"
)

// DefaultCategoryTimeout bounds a single category lookup.
const DefaultCategoryTimeout = 3 * time.Second

// Config tunes the orchestrator.
type Config struct {
	CategoryTimeout time.Duration
	// MaxParallel limits concurrent category lookups; zero means one per category.
	MaxParallel       int
	PageLimit         int
	DescriptionLength int
}

// Page is the merged outcome of one federated search.
type Page struct {
	Results []result.Result
	// Tags lists the categories that were searched, in resolution order.
	Tags []category.Tag
	// Failed lists searched categories whose lookup failed or timed out.
	Failed []category.Tag
	// Skipped lists requested tags with no registered category.
	Skipped []category.Tag
}

// Service fans a request out to every selected category and merges the hits.
type Service struct {
	registry *category.Registry
	searcher CategorySearcher
	rec      Recorder
	cfg      Config
	logger   *zap.Logger
}

// New creates a search service. rec can be nil.
func New(registry *category.Registry, searcher CategorySearcher, rec Recorder, cfg Config) *Service {
	if cfg.CategoryTimeout <= 0 {
		cfg.CategoryTimeout = DefaultCategoryTimeout
	}
	if cfg.PageLimit <= 0 || cfg.PageLimit > domain.MaxPageSize {
		cfg.PageLimit = domain.MaxPageSize
	}
	if cfg.DescriptionLength <= 0 {
		cfg.DescriptionLength = domain.DefaultDescriptionLength
	}
	return &Service{registry: registry, searcher: searcher, rec: rec, cfg: cfg, logger: zap.NewNop()}
}

// WithLogger sets the logger used when the request context carries none.
func (s *Service) WithLogger(l *zap.Logger) *Service {
	if l != nil {
		s.logger = l
	}
	return s
}

// Categories returns the registered category descriptors.
func (s *Service) Categories() []category.Descriptor {
	return s.registry.Descriptors()
}

type outcome struct {
	results []result.Result
	failed  bool
}

// Search runs the request against each selected category concurrently.
// A failing category contributes nothing and is reported in Page.Failed;
// only cancellation of ctx itself fails the whole search.
func (s *Service) Search(ctx context.Context, req *request.Request) (Page, error) {
	log := logger.FromContextOr(ctx, s.logger)

	var (
		descs []category.Descriptor
		page  Page
	)
	for _, tag := range s.registry.Resolve(req.CategoryTags()) {
		desc, ok := s.registry.Lookup(tag)
		if !ok {
			log.Warn("Skipping unknown category type", zap.String("category", string(tag)))
			page.Skipped = append(page.Skipped, tag)
			continue
		}
		descs = append(descs, desc)
		page.Tags = append(page.Tags, tag)
	}

	outcomes := make([]outcome, len(descs))
	var g errgroup.Group
	if s.cfg.MaxParallel > 0 {
		g.SetLimit(s.cfg.MaxParallel)
	}
	for i, desc := range descs {
		g.Go(func() error {
			outcomes[i] = s.searchCategory(ctx, log, desc, req)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return Page{}, fmt.Errorf("search: %w", err)
	}

	var merged []result.Result
	for i, o := range outcomes {
		if o.failed {
			page.Failed = append(page.Failed, descs[i].Tag())
			continue
		}
		merged = append(merged, o.results...)
	}
	page.Results = result.Rank(merged, s.cfg.PageLimit)
	if page.Results == nil {
		page.Results = []result.Result{}
	}

	if s.rec != nil {
		s.rec.ObservePage(len(page.Results), len(page.Failed))
	}
	log.Debug("Search completed",
		zap.String("query", req.Query()),
		zap.Int("categories", len(descs)),
		zap.Int("results", len(page.Results)),
		zap.Int("failed", len(page.Failed)),
	)
	return page, nil
}

func (s *Service) searchCategory(
	ctx context.Context, log *zap.Logger, desc category.Descriptor, req *request.Request,
) outcome {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.CategoryTimeout)
	defer cancel()

	start := time.Now()
	hits, err := s.searcher.Search(ctx, desc, req)
	elapsed := time.Since(start)

	if err != nil {
		status := StatusError
		if errors.Is(err, context.DeadlineExceeded) {
			status = StatusTimeout
		}
		s.observe(desc.Tag(), status, elapsed)
		log.Warn("Category search failed",
			zap.String("category", string(desc.Tag())),
			zap.String("collection", desc.Collection()),
			zap.String("status", status),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return outcome{failed: true}
	}
	s.observe(desc.Tag(), StatusOK, elapsed)

	if len(hits) > domain.MaxPerCategory {
		hits = hits[:domain.MaxPerCategory]
	}
	results := make([]result.Result, 0, len(hits))
	for _, h := range hits {
		results = append(results, result.Normalize(h.Record, desc, h.Score, s.cfg.DescriptionLength))
	}
	return outcome{results: results}
}

func (s *Service) observe(tag category.Tag, status string, d time.Duration) {
	if s.rec != nil {
		s.rec.ObserveCategory(tag, status, d)
	}
}
