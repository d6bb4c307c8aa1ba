package contentdex

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/contentdex/internal/domain/category"
	"github.com/kailas-cloud/contentdex/internal/domain/search/request"
	"github.com/kailas-cloud/contentdex/internal/domain/search/result"
	searchuc "github.com/kailas-cloud/contentdex/internal/usecase/search"
)

// SearchOption narrows a single search.
type SearchOption func(*searchConfig)

type searchConfig struct {
	categoryTypes []string
	category      string
}

// WithCategoryTypes restricts the search to the given category tags.
// Without it, or with "all", every category is searched.
func WithCategoryTypes(tags ...string) SearchOption {
	return func(c *searchConfig) {
		c.categoryTypes = append(c.categoryTypes, tags...)
	}
}

// WithCategory keeps only records tagged with the given topical category slug.
func WithCategory(slug string) SearchOption {
	return func(c *searchConfig) {
		c.category = slug
	}
}

// Search runs a federated search across the selected categories.
// An empty query matches every published record.
func (c *Client) Search(ctx context.Context, query string, opts ...SearchOption) (page Page, err error) {
	start := time.Now()
	defer func() { c.obs.observeSearch(start, &page, err) }()

	var sc searchConfig
	for _, o := range opts {
		o(&sc)
	}

	req, err := request.New(query, strings.Join(sc.categoryTypes, ","), sc.category)
	if err != nil {
		return Page{}, fmt.Errorf("search: %w", err)
	}

	res, err := c.searchSvc.Search(ctx, &req)
	if err != nil {
		return Page{}, fmt.Errorf("search: %w", err)
	}
	page = pageFromDomain(&res)
	return page, nil
}

// Categories lists the searchable content categories in default search order.
func (c *Client) Categories() []Category {
	descs := c.searchSvc.Categories()
	out := make([]Category, len(descs))
	for i, d := range descs {
		out[i] = Category{
			Tag:              string(d.Tag()),
			Collection:       d.Collection(),
			SearchableFields: d.SearchableFields(),
			RoutePrefix:      d.RoutePrefix(),
		}
	}
	return out
}

func pageFromDomain(p *searchuc.Page) Page {
	results := make([]Result, len(p.Results))
	for i := range p.Results {
		results[i] = resultFromDomain(&p.Results[i])
	}
	return Page{
		Results:           results,
		CategoryTypes:     tagStrings(p.Tags),
		FailedCategories:  tagStrings(p.Failed),
		SkippedCategories: tagStrings(p.Skipped),
	}
}

func resultFromDomain(r *result.Result) Result {
	out := Result{
		ID:          r.ID(),
		ExternalID:  r.ExternalID(),
		Title:       r.Title(),
		Description: r.Description(),
		CategoryTag: string(r.Tag()),
		Slug:        r.Slug(),
		ParentSlug:  r.ParentSlug(),
		URL:         r.URL(),
		Score:       r.Score(),
	}
	if d, ok := r.Date(); ok {
		out.Date = &d
	}
	return out
}

func tagStrings(tags []category.Tag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = string(t)
	}
	return out
}
