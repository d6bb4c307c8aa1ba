// Package result holds the normalized, category-independent search hit.
package result

import (
	"time"

	"github.com/kailas-cloud/contentdex/internal/domain/category"
	"github.com/kailas-cloud/contentdex/internal/domain/record"
)

// Hit is a raw record returned by a collection adapter with its relevance score.
type Hit struct {
	Record record.Record
	Score  int
}

// Result is a single normalized search hit.
type Result struct {
	id          string
	externalID  string
	title       string
	description string
	tag         category.Tag
	date        time.Time
	hasDate     bool
	slug        string
	parentSlug  string
	url         string
	score       int
}

// Params holds the inputs for New.
type Params struct {
	ID          string
	ExternalID  string
	Title       string
	Description string
	Tag         category.Tag
	// Date is the publish timestamp; nil when unknown.
	Date       *time.Time
	Slug       string
	ParentSlug string
	URL        string
	Score      int
}

// New creates a search result.
func New(p Params) Result {
	r := Result{
		id:          p.ID,
		externalID:  p.ExternalID,
		title:       p.Title,
		description: p.Description,
		tag:         p.Tag,
		slug:        p.Slug,
		parentSlug:  p.ParentSlug,
		url:         p.URL,
		score:       max(p.Score, 0),
	}
	if p.Date != nil && !p.Date.IsZero() {
		r.date = *p.Date
		r.hasDate = true
	}
	return r
}

// ID returns the store-assigned identifier.
func (r *Result) ID() string { return r.id }

// ExternalID returns the store's stable document identifier.
func (r *Result) ExternalID() string { return r.externalID }

// Title returns the display title.
func (r *Result) Title() string { return r.title }

// Description returns the (possibly truncated) description.
func (r *Result) Description() string { return r.description }

// Tag returns the content category of the hit.
func (r *Result) Tag() category.Tag { return r.tag }

// Date returns the publish timestamp and whether it is known.
func (r *Result) Date() (time.Time, bool) { return r.date, r.hasDate }

// Slug returns the item slug.
func (r *Result) Slug() string { return r.slug }

// ParentSlug returns the parent collection slug, or "".
func (r *Result) ParentSlug() string { return r.parentSlug }

// URL returns the display path.
func (r *Result) URL() string { return r.url }

// Score returns the relevance score.
func (r *Result) Score() int { return r.score }
