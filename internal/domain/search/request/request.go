package request

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/contentdex/internal/domain"
	"github.com/kailas-cloud/contentdex/internal/domain/category"
)

// MaxQueryLength is the maximum allowed search query length in characters.
const MaxQueryLength = 512

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:[-_][a-z0-9]+)*$`)

// Request is a validated federated search query.
type Request struct {
	query        string
	categoryTags []category.Tag
	categorySlug string
}

// New validates and normalizes search parameters.
// categoryTypes is a comma-separated tag list or "all"; empty means all.
// categorySlug optionally restricts results to one topical category.
func New(query, categoryTypes, categorySlug string) (Request, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidRequest, MaxQueryLength)
	}

	categorySlug = strings.TrimSpace(categorySlug)
	if categorySlug != "" && !slugPattern.MatchString(categorySlug) {
		return Request{}, fmt.Errorf("%w: malformed category %q", domain.ErrInvalidRequest, categorySlug)
	}

	return Request{
		query:        query,
		categoryTags: category.ParseTags(categoryTypes),
		categorySlug: categorySlug,
	}, nil
}

// Query returns the trimmed query text (may be empty).
func (r *Request) Query() string { return r.query }

// CategoryTags returns the explicitly requested tags; nil means all categories.
func (r *Request) CategoryTags() []category.Tag {
	if r.categoryTags == nil {
		return nil
	}
	out := make([]category.Tag, len(r.categoryTags))
	copy(out, r.categoryTags)
	return out
}

// AllCategories reports whether the default category set is requested.
func (r *Request) AllCategories() bool { return len(r.categoryTags) == 0 }

// CategorySlug returns the topical category restriction, or "".
func (r *Request) CategorySlug() string { return r.categorySlug }
