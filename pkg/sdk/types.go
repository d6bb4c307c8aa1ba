package contentdex

import "time"

// Result is a single normalized search hit.
type Result struct {
	ID          string
	ExternalID  string
	Title       string
	Description string
	CategoryTag string
	// Date is nil for records without a publish or creation date.
	Date       *time.Time
	Slug       string
	ParentSlug string
	URL        string
	Score      int
}

// Page is the merged, ranked outcome of one search.
type Page struct {
	Results []Result
	// CategoryTypes lists the categories that were searched.
	CategoryTypes []string
	// FailedCategories lists searched categories whose lookup failed or timed out.
	FailedCategories []string
	// SkippedCategories lists requested tags that are not registered.
	SkippedCategories []string
}

// Category describes one searchable content category.
type Category struct {
	Tag              string
	Collection       string
	SearchableFields []string
	RoutePrefix      string
}
