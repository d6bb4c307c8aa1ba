package chi

import "time"

// ErrorResponseCode is a machine-readable error code.
type ErrorResponseCode string

// Error codes returned in ErrorResponse.Code.
const (
	ErrorResponseCodeBadRequest       ErrorResponseCode = "bad_request"
	ErrorResponseCodeUnauthorized     ErrorResponseCode = "unauthorized"
	ErrorResponseCodeValidationFailed ErrorResponseCode = "validation_failed"
	ErrorResponseCodeInternalError    ErrorResponseCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// SearchParams are the query parameters of GET /search.
type SearchParams struct {
	Query         *string
	CategoryTypes *string
	Category      *string
}

// SearchResultItem is one hit in SearchResponse.Data.
type SearchResultItem struct {
	ID             string     `json:"id"`
	ExternalID     string     `json:"externalId"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	CategoryTag    string     `json:"categoryTag"`
	Date           *time.Time `json:"date"`
	Slug           string     `json:"slug"`
	ParentSlug     *string    `json:"parentSlug,omitempty"`
	URL            string     `json:"url,omitempty"`
	RelevanceScore int        `json:"relevanceScore"`
}

// SearchMeta describes the executed search.
type SearchMeta struct {
	Query            string    `json:"query"`
	CategoryTypes    []string  `json:"categoryTypes"`
	Categories       []string  `json:"categories"`
	Total            int       `json:"total"`
	Timestamp        time.Time `json:"timestamp"`
	FailedCategories []string  `json:"failedCategories"`
}

// SearchResponse is the body of GET /search.
type SearchResponse struct {
	Data []SearchResultItem `json:"data"`
	Meta SearchMeta         `json:"meta"`
}

// CategoryItem describes one searchable category.
type CategoryItem struct {
	Tag              string   `json:"tag"`
	Collection       string   `json:"collection"`
	SearchableFields []string `json:"searchableFields"`
	RoutePrefix      string   `json:"routePrefix,omitempty"`
}

// CategoryListResponse is the body of GET /categories.
type CategoryListResponse struct {
	Items []CategoryItem `json:"items"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
