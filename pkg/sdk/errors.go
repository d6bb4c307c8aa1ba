package contentdex

import "github.com/kailas-cloud/contentdex/internal/domain"

// ErrInvalidRequest is returned by Search for a query that is too long or a
// malformed category slug. Use errors.Is() to check.
//
// Unknown category tags and failing collections never fail a search; see
// Page.SkippedCategories and Page.FailedCategories.
var ErrInvalidRequest = domain.ErrInvalidRequest
