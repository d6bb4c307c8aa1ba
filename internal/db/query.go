package db

import (
	"errors"

	"github.com/kailas-cloud/contentdex/internal/domain/search/filter"
)

// StatusPublished selects only published entries.
const StatusPublished = "published"

// Sort is a single-field ordering.
type Sort struct {
	Field string
	Desc  bool
}

// Query describes a collection lookup independent of the backend.
type Query struct {
	Collection string
	Filter     filter.Expression
	// Status restricts entries by publication state; empty means any.
	Status   string
	Sort     Sort
	Limit    int
	Populate []string
}

// Validate checks the query is executable.
func (q *Query) Validate() error {
	if q.Collection == "" {
		return errors.New("collection is required")
	}
	if q.Limit < 0 {
		return errors.New("limit must be non-negative")
	}
	return nil
}
