package search

import (
	"context"
	"time"

	"github.com/kailas-cloud/contentdex/internal/domain/category"
	"github.com/kailas-cloud/contentdex/internal/domain/search/request"
	"github.com/kailas-cloud/contentdex/internal/domain/search/result"
)

// CategorySearcher fetches scored hits for one content category.
type CategorySearcher interface {
	Search(ctx context.Context, desc category.Descriptor, req *request.Request) ([]result.Hit, error)
}

// Recorder receives search telemetry. Implementations must be safe for concurrent use.
type Recorder interface {
	ObserveCategory(tag category.Tag, status string, d time.Duration)
	ObservePage(results int, failed int)
}

// Category outcome labels passed to Recorder.ObserveCategory.
const (
	StatusOK      = "ok"
	StatusError   = "error"
	StatusTimeout = "timeout"
)
