package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/contentdex/internal/domain/category"
)

func TestSearchRecorder_ObserveCategory(t *testing.T) {
	var rec SearchRecorder
	before := testutil.ToFloat64(CategoryQueriesTotal.WithLabelValues("qa", "timeout"))

	rec.ObserveCategory(category.QA, "timeout", 3*time.Second)

	after := testutil.ToFloat64(CategoryQueriesTotal.WithLabelValues("qa", "timeout"))
	if after-before != 1 {
		t.Errorf("expected counter to grow by 1, got %f", after-before)
	}
	if testutil.CollectAndCount(CategoryQueryDuration) == 0 {
		t.Error("expected category_query_duration_seconds to have observations")
	}
}

func TestSearchRecorder_ObservePage(t *testing.T) {
	var rec SearchRecorder
	before := testutil.ToFloat64(SearchDegradedTotal)

	rec.ObservePage(20, 0)
	rec.ObservePage(3, 1)

	if got := testutil.ToFloat64(SearchDegradedTotal) - before; got != 1 {
		t.Errorf("expected 1 degraded search, got %f", got)
	}
}

func TestRegisterSearchMetrics_Idempotent(t *testing.T) {
	RegisterSearchMetrics()
	RegisterSearchMetrics()
}
