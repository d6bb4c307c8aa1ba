package health

import (
	"context"
	"sync"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the service answers searches but an optional component is down.
	Degraded Status = "degraded"
	// Unhealthy indicates the content store is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Check names reported in Report.Checks.
const (
	CheckContentStore = "content_store"
	CheckCache        = "cache"
)

// DefaultCheckTimeout bounds a single component ping.
const DefaultCheckTimeout = 2 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service pings the content store and, when configured, the result cache.
type Service struct {
	components map[string]Pinger
	timeout    time.Duration
}

// New creates a Service. cache can be nil when result caching is disabled.
func New(content, cache Pinger) *Service {
	components := map[string]Pinger{CheckContentStore: content}
	if cache != nil {
		components[CheckCache] = cache
	}
	return &Service{components: components, timeout: DefaultCheckTimeout}
}

// WithTimeout overrides the per-component ping timeout.
func (s *Service) WithTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// Check pings all components concurrently.
// A failing content store makes the service unhealthy; a failing cache only degrades it.
func (s *Service) Check(ctx context.Context) Report {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		checks = make(map[string]CheckResult, len(s.components))
	)
	for name, p := range s.components {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := s.ping(ctx, p)
			mu.Lock()
			checks[name] = res
			mu.Unlock()
		}()
	}
	wg.Wait()

	status := Healthy
	switch {
	case checks[CheckContentStore] != CheckOK:
		status = Unhealthy
	case checks[CheckCache] == CheckError:
		status = Degraded
	}
	return Report{Status: status, Checks: checks}
}

func (s *Service) ping(ctx context.Context, p Pinger) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := p.Ping(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}
