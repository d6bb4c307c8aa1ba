package contentdex

import (
	"context"

	healthuc "github.com/kailas-cloud/contentdex/internal/usecase/health"
)

// HealthStatus is the aggregated health of the embedded engine.
type HealthStatus struct {
	Status string            // "ok" or "error"
	Checks map[string]string // component name to "ok"/"error"
}

// Healthy reports whether every component answered.
func (h HealthStatus) Healthy() bool { return h.Status == string(healthuc.Healthy) }

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Health pings the content store.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	h := HealthStatus{
		Status: string(report.Status),
		Checks: make(map[string]string, len(report.Checks)),
	}
	for name, res := range report.Checks {
		h.Checks[name] = string(res)
	}
	return h
}
