package bigquery

import (
	"context"

	"github.com/projectmcp/bigquery-mcp/health"
)

// HealthChecker probes BigQuery reachability with a dry-run query.
// Dry runs are free and complete without starting a job, so readiness
// checks cost nothing beyond the API round trip.
type HealthChecker struct {
	client *Client
}

// NewHealthChecker creates a checker for the given client.
func NewHealthChecker(client *Client) *HealthChecker {
	return &HealthChecker{client: client}
}

// Name returns "bigquery".
func (h *HealthChecker) Name() string { return "bigquery" }

// Check dry-runs a trivial query.
func (h *HealthChecker) Check(ctx context.Context) health.Result {
	q := h.client.bq.Query("SELECT 1")
	q.DryRun = true
	if _, err := q.Run(ctx); err != nil {
		return health.Unhealthy("bigquery unreachable", err)
	}
	return health.Healthy("bigquery reachable")
}

var _ health.Checker = (*HealthChecker)(nil)
