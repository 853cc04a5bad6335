package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type staticChecker struct {
	name   string
	result Result
}

func (c staticChecker) Name() string                 { return c.name }
func (c staticChecker) Check(context.Context) Result { return c.result }

func TestAggregatorOverall(t *testing.T) {
	tests := []struct {
		name     string
		checkers []Checker
		want     Status
	}{
		{"no checks", nil, StatusHealthy},
		{"all healthy", []Checker{
			staticChecker{"a", Healthy("ok")},
			staticChecker{"b", Healthy("ok")},
		}, StatusHealthy},
		{"one degraded", []Checker{
			staticChecker{"a", Healthy("ok")},
			staticChecker{"b", Degraded("slow")},
		}, StatusDegraded},
		{"unhealthy wins", []Checker{
			staticChecker{"a", Degraded("slow")},
			staticChecker{"b", Unhealthy("down", errors.New("refused"))},
		}, StatusUnhealthy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := NewAggregator(tt.checkers...)
			results := agg.CheckAll(context.Background())
			if got := agg.Overall(results); got != tt.want {
				t.Errorf("Overall = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckAllNamesResults(t *testing.T) {
	agg := NewAggregator(
		staticChecker{"bigquery", Healthy("reachable")},
		staticChecker{"cache", Degraded("cold")},
	)
	results := agg.CheckAll(context.Background())
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results["bigquery"].Status != StatusHealthy {
		t.Errorf("bigquery = %v", results["bigquery"])
	}
	if results["cache"].Message != "cold" {
		t.Errorf("cache = %v", results["cache"])
	}
}

func TestLivenessHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Errorf("healthz = (%d, %q), want (200, OK)", rec.Code, rec.Body.String())
	}
}

func TestReadinessHandler(t *testing.T) {
	tests := []struct {
		name       string
		checker    Checker
		wantCode   int
		wantStatus string
	}{
		{"healthy", staticChecker{"bigquery", Healthy("reachable")}, http.StatusOK, "healthy"},
		{"degraded still serves", staticChecker{"bigquery", Degraded("slow")}, http.StatusOK, "degraded"},
		{"unhealthy", staticChecker{"bigquery", Unhealthy("down", errors.New("refused"))}, http.StatusServiceUnavailable, "unhealthy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			ReadinessHandler(NewAggregator(tt.checker))(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			var resp struct {
				Status string `json:"status"`
				Checks map[string]struct {
					Status string `json:"status"`
				} `json:"checks"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if resp.Status != tt.wantStatus {
				t.Errorf("overall = %q, want %q", resp.Status, tt.wantStatus)
			}
			if _, ok := resp.Checks["bigquery"]; !ok {
				t.Errorf("response missing bigquery check: %v", resp)
			}
		})
	}
}
