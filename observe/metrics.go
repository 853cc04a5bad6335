package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ToolMetrics records tool execution outcomes.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type ToolMetrics interface {
	// RecordTool records one tool execution with its duration and outcome.
	RecordTool(ctx context.Context, tool string, duration time.Duration, err error)
}

// AuthMetrics records authentication outcomes at the request boundary.
type AuthMetrics interface {
	// RecordAuth records one authentication attempt. method is empty on
	// failure so the failure counter cannot leak which path rejected.
	RecordAuth(ctx context.Context, method string, ok bool)
}

// Metrics implements ToolMetrics and AuthMetrics on an OpenTelemetry meter.
type Metrics struct {
	toolCalls    metric.Int64Counter
	toolErrors   metric.Int64Counter
	toolDuration metric.Float64Histogram
	authAttempts metric.Int64Counter
}

// NewMetrics creates the server's instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	toolCalls, err := meter.Int64Counter(
		"mcp.tool.calls",
		metric.WithDescription("Total tool invocations"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	toolErrors, err := meter.Int64Counter(
		"mcp.tool.errors",
		metric.WithDescription("Tool invocations that returned an error payload"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	toolDuration, err := meter.Float64Histogram(
		"mcp.tool.duration_ms",
		metric.WithDescription("Tool execution duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	authAttempts, err := meter.Int64Counter(
		"auth.attempts",
		metric.WithDescription("Authentication attempts by method and outcome"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		toolCalls:    toolCalls,
		toolErrors:   toolErrors,
		toolDuration: toolDuration,
		authAttempts: authAttempts,
	}, nil
}

// RecordTool records one tool execution.
func (m *Metrics) RecordTool(ctx context.Context, tool string, duration time.Duration, err error) {
	opt := metric.WithAttributes(attribute.String("tool", tool))
	m.toolCalls.Add(ctx, 1, opt)
	if err != nil {
		m.toolErrors.Add(ctx, 1, opt)
	}
	m.toolDuration.Record(ctx, float64(duration.Milliseconds()), opt)
}

// RecordAuth records one authentication attempt.
func (m *Metrics) RecordAuth(ctx context.Context, method string, ok bool) {
	outcome := "failure"
	if ok {
		outcome = "success"
	}
	m.authAttempts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("outcome", outcome),
	))
}

// NopToolMetrics returns a ToolMetrics that records nothing.
func NopToolMetrics() ToolMetrics { return nopMetrics{} }

// NopAuthMetrics returns an AuthMetrics that records nothing.
func NopAuthMetrics() AuthMetrics { return nopMetrics{} }

type nopMetrics struct{}

func (nopMetrics) RecordTool(context.Context, string, time.Duration, error) {}
func (nopMetrics) RecordAuth(context.Context, string, bool)                 {}

var (
	_ ToolMetrics = (*Metrics)(nil)
	_ AuthMetrics = (*Metrics)(nil)
)
