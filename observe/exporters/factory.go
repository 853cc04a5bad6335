// Package exporters builds OpenTelemetry exporters from config names.
package exporters

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// NewMetricReader creates a metric reader for the named exporter.
// A nil reader means metrics are disabled. The prometheus reader registers
// on the default prometheus registry; the server exposes it on /metrics.
func NewMetricReader(ctx context.Context, name string) (sdkmetric.Reader, error) {
	switch name {
	case "prometheus":
		exp, err := prometheus.New()
		if err != nil {
			return nil, fmt.Errorf("observe: prometheus exporter: %w", err)
		}
		return exp, nil

	case "otlp":
		if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" && os.Getenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT") == "" {
			return nil, fmt.Errorf("observe: otlp metrics endpoint not configured")
		}
		exp, err := otlpmetricgrpc.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("observe: otlp metric exporter: %w", err)
		}
		return sdkmetric.NewPeriodicReader(exp), nil

	case "stdout":
		exp, err := stdoutmetric.New(stdoutmetric.WithWriter(os.Stdout))
		if err != nil {
			return nil, fmt.Errorf("observe: stdout metric exporter: %w", err)
		}
		return sdkmetric.NewPeriodicReader(exp), nil

	case "none", "":
		return nil, nil

	default:
		return nil, fmt.Errorf("observe: unknown metric exporter %q", name)
	}
}

// NewSpanExporter creates a span exporter for the named exporter.
// A nil exporter means tracing is disabled.
func NewSpanExporter(ctx context.Context, name string) (sdktrace.SpanExporter, error) {
	switch name {
	case "otlp":
		if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" && os.Getenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT") == "" {
			return nil, fmt.Errorf("observe: otlp traces endpoint not configured")
		}
		return otlptracegrpc.New(ctx)

	case "stdout":
		return stdouttrace.New(stdouttrace.WithWriter(os.Stdout))

	case "none", "":
		return nil, nil

	default:
		return nil, fmt.Errorf("observe: unknown trace exporter %q", name)
	}
}
