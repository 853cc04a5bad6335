package observe

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/projectmcp/bigquery-mcp/observe/exporters"
)

// Config configures the telemetry stack.
type Config struct {
	// ServiceName identifies this process in telemetry. Required.
	ServiceName string

	// Version is the service version attached to telemetry resources.
	Version string

	// LogLevel is one of debug|info|warn|error. Empty means info.
	LogLevel string

	// MetricExporter is one of otlp|prometheus|stdout|none.
	MetricExporter string

	// TraceExporter is one of otlp|stdout|none.
	TraceExporter string

	// TraceSampleRate is the fraction of traces sampled, 0.0-1.0.
	TraceSampleRate float64
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		return errors.New("observe: service name is required")
	}
	switch c.MetricExporter {
	case "", "otlp", "prometheus", "stdout", "none":
	default:
		return fmt.Errorf("observe: unknown metric exporter %q", c.MetricExporter)
	}
	switch c.TraceExporter {
	case "", "otlp", "stdout", "none":
	default:
		return fmt.Errorf("observe: unknown trace exporter %q", c.TraceExporter)
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("observe: unknown log level %q", c.LogLevel)
	}
	if c.TraceSampleRate < 0 || c.TraceSampleRate > 1.0 {
		return fmt.Errorf("observe: trace sample rate must be in [0,1], got %f", c.TraceSampleRate)
	}
	return nil
}

// Observer owns the process-wide telemetry providers. Construct once at
// startup, share freely, shut down on exit.
type Observer struct {
	logger Logger
	meter  metric.Meter
	tracer trace.Tracer

	meterProvider  *sdkmetric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
}

// NewObserver builds the telemetry stack from cfg.
func NewObserver(ctx context.Context, cfg Config) (*Observer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.Version),
	))
	if err != nil {
		return nil, fmt.Errorf("observe: build resource: %w", err)
	}

	obs := &Observer{logger: NewLogger(cfg.LogLevel)}

	reader, err := exporters.NewMetricReader(ctx, cfg.MetricExporter)
	if err != nil {
		return nil, err
	}
	if reader != nil {
		obs.meterProvider = sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(reader),
		)
		otel.SetMeterProvider(obs.meterProvider)
		obs.meter = obs.meterProvider.Meter(cfg.ServiceName)
	} else {
		obs.meter = metricnoop.NewMeterProvider().Meter(cfg.ServiceName)
	}

	exporter, err := exporters.NewSpanExporter(ctx, cfg.TraceExporter)
	if err != nil {
		return nil, err
	}
	if exporter != nil {
		obs.tracerProvider = sdktrace.NewTracerProvider(
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sampler(cfg.TraceSampleRate)),
			sdktrace.WithBatcher(exporter),
		)
		otel.SetTracerProvider(obs.tracerProvider)
		obs.tracer = obs.tracerProvider.Tracer(cfg.ServiceName)
	} else {
		obs.tracer = tracenoop.NewTracerProvider().Tracer(cfg.ServiceName)
	}

	return obs, nil
}

func sampler(rate float64) sdktrace.Sampler {
	switch {
	case rate >= 1.0:
		return sdktrace.AlwaysSample()
	case rate <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.TraceIDRatioBased(rate)
	}
}

// Logger returns the structured logger.
func (o *Observer) Logger() Logger { return o.logger }

// Meter returns the configured meter.
func (o *Observer) Meter() metric.Meter { return o.meter }

// Tracer returns the configured tracer.
func (o *Observer) Tracer() trace.Tracer { return o.tracer }

// Shutdown flushes and stops the telemetry providers. Idempotent.
func (o *Observer) Shutdown(ctx context.Context) error {
	var errs []error
	if o.tracerProvider != nil {
		if err := o.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("observe: tracer shutdown: %w", err))
		}
		o.tracerProvider = nil
	}
	if o.meterProvider != nil {
		if err := o.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("observe: meter shutdown: %w", err))
		}
		o.meterProvider = nil
	}
	return errors.Join(errs...)
}
