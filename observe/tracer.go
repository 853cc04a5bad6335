package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ToolTracer starts and ends spans around tool executions.
type ToolTracer struct {
	tracer trace.Tracer
}

// NewToolTracer wraps an OpenTelemetry tracer.
func NewToolTracer(tracer trace.Tracer) *ToolTracer {
	return &ToolTracer{tracer: tracer}
}

// StartTool starts a span named tool.exec.<name> with the tool and caller
// principal as attributes.
func (t *ToolTracer) StartTool(ctx context.Context, tool, principal string) (context.Context, trace.Span) {
	ctx, span := t.tracer.Start(ctx, "tool.exec."+tool,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("tool", tool),
			attribute.String("principal", principal),
		),
	)
	return ctx, span
}

// EndTool ends the span, recording err when present.
func (t *ToolTracer) EndTool(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("tool.error", true))
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
