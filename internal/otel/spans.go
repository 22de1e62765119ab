package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Standard attribute keys for configwatchd spans.
var (
	AttrSourcePath = attribute.Key("configwatchd.source.path")
	AttrConfigPath = attribute.Key("configwatchd.config.path")
	AttrRunID      = attribute.Key("configwatchd.run.id")
	AttrHandle     = attribute.Key("configwatchd.source.handle")
)

// StartSpan is a convenience wrapper that starts an internal span with common attributes.
func StartSpan(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name,
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}
