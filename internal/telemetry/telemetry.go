// Package telemetry exposes tracing handles for the sink pipeline.
package telemetry

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Tracer returns a named tracer for the component.
func Tracer(component string) trace.Tracer {
	return otel.Tracer("sink/" + component)
}

// TableAttrs builds the span attributes shared by table-scoped spans.
func TableAttrs(table string, records int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("sink.table", table),
		attribute.Int("sink.records", records),
	}
}
