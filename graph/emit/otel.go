package emit

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// OTelEmitter implements Emitter by creating OpenTelemetry spans.
//
// Each event becomes a span with:
//   - Span name: event.Msg (e.g., "link_created", "pass_complete")
//   - Attributes: graphID, revision, nodeID, linkID, and all Meta fields
//   - Status: error if event.Meta["error"] exists
//
// Events represent points in time (a mutation, a completed pass), so each
// span is ended immediately after creation. Pass durations travel in the
// "duration_ms" Meta field and surface as a span attribute.
//
// Usage:
//
//	// Create tracer from an OpenTelemetry provider
//	tracer := otel.Tracer("wiregraph-go")
//	emitter := emit.NewOTelEmitter(tracer)
//
//	g := graph.NewGraphStore(reg, graph.WithEmitter(emitter))
//
// Integration with OpenTelemetry:
//
//	import (
//	    "go.opentelemetry.io/otel"
//	    sdktrace "go.opentelemetry.io/otel/sdk/trace"
//	)
//
//	tp := sdktrace.NewTracerProvider(
//	    sdktrace.WithBatcher(exporter),
//	)
//	otel.SetTracerProvider(tp)
//	emitter := emit.NewOTelEmitter(otel.Tracer("wiregraph-go"))
type OTelEmitter struct {
	tracer trace.Tracer
}

// NewOTelEmitter creates an OTelEmitter from a tracer obtained via
// otel.Tracer("service-name").
func NewOTelEmitter(tracer trace.Tracer) *OTelEmitter {
	return &OTelEmitter{tracer: tracer}
}

// Emit creates an OpenTelemetry span for the event and ends it immediately.
func (o *OTelEmitter) Emit(event Event) {
	ctx := context.Background()
	_, span := o.tracer.Start(ctx, event.Msg)
	defer span.End()

	o.addStandardAttributes(span, event)
	o.addMetadataAttributes(span, event.Meta)

	if err, ok := event.Meta["error"].(string); ok {
		span.SetStatus(codes.Error, err)
		span.RecordError(fmt.Errorf("%s", err))
	}
}

// EmitBatch creates spans for several events under one context. The span
// processor batches the export.
func (o *OTelEmitter) EmitBatch(ctx context.Context, events []Event) error {
	for _, event := range events {
		_, span := o.tracer.Start(ctx, event.Msg)

		o.addStandardAttributes(span, event)
		o.addMetadataAttributes(span, event.Meta)

		if err, ok := event.Meta["error"].(string); ok {
			span.SetStatus(codes.Error, err)
			span.RecordError(fmt.Errorf("%s", err))
		}

		span.End()
	}
	return nil
}

// addStandardAttributes records the event's identifying fields.
func (o *OTelEmitter) addStandardAttributes(span trace.Span, event Event) {
	span.SetAttributes(
		attribute.String("wiregraph.graph_id", event.GraphID),
		attribute.Int64("wiregraph.revision", int64(event.Revision)),
		attribute.String("wiregraph.node_id", event.NodeID),
		attribute.String("wiregraph.link_id", event.LinkID),
	)
}

// addMetadataAttributes records Meta entries, converting to the closest
// OTel attribute type. Unconvertible values fall back to %v formatting.
func (o *OTelEmitter) addMetadataAttributes(span trace.Span, meta map[string]interface{}) {
	for key, value := range meta {
		attrKey := "wiregraph.meta." + key
		switch v := value.(type) {
		case string:
			span.SetAttributes(attribute.String(attrKey, v))
		case bool:
			span.SetAttributes(attribute.Bool(attrKey, v))
		case int:
			span.SetAttributes(attribute.Int64(attrKey, int64(v)))
		case int64:
			span.SetAttributes(attribute.Int64(attrKey, v))
		case uint64:
			span.SetAttributes(attribute.Int64(attrKey, int64(v)))
		case float64:
			span.SetAttributes(attribute.Float64(attrKey, v))
		default:
			span.SetAttributes(attribute.String(attrKey, fmt.Sprintf("%v", v)))
		}
	}
}
