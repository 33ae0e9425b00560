package knowledge

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracedService wraps a Service with OpenTelemetry spans.
// Safe for concurrent use; all state lives in the inner service.
type TracedService struct {
	inner  Service
	tracer trace.Tracer
}

// NewTracedService wraps inner with tracing on every operation.
func NewTracedService(inner Service, tracer trace.Tracer) *TracedService {
	return &TracedService{inner: inner, tracer: tracer}
}

func (t *TracedService) QueryExisting(ctx context.Context, req QueryExistingRequest) (*LookupResult, error) {
	ctx, span := t.tracer.Start(ctx, "sye.knowledge.query_existing")
	defer span.End()

	span.SetAttributes(
		attribute.String("sye.lookup.label", req.Label),
		attribute.String("sye.lookup.name", req.Name),
	)

	result, err := t.inner.QueryExisting(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("sye.lookup.source", result.Source),
		attribute.Int("sye.lookup.nodes", len(result.Nodes)),
	)
	span.SetStatus(codes.Ok, "")
	return result, nil
}

func (t *TracedService) WriteGraph(ctx context.Context, payload GraphPayload) (*WriteResult, error) {
	ctx, span := t.tracer.Start(ctx, "sye.knowledge.write_graph")
	defer span.End()

	span.SetAttributes(
		attribute.Int("sye.write.nodes", len(payload.Nodes)),
		attribute.Int("sye.write.relationships", len(payload.Relationships)),
	)

	result, err := t.inner.WriteGraph(ctx, payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("sye.write.run_id", result.RunID))
	span.SetStatus(codes.Ok, "")
	return result, nil
}

func (t *TracedService) Stats(ctx context.Context) (*GraphStats, error) {
	ctx, span := t.tracer.Start(ctx, "sye.knowledge.stats")
	defer span.End()

	stats, err := t.inner.Stats(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.Int64("sye.stats.total_nodes", stats.TotalNodes),
		attribute.Int64("sye.stats.total_relationships", stats.TotalRelationships),
	)
	span.SetStatus(codes.Ok, "")
	return stats, nil
}
