// Package observability wires distributed tracing and structured logging.
// Tracing exports spans over OTLP/gRPC; logging is log/slog with optional
// trace correlation.
package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc/credentials"

	"github.com/rkorrapolu/sye-agent/internal/types"
	"github.com/rkorrapolu/sye-agent/internal/version"
)

const (
	defaultBatchTimeout = 5 * time.Second
	defaultServiceName  = "sye-agent"
)

// TracingConfig controls span export.
type TracingConfig struct {
	// Enabled turns tracing on. When false InitTracing returns a provider
	// that records nothing.
	Enabled bool

	// Endpoint is the OTLP/gRPC collector endpoint, host:port.
	Endpoint string

	// Insecure disables TLS on the exporter connection. Only for local
	// collectors.
	Insecure bool

	// ServiceName overrides the default service name on exported spans.
	ServiceName string

	// BatchTimeout is the maximum time between batch exports.
	BatchTimeout time.Duration
}

// Observability error codes
const (
	ErrCodeExporterInit types.ErrorCode = "OBSERVABILITY_EXPORTER_INIT_FAILED"
	ErrCodeShutdown     types.ErrorCode = "OBSERVABILITY_SHUTDOWN_FAILED"
)

// InitTracing initializes the global tracer provider. When cfg.Enabled is
// false it returns a provider that records nothing, so callers can always
// defer ShutdownTracing unconditionally.
func InitTracing(ctx context.Context, cfg TracingConfig) (*sdktrace.TracerProvider, error) {
	if !cfg.Enabled {
		return sdktrace.NewTracerProvider(), nil
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = defaultServiceName
	}
	batchTimeout := cfg.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = defaultBatchTimeout
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version.Version),
		),
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
	)
	if err != nil {
		return nil, types.WrapError(ErrCodeExporterInit, "failed to create resource", err)
	}

	otlpOpts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		otlpOpts = append(otlpOpts, otlptracegrpc.WithInsecure())
	} else {
		otlpOpts = append(otlpOpts, otlptracegrpc.WithTLSCredentials(credentials.NewTLS(nil)))
	}

	exporter, err := otlptracegrpc.New(ctx, otlpOpts...)
	if err != nil {
		return nil, types.WrapError(ErrCodeExporterInit, "failed to create OTLP exporter", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter,
			sdktrace.WithBatchTimeout(batchTimeout),
		),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return tp, nil
}

// ShutdownTracing flushes pending spans and shuts the provider down. Call
// before exit; the context timeout bounds how long in-flight exports may
// take.
func ShutdownTracing(ctx context.Context, provider *sdktrace.TracerProvider) error {
	if provider == nil {
		return nil
	}
	if err := provider.Shutdown(ctx); err != nil {
		return types.WrapError(ErrCodeShutdown, "failed to shutdown tracer provider", err)
	}
	return nil
}
