package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestNewLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggingConfig{Level: "info", Format: "json"}, &buf)

	logger.Info("cache warmed", "entries", 42)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "cache warmed", entry["msg"])
	assert.Equal(t, float64(42), entry["entries"])
	assert.NotContains(t, entry, "trace_id", "no span in context")
}

func TestNewLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggingConfig{Level: "warn"}, &buf)

	logger.Info("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestNewLogger_TraceCorrelation(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggingConfig{Format: "json"}, &buf)

	spanCtx := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: trace.TraceID{0x01},
		SpanID:  trace.SpanID{0x02},
	})
	ctx := trace.ContextWithSpanContext(context.Background(), spanCtx)

	logger.InfoContext(ctx, "lookup complete")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, spanCtx.TraceID().String(), entry["trace_id"])
	assert.Equal(t, spanCtx.SpanID().String(), entry["span_id"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("WARN"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
	assert.Equal(t, slog.LevelInfo, parseLevel("bogus"))
}

func TestInitTracing_DisabledReturnsProvider(t *testing.T) {
	ctx := context.Background()

	tp, err := InitTracing(ctx, TracingConfig{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, tp)
	require.NoError(t, ShutdownTracing(ctx, tp))
}

func TestShutdownTracing_NilProvider(t *testing.T) {
	assert.NoError(t, ShutdownTracing(context.Background(), nil))
}
