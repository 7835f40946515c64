package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

func TestInitTracer(t *testing.T) {
	ctx := context.Background()

	// Le client OTLP gRPC se connecte paresseusement : pas besoin de collecteur
	tp, err := InitTracer(ctx, "localhost:4317", "chirp-test", "test")
	require.NoError(t, err)
	t.Cleanup(func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = tp.Shutdown(shutdownCtx)
	})

	assert.Same(t, tp, otel.GetTracerProvider())
	assert.ElementsMatch(t, []string{"traceparent", "tracestate", "baggage"}, otel.GetTextMapPropagator().Fields())

	_, span := tp.Tracer("test").Start(ctx, "FeedService.ListFeed")
	defer span.End()
	require.True(t, span.SpanContext().IsValid())

	ro, ok := span.(sdktrace.ReadOnlySpan)
	require.True(t, ok)
	service, found := ro.Resource().Set().Value(semconv.ServiceNameKey)
	require.True(t, found)
	assert.Equal(t, "chirp-test", service.AsString())
}
