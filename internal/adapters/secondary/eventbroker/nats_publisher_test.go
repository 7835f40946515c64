package eventbroker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jupiterclapton/chirp/internal/core/domain"
)

func TestNewPostCreatedMsg(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	createdAt := time.Date(2026, 5, 1, 8, 30, 0, 0, time.UTC)
	msg, err := newPostCreatedMsg(ctx, &domain.Post{ID: "p1", AuthorID: "u1", Content: "hello", CreatedAt: createdAt})
	require.NoError(t, err)

	assert.Equal(t, SubjectPostCreated, msg.Subject)
	assert.Contains(t, msg.Header.Get("traceparent"), "4bf92f3577b34da6a3ce929d0e0e4736")

	var event PostCreatedEvent
	require.NoError(t, json.Unmarshal(msg.Data, &event))
	assert.Equal(t, "p1", event.ID)
	assert.Equal(t, "u1", event.AuthorID)
	assert.Equal(t, "hello", event.Content)
	assert.True(t, createdAt.Equal(event.CreatedAt))
}
