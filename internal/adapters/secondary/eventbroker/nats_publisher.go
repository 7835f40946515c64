package eventbroker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/jupiterclapton/chirp/internal/core/domain"
)

const SubjectPostCreated = "post.created"

type NatsPublisher struct {
	nc *nats.Conn
}

func NewNatsPublisher(nc *nats.Conn) *NatsPublisher {
	return &NatsPublisher{nc: nc}
}

// PostCreatedEvent : contrat implicite avec les consommateurs (notifications, recherche...)
type PostCreatedEvent struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func (p *NatsPublisher) PublishPostCreated(ctx context.Context, post *domain.Post) error {
	msg, err := newPostCreatedMsg(ctx, post)
	if err != nil {
		return err
	}

	slog.DebugContext(ctx, "📢 Publishing event with trace context", "subject", msg.Subject, "post_id", post.ID)
	return p.nc.PublishMsg(msg)
}

func newPostCreatedMsg(ctx context.Context, post *domain.Post) (*nats.Msg, error) {
	data, err := json.Marshal(PostCreatedEvent{
		ID:        post.ID,
		AuthorID:  post.AuthorID,
		Content:   post.Content,
		CreatedAt: post.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("marshalling error: %w", err)
	}

	msg := &nats.Msg{
		Subject: SubjectPostCreated,
		Data:    data,
		Header:  nats.Header{},
	}
	// Injection du TraceID dans les headers NATS
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(msg.Header))
	return msg, nil
}
