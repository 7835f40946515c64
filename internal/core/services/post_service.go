package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jupiterclapton/chirp/internal/core/domain"
	"github.com/jupiterclapton/chirp/internal/core/ports"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type service struct {
	repo      ports.PostRepository
	limiter   ports.RateLimiter
	publisher ports.EventPublisher
	policy    domain.ContentPolicy
	now       func() time.Time
}

func NewPostService(repo ports.PostRepository, limiter ports.RateLimiter, pub ports.EventPublisher, policy domain.ContentPolicy) ports.PostService {
	return &service{
		repo:      repo,
		limiter:   limiter,
		publisher: pub,
		policy:    policy,
		now:       time.Now,
	}
}

func (s *service) CreatePost(ctx context.Context, caller domain.Caller, content string) (*domain.Post, error) {
	ctx, span := tracer.Start(ctx, "PostService.CreatePost")
	defer span.End()

	// 1. Authentification : rien n'est écrit pour un appelant anonyme
	if !caller.IsAuthenticated() {
		return nil, domain.ErrUnauthenticated
	}
	span.SetAttributes(attribute.String("post.author_id", caller.UserID))

	// 2. Politique de contenu
	if err := s.policy.Validate(content); err != nil {
		return nil, err
	}

	// 3. Quota par auteur
	allowed, err := s.limiter.Allow(ctx, caller.UserID)
	if err != nil {
		span.RecordError(err)
		return nil, upstreamErr("rate limiter", err)
	}
	if !allowed {
		return nil, domain.ErrRateLimited
	}

	post := &domain.Post{
		ID:        uuid.NewString(),
		AuthorID:  caller.UserID,
		Content:   content,
		CreatedAt: s.now().UTC(),
	}

	// 4. Sauvegarde DB (Source of Truth)
	if err := s.repo.Save(ctx, post); err != nil {
		span.RecordError(err)
		return nil, upstreamErr("post store", err)
	}

	// 5. Publication Événement (best effort, la donnée est déjà sauvée)
	if err := s.publisher.PublishPostCreated(ctx, post); err != nil {
		slog.WarnContext(ctx, "Failed to publish post.created", "post_id", post.ID, "error", err)
	}

	return post, nil
}

func (s *service) ListPostsByAuthor(ctx context.Context, authorID string, limit int, cursor string) (*domain.PostPage, error) {
	ctx, span := tracer.Start(ctx, "PostService.ListPostsByAuthor")
	defer span.End()

	if authorID == "" {
		return nil, domain.ErrInvalidArgument
	}
	limit = clampLimit(limit)

	// Le token opaque encode (created_at, id) du dernier post vu
	var after domain.PageCursor
	if cursor != "" {
		c, err := domain.DecodeCursor(cursor)
		if err != nil {
			return nil, err
		}
		after = c
	}

	posts, err := s.repo.ListByAuthor(ctx, authorID, limit, after)
	if err != nil {
		span.RecordError(err)
		return nil, upstreamErr("post store", err)
	}

	page := &domain.PostPage{Posts: posts}
	if page.Posts == nil {
		page.Posts = []*domain.Post{}
	}
	// Page pleine : il peut rester des posts plus anciens
	if len(posts) == limit {
		page.NextCursor = domain.CursorFor(posts[len(posts)-1]).Encode()
	}
	return page, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}
