package services

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/jupiterclapton/chirp/internal/core/domain"
	"github.com/jupiterclapton/chirp/internal/core/ports"
)

var tracer = otel.Tracer("chirp/services")

type FeedService struct {
	repo      ports.PostRepository
	directory ports.ProfileDirectory
}

func NewFeedService(repo ports.PostRepository, directory ports.ProfileDirectory) *FeedService {
	return &FeedService{
		repo:      repo,
		directory: directory,
	}
}

func (s *FeedService) ListFeed(ctx context.Context) ([]domain.FeedEntry, error) {
	ctx, span := tracer.Start(ctx, "FeedService.ListFeed")
	defer span.End()

	// 1. Posts récents (Source of Truth locale)
	posts, err := s.repo.ListRecent(ctx, domain.FeedLimit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list posts failed")
		return nil, upstreamErr("post store", err)
	}
	span.SetAttributes(attribute.Int("feed.posts", len(posts)))

	// 2. Hydratation des auteurs (un seul appel à l'annuaire)
	entries, err := s.enrich(ctx, posts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "author lookup failed")
		return nil, err
	}

	slog.DebugContext(ctx, "Feed assembled", "entries", len(entries))
	return entries, nil
}

func (s *FeedService) GetFeedEntry(ctx context.Context, postID string) (*domain.FeedEntry, error) {
	ctx, span := tracer.Start(ctx, "FeedService.GetFeedEntry")
	defer span.End()

	if postID == "" {
		return nil, domain.ErrInvalidArgument
	}

	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			return nil, err
		}
		span.RecordError(err)
		return nil, upstreamErr("post store", err)
	}

	entries, err := s.enrich(ctx, []*domain.Post{post})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &entries[0], nil
}

// enrich joint chaque post à son profil. L'ordre des posts est conservé
// et un profil manquant laisse Author à nil sans supprimer l'entrée.
func (s *FeedService) enrich(ctx context.Context, posts []*domain.Post) ([]domain.FeedEntry, error) {
	entries := make([]domain.FeedEntry, 0, len(posts))
	if len(posts) == 0 {
		return entries, nil
	}

	profiles, err := s.directory.BulkGetProfiles(ctx, distinctAuthorIDs(posts), domain.ProfileLookupLimit)
	if err != nil {
		return nil, upstreamErr("identity directory", err)
	}

	// Index construit une seule fois par requête (pas de recherche linéaire par post)
	byID := make(map[string]domain.AuthorProfile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	for _, post := range posts {
		entry := domain.FeedEntry{Post: *post}
		if profile, ok := byID[post.AuthorID]; ok {
			entry.Author = &profile
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func distinctAuthorIDs(posts []*domain.Post) []string {
	seen := make(map[string]struct{}, len(posts))
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		if _, ok := seen[p.AuthorID]; ok {
			continue
		}
		seen[p.AuthorID] = struct{}{}
		ids = append(ids, p.AuthorID)
	}
	return ids
}
