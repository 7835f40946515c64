package ports

import (
	"context"

	"github.com/jupiterclapton/chirp/internal/core/domain"
)

// --- DRIVING (Ce que le service expose) ---

// FeedService assemble le Feed : posts locaux + profils de l'annuaire d'identité.
type FeedService interface {
	// ListFeed retourne au plus domain.FeedLimit entrées, du plus récent au plus ancien
	ListFeed(ctx context.Context) ([]domain.FeedEntry, error)
	GetFeedEntry(ctx context.Context, postID string) (*domain.FeedEntry, error)
}

type PostService interface {
	// CreatePost : l'identité de l'appelant est un paramètre, pas un état ambiant
	CreatePost(ctx context.Context, caller domain.Caller, content string) (*domain.Post, error)
	ListPostsByAuthor(ctx context.Context, authorID string, limit int, cursor string) (*domain.PostPage, error)
}
