package ports

import (
	"context"

	"github.com/jupiterclapton/chirp/internal/core/domain"
)

// --- DRIVEN (Ce dont le service a besoin) ---

type PostRepository interface {
	Save(ctx context.Context, post *domain.Post) error
	FindByID(ctx context.Context, postID string) (*domain.Post, error)

	// ListRecent trie par created_at DESC puis id DESC
	ListRecent(ctx context.Context, limit int) ([]*domain.Post, error)

	// Pagination keyset sur (created_at, id) : after.IsZero() = première page
	ListByAuthor(ctx context.Context, authorID string, limit int, after domain.PageCursor) ([]*domain.Post, error)
}

// ProfileDirectory est l'annuaire d'identité externe (lookup en masse uniquement).
// Les IDs inconnus sont simplement absents du résultat, ce n'est pas une erreur.
type ProfileDirectory interface {
	BulkGetProfiles(ctx context.Context, userIDs []string, limit int) ([]domain.AuthorProfile, error)
}

type EventPublisher interface {
	PublishPostCreated(ctx context.Context, post *domain.Post) error
}

// RateLimiter répond false quand la clé a épuisé son quota sur la fenêtre courante
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
