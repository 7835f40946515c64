package domain

import "time"

// Plafonds appliqués à la lecture du Feed (store ET annuaire)
const (
	FeedLimit          = 100
	ProfileLookupLimit = 100
)

// Post est immuable une fois créé. Le système ne le supprime jamais.
type Post struct {
	ID        string
	AuthorID  string
	Content   string
	CreatedAt time.Time
}

// FeedEntry est construit à chaque requête, jamais persisté.
// Author vaut nil si l'annuaire ne connaît pas AuthorID (compte supprimé, etc.)
type FeedEntry struct {
	Post   Post
	Author *AuthorProfile
}

// PostPage est une page de la pagination par curseur (profil auteur)
type PostPage struct {
	Posts      []*Post
	NextCursor string
}
