package domain

import "errors"

// --- ERREURS DU DOMAINE ---
var (
	ErrUnauthenticated     = errors.New("authentication required")
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
	ErrPostNotFound        = errors.New("post not found")
	ErrInvalidContent      = errors.New("invalid post content")
	ErrInvalidCursor       = errors.New("invalid page token")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrRateLimited         = errors.New("too many posts, slow down")
)
