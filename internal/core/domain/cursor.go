package domain

import (
	"encoding/base64"
	"strings"
	"time"
)

// PageCursor est la position du dernier post vu, dans l'ordre (created_at DESC, id DESC).
// Le couple est nécessaire : plusieurs posts peuvent partager le même created_at.
type PageCursor struct {
	CreatedAt time.Time
	ID        string
}

func (c PageCursor) IsZero() bool {
	return c.CreatedAt.IsZero() && c.ID == ""
}

// After : vrai si p vient après le curseur dans l'ordre du Feed
func (c PageCursor) After(p *Post) bool {
	if p.CreatedAt.Equal(c.CreatedAt) {
		return p.ID < c.ID
	}
	return p.CreatedAt.Before(c.CreatedAt)
}

func CursorFor(p *Post) PageCursor {
	return PageCursor{CreatedAt: p.CreatedAt, ID: p.ID}
}

// Encode produit un token opaque, sûr dans une query string
func (c PageCursor) Encode() string {
	raw := c.CreatedAt.UTC().Format(time.RFC3339Nano) + "|" + c.ID
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func DecodeCursor(token string) (PageCursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return PageCursor{}, ErrInvalidCursor
	}
	ts, id, ok := strings.Cut(string(raw), "|")
	if !ok || id == "" {
		return PageCursor{}, ErrInvalidCursor
	}
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return PageCursor{}, ErrInvalidCursor
	}
	return PageCursor{CreatedAt: t, ID: id}, nil
}
