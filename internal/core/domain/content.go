package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const DefaultMaxContentLength = 280

// ContentPolicy décide si un contenu est publiable. Le contenu accepté est stocké tel quel.
type ContentPolicy struct {
	MaxLength int // en runes, <= 0 = pas de limite
}

func DefaultContentPolicy() ContentPolicy {
	return ContentPolicy{MaxLength: DefaultMaxContentLength}
}

func (p ContentPolicy) Validate(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("%w: content is empty", ErrInvalidContent)
	}
	if p.MaxLength > 0 {
		if n := utf8.RuneCountInString(content); n > p.MaxLength {
			return fmt.Errorf("%w: %d characters, max is %d", ErrInvalidContent, n, p.MaxLength)
		}
	}
	return nil
}
