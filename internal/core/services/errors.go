package services

import (
	"fmt"

	"github.com/jupiterclapton/chirp/internal/core/domain"
)

// upstreamErr marque l'échec d'un collaborateur externe sans perdre la cause
func upstreamErr(collaborator string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrUpstreamUnavailable, collaborator, err)
}
