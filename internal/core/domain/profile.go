package domain

// AuthorProfile est la vue publique d'un utilisateur, fournie par l'annuaire d'identité.
// Username est optionnel côté fournisseur.
type AuthorProfile struct {
	ID       string
	Username *string
	ImageURL string
}

// Handle retourne le username, ou l'ID quand le fournisseur n'en a pas.
func (p *AuthorProfile) Handle() string {
	if p == nil {
		return ""
	}
	if p.Username != nil && *p.Username != "" {
		return *p.Username
	}
	return p.ID
}
