package domain

// Caller est l'identité de l'appelant, passée explicitement aux commandes.
// La valeur zéro représente un appelant anonyme.
type Caller struct {
	UserID string
}

var Anonymous = Caller{}

func (c Caller) IsAuthenticated() bool {
	return c.UserID != ""
}
