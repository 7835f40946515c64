package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jupiterclapton/chirp/internal/core/domain"
)

// SessionCookie : cookie posé par le fournisseur d'identité sur le même domaine
const SessionCookie = "__session"

// TokenVerifier abstrait la validation des jetons de session
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// Clé privée pour le contexte (évite les collisions)
type contextKey struct{ name string }

var callerCtxKey = &contextKey{"caller"}

// Middleware lit le jeton (header Authorization, sinon cookie de session) et
// attache l'appelant au contexte. Sans jeton, la requête continue en anonyme.
// Un header invalide est rejeté (401). Un cookie invalide (expiré, pas encore
// rafraîchi par le client) retombe en anonyme : les lectures publiques restent possibles.
func Middleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, src, ok := extractToken(r)
			if !ok {
				writeUnauthorized(w, "invalid authorization header format")
				return
			}
			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := verifier.Verify(tokenStr)
			if err != nil {
				if src == fromCookie {
					slog.DebugContext(r.Context(), "Stale session cookie, continuing anonymously", "error", err)
					next.ServeHTTP(w, r)
					return
				}
				slog.DebugContext(r.Context(), "Session token rejected", "error", err)
				writeUnauthorized(w, "invalid or expired token")
				return
			}

			ctx := WithCaller(r.Context(), domain.Caller{UserID: userID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type tokenSource int

const (
	fromNone tokenSource = iota
	fromHeader
	fromCookie
)

// extractToken retourne ok=false si le header est présent mais mal formé
func extractToken(r *http.Request) (string, tokenSource, bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		if !strings.HasPrefix(header, "Bearer ") {
			return "", fromHeader, false
		}
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")), fromHeader, true
	}
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value, fromCookie, true
	}
	return "", fromNone, true
}

// Même format d'erreur que l'API : {"error": "..."}
func writeUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func WithCaller(ctx context.Context, caller domain.Caller) context.Context {
	return context.WithValue(ctx, callerCtxKey, caller)
}

// ForContext retourne l'appelant, domain.Anonymous si la requête n'est pas authentifiée
func ForContext(ctx context.Context) domain.Caller {
	caller, _ := ctx.Value(callerCtxKey).(domain.Caller)
	return caller
}
