package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// sameOrigin bloque les requêtes d'écriture venant d'un autre site (CSRF).
// Le cookie de session est envoyé par le navigateur quelle que soit l'origine.
// Origin présent : il doit être l'hôte servi ou une origine de confiance (CORS).
// Origin absent (curl, vieux navigateurs) : seul Sec-Fetch-Site=cross-site est refusé.
func (s *Server) sameOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		if origin := r.Header.Get("Origin"); origin != "" {
			if !s.trustedOrigin(origin, r.Host) {
				rejectCrossOrigin(w, r, origin)
				return
			}
		} else if r.Header.Get("Sec-Fetch-Site") == "cross-site" {
			rejectCrossOrigin(w, r, "")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) trustedOrigin(origin, host string) bool {
	if _, ok := s.trustedOrigins[strings.ToLower(origin)]; ok {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		// "null" (iframe sandbox, redirections) ou valeur invalide
		return false
	}
	return strings.EqualFold(u.Host, host)
}

func rejectCrossOrigin(w http.ResponseWriter, r *http.Request, origin string) {
	slog.WarnContext(r.Context(), "Cross-origin write rejected",
		"method", r.Method, "path", r.URL.Path, "origin", origin, "sec_fetch_site", r.Header.Get("Sec-Fetch-Site"))
	writeJSON(w, http.StatusForbidden, errorResponse{Error: "cross-origin request rejected"})
}
