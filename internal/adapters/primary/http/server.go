package http

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jupiterclapton/chirp/internal/core/ports"
)

// maxBodyBytes : largement au-dessus d'un post, protège le décodeur JSON
const maxBodyBytes = 16 << 10

// Server adapte HTTP vers les ports primaires du domaine.
type Server struct {
	feed           ports.FeedService
	posts          ports.PostService
	page           *template.Template
	trustedOrigins map[string]struct{}
}

type Option func(*Server)

// WithTrustedOrigins : origines autorisées à écrire en plus de l'hôte servi (les mêmes que CORS)
func WithTrustedOrigins(origins []string) Option {
	return func(s *Server) {
		for _, o := range origins {
			s.trustedOrigins[strings.ToLower(strings.TrimSuffix(o, "/"))] = struct{}{}
		}
	}
}

func NewServer(feed ports.FeedService, posts ports.PostService, opts ...Option) *Server {
	s := &Server{
		feed:           feed,
		posts:          posts,
		page:           parsePage(),
		trustedOrigins: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes expose l'API JSON et la page HTML. L'authentification est posée en amont.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.sameOrigin)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	// --- PAGE ---
	r.Get("/", s.index)
	r.Post("/", s.submit)

	// --- API ---
	r.Route("/api", func(r chi.Router) {
		r.Get("/posts", s.listFeed)
		r.With(middleware.AllowContentType("application/json")).Post("/posts", s.createPost)
		r.Get("/posts/{postID}", s.getPost)
		r.Get("/users/{userID}/posts", s.listPostsByAuthor)
	})

	return r
}
