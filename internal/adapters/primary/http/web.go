package http

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jupiterclapton/chirp/internal/auth"
	"github.com/jupiterclapton/chirp/internal/core/domain"
)

//go:embed templates/index.html
var templatesFS embed.FS

func parsePage() *template.Template {
	return template.Must(template.New("index.html").Funcs(template.FuncMap{
		"ago": func(t time.Time) string { return humanize.Time(t) },
	}).ParseFS(templatesFS, "templates/index.html"))
}

type pageData struct {
	Caller  domain.Caller
	Entries []domain.FeedEntry
	Error   string
}

// index : la page d'accueil, le Feed + le formulaire si connecté
func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, "")
}

// submit : formulaire classique, Post/Redirect/Get
func (s *Server) submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		s.renderPage(w, r, http.StatusBadRequest, "could not read the form")
		return
	}

	_, err := s.posts.CreatePost(r.Context(), auth.ForContext(r.Context()), r.PostFormValue("content"))
	if err != nil {
		status, msg := mapDomainError(err)
		if status >= http.StatusInternalServerError {
			slog.ErrorContext(r.Context(), "Form post failed", "status", status, "error", err)
		}
		s.renderPage(w, r, status, msg)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	data := pageData{
		Caller: auth.ForContext(r.Context()),
		Error:  errMsg,
	}

	entries, err := s.feed.ListFeed(r.Context())
	if err != nil {
		status, data.Error = mapDomainError(err)
		slog.ErrorContext(r.Context(), "Feed rendering failed", "error", err)
	}
	data.Entries = entries

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.page.Execute(w, data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution failed", "error", err)
	}
}
