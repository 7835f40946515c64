package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jupiterclapton/chirp/internal/auth"
	"github.com/jupiterclapton/chirp/internal/core/domain"
)

// --- QUERIES (Read) ---

func (s *Server) listFeed(w http.ResponseWriter, r *http.Request) {
	entries, err := s.feed.ListFeed(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapFeed(entries))
}

func (s *Server) getPost(w http.ResponseWriter, r *http.Request) {
	entry, err := s.feed.GetFeedEntry(r.Context(), chi.URLParam(r, "postID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapFeedEntry(*entry))
}

func (s *Server) listPostsByAuthor(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: limit must be an integer", domain.ErrInvalidArgument))
			return
		}
		limit = n
	}

	page, err := s.posts.ListPostsByAuthor(r.Context(), chi.URLParam(r, "userID"), limit, r.URL.Query().Get("cursor"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapPostPage(page))
}

// --- COMMANDS (Write) ---

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	// Fail fast avant même de lire le corps
	caller := auth.ForContext(r.Context())
	if !caller.IsAuthenticated() {
		writeError(w, r, domain.ErrUnauthenticated)
		return
	}

	var req createPostRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("%w: malformed JSON body", domain.ErrInvalidArgument))
		return
	}

	post, err := s.posts.CreatePost(r.Context(), caller, req.Content)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapPost(post))
}
