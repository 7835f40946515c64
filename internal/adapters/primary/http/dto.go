package http

import (
	"time"

	"github.com/jupiterclapton/chirp/internal/core/domain"
)

// DTOs JSON : le domaine reste sans tags

type postDTO struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type authorDTO struct {
	ID       string  `json:"id"`
	Username *string `json:"username"`
	ImageURL string  `json:"image_url"`
}

type feedEntryDTO struct {
	Post   postDTO    `json:"post"`
	Author *authorDTO `json:"author,omitempty"`
}

type postPageDTO struct {
	Posts      []postDTO `json:"posts"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

type createPostRequest struct {
	Content string `json:"content"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// --- MAPPERS ---

func mapPost(p *domain.Post) postDTO {
	return postDTO{
		ID:        p.ID,
		AuthorID:  p.AuthorID,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
	}
}

func mapFeedEntry(e domain.FeedEntry) feedEntryDTO {
	dto := feedEntryDTO{Post: mapPost(&e.Post)}
	if e.Author != nil {
		dto.Author = &authorDTO{
			ID:       e.Author.ID,
			Username: e.Author.Username,
			ImageURL: e.Author.ImageURL,
		}
	}
	return dto
}

func mapFeed(entries []domain.FeedEntry) []feedEntryDTO {
	out := make([]feedEntryDTO, len(entries))
	for i, e := range entries {
		out[i] = mapFeedEntry(e)
	}
	return out
}

func mapPostPage(page *domain.PostPage) postPageDTO {
	posts := make([]postDTO, len(page.Posts))
	for i, p := range page.Posts {
		posts[i] = mapPost(p)
	}
	return postPageDTO{Posts: posts, NextCursor: page.NextCursor}
}
