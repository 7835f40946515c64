package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jupiterclapton/chirp/internal/core/domain"
)

// memRepo est un PostRepository en mémoire, trié comme la requête SQL
type memRepo struct {
	mu      sync.Mutex
	posts   []*domain.Post
	listErr error
	saveErr error
}

func (r *memRepo) Save(_ context.Context, post *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	cp := *post
	r.posts = append(r.posts, &cp)
	return nil
}

func (r *memRepo) FindByID(_ context.Context, postID string) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	for _, p := range r.posts {
		if p.ID == postID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrPostNotFound
}

func (r *memRepo) ListRecent(_ context.Context, limit int) ([]*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.sorted(func(*domain.Post) bool { return true }, limit), nil
}

func (r *memRepo) ListByAuthor(_ context.Context, authorID string, limit int, after domain.PageCursor) ([]*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.sorted(func(p *domain.Post) bool {
		return p.AuthorID == authorID && (after.IsZero() || after.After(p))
	}, limit), nil
}

func (r *memRepo) sorted(keep func(*domain.Post) bool, limit int) []*domain.Post {
	out := make([]*domain.Post, 0, len(r.posts))
	for _, p := range r.posts {
		if keep(p) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r *memRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.posts)
}

// fakeDirectory retourne les profils connus et compte les appels
type fakeDirectory struct {
	profiles map[string]domain.AuthorProfile
	err      error
	calls    [][]string
	limits   []int
}

func (d *fakeDirectory) BulkGetProfiles(_ context.Context, userIDs []string, limit int) ([]domain.AuthorProfile, error) {
	d.calls = append(d.calls, append([]string(nil), userIDs...))
	d.limits = append(d.limits, limit)
	if d.err != nil {
		return nil, d.err
	}
	out := []domain.AuthorProfile{}
	for _, id := range userIDs {
		if p, ok := d.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeLimiter struct {
	remaining int
	err       error
	keys      []string
}

func (l *fakeLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.keys = append(l.keys, key)
	if l.err != nil {
		return false, l.err
	}
	if l.remaining <= 0 {
		return false, nil
	}
	l.remaining--
	return true, nil
}

type fakePublisher struct {
	published []*domain.Post
	err       error
}

func (p *fakePublisher) PublishPostCreated(_ context.Context, post *domain.Post) error {
	p.published = append(p.published, post)
	return p.err
}

func strPtr(s string) *string { return &s }

// fixedClock avance d'une seconde à chaque appel
func fixedClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}
