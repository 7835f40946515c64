package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jupiterclapton/chirp/internal/core/domain"
)

const postColumns = `id, author_id, content, created_at`

// schema est idempotent, rejoué à chaque démarrage
const schema = `
	CREATE TABLE IF NOT EXISTS posts (
		id          TEXT PRIMARY KEY,
		author_id   TEXT NOT NULL,
		content     TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS posts_created_at_idx ON posts (created_at DESC, id DESC);
	CREATE INDEX IF NOT EXISTS posts_author_created_at_idx ON posts (author_id, created_at DESC);
`

type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}

// EnsureSchema crée la table et les index (Idempotent)
func (r *PostgresRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("db: ensure schema: %w", err)
	}
	return nil
}

func (r *PostgresRepo) Save(ctx context.Context, post *domain.Post) error {
	q := `
		INSERT INTO posts (id, author_id, content, created_at)
		VALUES (@id, @author_id, @content, @created_at)
	`
	args := pgx.NamedArgs{
		"id":         post.ID,
		"author_id":  post.AuthorID,
		"content":    post.Content,
		"created_at": post.CreatedAt,
	}

	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return r.handleError(err)
	}
	return nil
}

func (r *PostgresRepo) FindByID(ctx context.Context, postID string) (*domain.Post, error) {
	q := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	var p domain.Post
	err := r.db.QueryRow(ctx, q, postID).Scan(&p.ID, &p.AuthorID, &p.Content, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("db: find post: %w", err)
	}
	return &p, nil
}

// ListRecent : le Feed global, du plus récent au plus ancien.
// id DESC départage les posts créés dans la même microseconde.
func (r *PostgresRepo) ListRecent(ctx context.Context, limit int) ([]*domain.Post, error) {
	q := `
		SELECT ` + postColumns + `
		FROM posts
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("db: list recent: %w", err)
	}
	return r.collectRows(rows)
}

// ListByAuthor : PAGINATION KEYSET (Cursor-based), pas d'OFFSET
func (r *PostgresRepo) ListByAuthor(ctx context.Context, authorID string, limit int, after domain.PageCursor) ([]*domain.Post, error) {
	var (
		rows pgx.Rows
		err  error
	)

	// Cas 1: Première page (pas de curseur)
	if after.IsZero() {
		q := `
			SELECT ` + postColumns + `
			FROM posts
			WHERE author_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		`
		rows, err = r.db.Query(ctx, q, authorID, limit)
	} else {
		// Cas 2: Page suivante. Comparaison de tuple : les ex aequo sur created_at
		// sont départagés par id, comme dans l'ORDER BY
		q := `
			SELECT ` + postColumns + `
			FROM posts
			WHERE author_id = $1 AND (created_at, id) < ($2, $3)
			ORDER BY created_at DESC, id DESC
			LIMIT $4
		`
		rows, err = r.db.Query(ctx, q, authorID, after.CreatedAt, after.ID, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("db: list by author: %w", err)
	}
	return r.collectRows(rows)
}

// --- HELPERS ---

func (r *PostgresRepo) collectRows(rows pgx.Rows) ([]*domain.Post, error) {
	posts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Post, error) {
		var p domain.Post
		if err := row.Scan(&p.ID, &p.AuthorID, &p.Content, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.CreatedAt = p.CreatedAt.UTC()
		return &p, nil
	})
	if err != nil {
		return nil, fmt.Errorf("db: scan posts: %w", err)
	}
	return posts, nil
}

// handleError traduit les codes PostgreSQL utiles
func (r *PostgresRepo) handleError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		// Unique Violation : collision d'UUID, ne devrait jamais arriver
		return fmt.Errorf("db: duplicate post id: %w", err)
	}
	return fmt.Errorf("db: save post: %w", err)
}
