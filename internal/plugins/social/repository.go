package social

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// PostRepository defines persistence operations for social posts.
type PostRepository interface {
	Create(ctx context.Context, post *Post) error
	FindByID(ctx context.Context, id string) (*Post, error)
	ListScheduled(ctx context.Context) ([]Post, error)
}

// postRepo is the MariaDB implementation of PostRepository.
type postRepo struct {
	db *sql.DB
}

// NewPostRepository creates a new MariaDB-backed post repository.
func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepo{db: db}
}

const postCols = `id, platform, content, status, hashtags, scheduled_at, published_at, created_at`

// scanPost reads a row into a Post. Hashtags are stored as a JSON array.
func scanPost(scanner interface{ Scan(...any) error }) (*Post, error) {
	p := &Post{}
	var hashtags sql.NullString
	if err := scanner.Scan(&p.ID, &p.Platform, &p.Content, &p.Status, &hashtags,
		&p.ScheduledAt, &p.PublishedAt, &p.CreatedAt); err != nil {
		return nil, err
	}
	if hashtags.Valid && hashtags.String != "" {
		if err := json.Unmarshal([]byte(hashtags.String), &p.Hashtags); err != nil {
			return nil, fmt.Errorf("decoding hashtags for post %s: %w", p.ID, err)
		}
	}
	if p.Hashtags == nil {
		p.Hashtags = []string{}
	}
	return p, nil
}

// Create inserts a new post.
func (r *postRepo) Create(ctx context.Context, p *Post) error {
	tags, err := json.Marshal(p.Hashtags)
	if err != nil {
		return fmt.Errorf("encoding hashtags: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO social_posts (id, platform, content, status, hashtags,
		        scheduled_at, published_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Platform, p.Content, p.Status, string(tags),
		p.ScheduledAt, p.PublishedAt, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting social post: %w", err)
	}
	return nil
}

// FindByID returns a single post, or nil if it does not exist.
func (r *postRepo) FindByID(ctx context.Context, id string) (*Post, error) {
	p, err := scanPost(r.db.QueryRowContext(ctx,
		`SELECT `+postCols+` FROM social_posts WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// ListScheduled returns every post that has a scheduled or published time,
// in calendar order.
func (r *postRepo) ListScheduled(ctx context.Context) ([]Post, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+postCols+` FROM social_posts
		 WHERE scheduled_at IS NOT NULL OR published_at IS NOT NULL
		 ORDER BY COALESCE(scheduled_at, published_at), id`)
	if err != nil {
		return nil, fmt.Errorf("listing scheduled social posts: %w", err)
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}
