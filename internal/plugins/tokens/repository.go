package tokens

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// TokenRepository defines persistence operations for API tokens.
type TokenRepository interface {
	Create(ctx context.Context, t *Token) error
	FindByPrefix(ctx context.Context, prefix string) (*Token, error)
	List(ctx context.Context) ([]Token, error)
	Revoke(ctx context.Context, id string, at time.Time) error
	TouchLastUsed(ctx context.Context, id string, at time.Time) error
}

type tokenRepo struct {
	db *sql.DB
}

// NewTokenRepository creates a new MariaDB-backed token repository.
func NewTokenRepository(db *sql.DB) TokenRepository {
	return &tokenRepo{db: db}
}

const tokenCols = `id, name, prefix, token_hash, created_at, last_used_at, revoked_at`

func scanToken(scanner interface{ Scan(...any) error }) (*Token, error) {
	t := &Token{}
	if err := scanner.Scan(&t.ID, &t.Name, &t.Prefix, &t.Hash,
		&t.CreatedAt, &t.LastUsedAt, &t.RevokedAt); err != nil {
		return nil, err
	}
	return t, nil
}

// Create inserts a new token.
func (r *tokenRepo) Create(ctx context.Context, t *Token) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO api_tokens (id, name, prefix, token_hash, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Prefix, t.Hash, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting api token: %w", err)
	}
	return nil
}

// FindByPrefix returns the token with the given prefix, or nil.
func (r *tokenRepo) FindByPrefix(ctx context.Context, prefix string) (*Token, error) {
	t, err := scanToken(r.db.QueryRowContext(ctx,
		`SELECT `+tokenCols+` FROM api_tokens WHERE prefix = ?`, prefix))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding api token: %w", err)
	}
	return t, nil
}

// List returns every token, newest first.
func (r *tokenRepo) List(ctx context.Context) ([]Token, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+tokenCols+` FROM api_tokens ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing api tokens: %w", err)
	}
	defer rows.Close()

	var out []Token
	for rows.Next() {
		t, err := scanToken(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// Revoke marks a token revoked. Already revoked tokens keep their timestamp.
func (r *tokenRepo) Revoke(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE api_tokens SET revoked_at = COALESCE(revoked_at, ?) WHERE id = ?`, at, id)
	if err != nil {
		return fmt.Errorf("revoking api token: %w", err)
	}
	return nil
}

// TouchLastUsed records the last successful use of a token.
func (r *tokenRepo) TouchLastUsed(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE api_tokens SET last_used_at = ? WHERE id = ?`, at, id)
	if err != nil {
		return fmt.Errorf("updating api token last use: %w", err)
	}
	return nil
}
