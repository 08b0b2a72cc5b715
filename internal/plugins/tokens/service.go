package tokens

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/keyxmakerx/backoffice/internal/apperror"
	"github.com/keyxmakerx/backoffice/internal/sanitize"
)

const (
	// tokenScheme is the fixed leading segment of every raw token.
	tokenScheme = "bo"

	// prefixBytes and secretBytes are the random byte counts of the two
	// variable segments. The hex-encoded secret stays under bcrypt's
	// 72-byte input limit.
	prefixBytes = 4
	secretBytes = 32

	// cacheKeyPrefix namespaces verified-token entries in Redis.
	cacheKeyPrefix = "apitoken:"

	// cacheIndexPrefix namespaces the per-token set of cache keys, used to
	// evict a revoked token's entries.
	cacheIndexPrefix = "apitoken:index:"

	// maxNameLen matches the api_tokens.name column.
	maxNameLen = 100
)

// TokenService issues, verifies and revokes API tokens.
type TokenService interface {
	Issue(ctx context.Context, name string) (*IssueResult, error)
	Authenticate(ctx context.Context, raw string) (*Token, error)
	Revoke(ctx context.Context, id string) error
	List(ctx context.Context) ([]Token, error)
}

type tokenService struct {
	repo     TokenRepository
	redis    *redis.Client
	cacheTTL time.Duration
	now      func() time.Time
}

// NewTokenService creates a TokenService. rdb may be nil, in which case
// every request pays the bcrypt comparison.
func NewTokenService(repo TokenRepository, rdb *redis.Client, cacheTTL time.Duration) TokenService {
	return &tokenService{repo: repo, redis: rdb, cacheTTL: cacheTTL, now: time.Now}
}

// Issue creates a token named name and returns it with its raw value. The
// raw value cannot be recovered later.
func (s *tokenService) Issue(ctx context.Context, name string) (*IssueResult, error) {
	name = sanitize.PlainText(name)
	if name == "" {
		return nil, apperror.NewValidation("token name is required")
	}
	if len([]rune(name)) > maxNameLen {
		return nil, apperror.NewValidation(fmt.Sprintf("token name must be at most %d characters", maxNameLen))
	}

	prefix, err := randomHex(prefixBytes)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("generating token prefix: %w", err))
	}
	secret, err := randomHex(secretBytes)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("generating token secret: %w", err))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("hashing token: %w", err))
	}

	tok := &Token{
		ID:        uuid.NewString(),
		Name:      name,
		Prefix:    prefix,
		Hash:      string(hash),
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, tok); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("storing token: %w", err))
	}

	slog.Info("api token issued", slog.String("name", name), slog.String("prefix", prefix))
	return &IssueResult{Token: tok, Raw: formatToken(prefix, secret)}, nil
}

// Authenticate verifies a raw token. A cached verification short-circuits
// the database lookup and bcrypt compare.
func (s *tokenService) Authenticate(ctx context.Context, raw string) (*Token, error) {
	prefix, secret, ok := parseToken(raw)
	if !ok {
		return nil, apperror.NewUnauthorized("invalid api token")
	}

	cacheKey := cacheKeyPrefix + digest(raw)
	if tok := s.cached(ctx, cacheKey); tok != nil {
		return tok, nil
	}

	tok, err := s.repo.FindByPrefix(ctx, prefix)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("looking up token: %w", err))
	}
	if tok == nil {
		return nil, apperror.NewUnauthorized("invalid api token")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(tok.Hash), []byte(secret)); err != nil {
		return nil, apperror.NewUnauthorized("invalid api token")
	}
	if tok.IsRevoked() {
		return nil, apperror.NewUnauthorized("api token has been revoked")
	}

	s.store(ctx, cacheKey, tok)

	// Last-use bookkeeping must not fail or slow the request.
	go func(id string, at time.Time) {
		if err := s.repo.TouchLastUsed(context.Background(), id, at); err != nil {
			slog.Warn("failed to record token use", slog.String("token_id", id), slog.Any("error", err))
		}
	}(tok.ID, s.now().UTC())

	return tok, nil
}

// Revoke marks a token revoked and evicts its cached verifications.
func (s *tokenService) Revoke(ctx context.Context, id string) error {
	if err := s.repo.Revoke(ctx, id, s.now().UTC()); err != nil {
		return apperror.NewInternal(fmt.Errorf("revoking token: %w", err))
	}
	if s.redis != nil {
		indexKey := cacheIndexPrefix + id
		keys, err := s.redis.SMembers(ctx, indexKey).Result()
		if err != nil {
			return apperror.NewInternal(fmt.Errorf("reading token cache index: %w", err))
		}
		if err := s.redis.Del(ctx, append(keys, indexKey)...).Err(); err != nil {
			return apperror.NewInternal(fmt.Errorf("evicting token cache: %w", err))
		}
	}
	slog.Info("api token revoked", slog.String("token_id", id))
	return nil
}

// List returns every token, newest first.
func (s *tokenService) List(ctx context.Context) ([]Token, error) {
	toks, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing tokens: %w", err))
	}
	return toks, nil
}

// cached returns the cached token for key, or nil on a miss. Redis failures
// are logged and treated as misses.
func (s *tokenService) cached(ctx context.Context, key string) *Token {
	if s.redis == nil {
		return nil
	}
	data, err := s.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		slog.Warn("token cache read failed", slog.Any("error", err))
		return nil
	}
	var ct cachedToken
	if err := json.Unmarshal(data, &ct); err != nil {
		slog.Warn("discarding corrupt token cache entry", slog.Any("error", err))
		return nil
	}
	return &Token{ID: ct.ID, Name: ct.Name}
}

// store caches a successful verification.
func (s *tokenService) store(ctx context.Context, key string, tok *Token) {
	if s.redis == nil || s.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(cachedToken{ID: tok.ID, Name: tok.Name})
	if err != nil {
		return
	}
	indexKey := cacheIndexPrefix + tok.ID
	pipe := s.redis.TxPipeline()
	pipe.Set(ctx, key, data, s.cacheTTL)
	pipe.SAdd(ctx, indexKey, key)
	pipe.Expire(ctx, indexKey, s.cacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		slog.Warn("token cache write failed", slog.Any("error", err))
	}
}

// formatToken assembles the raw token "bo_<prefix>_<secret>".
func formatToken(prefix, secret string) string {
	return tokenScheme + "_" + prefix + "_" + secret
}

// parseToken splits a raw token into its prefix and secret.
func parseToken(raw string) (prefix, secret string, ok bool) {
	parts := strings.Split(strings.TrimSpace(raw), "_")
	if len(parts) != 3 || parts[0] != tokenScheme {
		return "", "", false
	}
	if len(parts[1]) != prefixBytes*2 || len(parts[2]) != secretBytes*2 {
		return "", "", false
	}
	return parts[1], parts[2], true
}

// digest returns the hex sha256 of raw, used as the cache key so raw
// tokens never reach Redis.
func digest(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
