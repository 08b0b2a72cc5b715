// Package tokens issues and verifies the API bearer tokens that guard the
// back-office REST API. Raw tokens are shown once at issue time; only a
// short lookup prefix and a bcrypt hash are stored. Successful verifications
// are cached in Redis so bcrypt runs once per token per TTL.
package tokens

import (
	"time"
)

// Token is a stored API token. The raw secret is never kept.
type Token struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Prefix     string     `json:"prefix"`
	Hash       string     `json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
}

// IsRevoked reports whether the token has been revoked.
func (t *Token) IsRevoked() bool {
	return t.RevokedAt != nil
}

// IssueResult is returned once when a token is created.
type IssueResult struct {
	Token *Token
	Raw   string
}

// cachedToken is the Redis representation of a verified token.
type cachedToken struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
