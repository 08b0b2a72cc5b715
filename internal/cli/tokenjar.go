package cli

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"github.com/keyxmakerx/backoffice/internal/apperror"
	"github.com/keyxmakerx/backoffice/internal/board"
)

// TokenJar stores one API token per server on disk, so `calctl login` is
// remembered across invocations.
type TokenJar struct {
	d *diskv.Diskv
}

// OpenTokenJar opens (creating lazily) a jar rooted at dir.
func OpenTokenJar(dir string) *TokenJar {
	return &TokenJar{d: diskv.New(diskv.Options{
		BasePath:     dir,
		Transform:    func(string) []string { return []string{} },
		CacheSizeMax: 0,
		PathPerm:     0o700,
		FilePerm:     0o600,
	})}
}

// jarKey maps a server URL to a file-name-safe key.
func jarKey(server string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimRight(server, "/"))))
	return hex.EncodeToString(sum[:16])
}

// Save remembers token for server.
func (j *TokenJar) Save(server, token string) error {
	if err := j.d.Write(jarKey(server), []byte(token)); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	return nil
}

// Load returns the token saved for server, or "" if there is none.
func (j *TokenJar) Load(server string) (string, error) {
	b, err := j.d.Read(jarKey(server))
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading token: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

// Clear forgets the token for server. Clearing a missing token is not an
// error.
func (j *TokenJar) Clear(server string) error {
	if err := j.d.Erase(jarKey(server)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing token: %w", err)
	}
	return nil
}

// For returns a board.TokenSource reading server's token on demand.
func (j *TokenJar) For(server string) board.TokenSource {
	return jarSource{jar: j, server: server}
}

type jarSource struct {
	jar    *TokenJar
	server string
}

// Token implements board.TokenSource.
func (s jarSource) Token(context.Context) (string, error) {
	tok, err := s.jar.Load(s.server)
	if err != nil {
		return "", err
	}
	if tok == "" {
		return "", apperror.NewUnauthorized(fmt.Sprintf("not logged in to %s; run `calctl login --token <token>`", s.server))
	}
	return tok, nil
}
