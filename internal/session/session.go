// Package session reads the logged-in admin's credentials. The store is
// read-only for the guarded-action flow: it is populated at login and cleared
// at logout, never written here.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Sentinel errors; callers surface these as local prompt errors, never as a
// network failure.
var (
	ErrNoSession      = errors.New("no current user found")
	ErrSessionExpired = errors.New("session expired, please log in again")
)

// Identity describes the currently authenticated admin.
type Identity struct {
	UserID    string
	Name      string
	Email     string
	ExpiresAt time.Time
}

// Store is the read-only credential store.
type Store interface {
	// Token returns the bearer token for outbound calls.
	Token(ctx context.Context) (string, error)
	// Current returns the authenticated identity behind the token.
	Current(ctx context.Context) (*Identity, error)
}

// fileSession is the on-disk shape written by the login command.
type fileSession struct {
	Token string `json:"token"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// accessClaims holds the token claims we read. The token is parsed without
// signature verification: the server is the authority on validity, the client
// only needs subject, display name, and expiry.
type accessClaims struct {
	jwt.RegisteredClaims
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// FileStore reads the session from a JSON file on every call so a re-login in
// another terminal is picked up without restarting.
type FileStore struct {
	Path string
}

// NewFileStore returns a FileStore for the given session file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Token returns the stored bearer token. ErrNoSession when the file is
// missing or holds no token, ErrSessionExpired when the token's exp passed.
func (s *FileStore) Token(ctx context.Context) (string, error) {
	fs, err := s.read()
	if err != nil {
		return "", err
	}
	if _, err := identityFromToken(fs); err != nil {
		return "", err
	}
	return fs.Token, nil
}

// Current returns the identity parsed from the stored token.
func (s *FileStore) Current(ctx context.Context) (*Identity, error) {
	fs, err := s.read()
	if err != nil {
		return nil, err
	}
	return identityFromToken(fs)
}

func (s *FileStore) read() (*fileSession, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}
	var fs fileSession
	if err := json.Unmarshal(raw, &fs); err != nil {
		return nil, fmt.Errorf("parse session file: %w", err)
	}
	if strings.TrimSpace(fs.Token) == "" {
		return nil, ErrNoSession
	}
	return &fs, nil
}

func identityFromToken(fs *fileSession) (*Identity, error) {
	parser := jwt.NewParser()
	var claims accessClaims
	if _, _, err := parser.ParseUnverified(fs.Token, &claims); err != nil {
		return nil, ErrNoSession
	}
	id := &Identity{
		UserID: claims.Subject,
		Name:   claims.Name,
		Email:  claims.Email,
	}
	if id.Name == "" {
		id.Name = fs.Name
	}
	if id.Email == "" {
		id.Email = fs.Email
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
		if time.Now().After(id.ExpiresAt) {
			return nil, ErrSessionExpired
		}
	}
	if id.UserID == "" {
		return nil, ErrNoSession
	}
	return id, nil
}

// StaticStore serves a fixed token and identity; used in tests and by hosts
// that already hold credentials in memory.
type StaticStore struct {
	BearerToken string
	Identity    *Identity
}

// Token implements Store.
func (s *StaticStore) Token(ctx context.Context) (string, error) {
	if s.BearerToken == "" {
		return "", ErrNoSession
	}
	return s.BearerToken, nil
}

// Current implements Store.
func (s *StaticStore) Current(ctx context.Context) (*Identity, error) {
	if s.Identity == nil {
		return nil, ErrNoSession
	}
	return s.Identity, nil
}

// Write persists a session file with 0600 permissions. Used by the login
// command only; the guarded-action flow never writes.
func Write(path, token, name, email string) error {
	payload, err := json.Marshal(fileSession{Token: token, Name: name, Email: email})
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o600)
}
