package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signTestToken(t *testing.T, sub, name string, exp time.Time) string {
	t.Helper()
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Name: name,
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign test token: %v", err)
	}
	return tok
}

func writeSession(t *testing.T, token string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.json")
	if err := Write(path, token, "", ""); err != nil {
		t.Fatalf("write session: %v", err)
	}
	return path
}

func TestFileStoreMissingFile(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "absent.json"))
	if _, err := s.Current(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Fatalf("Current() error = %v, want ErrNoSession", err)
	}
	if _, err := s.Token(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Fatalf("Token() error = %v, want ErrNoSession", err)
	}
}

func TestFileStoreEmptyToken(t *testing.T) {
	path := writeSession(t, "")
	s := NewFileStore(path)
	if _, err := s.Current(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Fatalf("Current() error = %v, want ErrNoSession", err)
	}
}

func TestFileStoreExpiredToken(t *testing.T) {
	tok := signTestToken(t, "42", "Somchai", time.Now().Add(-time.Hour))
	s := NewFileStore(writeSession(t, tok))
	if _, err := s.Token(context.Background()); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("Token() error = %v, want ErrSessionExpired", err)
	}
}

func TestFileStoreValidToken(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	tok := signTestToken(t, "42", "Somchai", exp)
	s := NewFileStore(writeSession(t, tok))

	got, err := s.Current(context.Background())
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if got.UserID != "42" || got.Name != "Somchai" {
		t.Fatalf("identity = %+v, want user 42 / Somchai", got)
	}

	bearer, err := s.Token(context.Background())
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if bearer != tok {
		t.Fatalf("Token() returned a different token")
	}
}

func TestFileStorePicksUpRelogin(t *testing.T) {
	path := writeSession(t, signTestToken(t, "42", "Somchai", time.Now().Add(time.Hour)))
	s := NewFileStore(path)
	if _, err := s.Current(context.Background()); err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if err := Write(path, signTestToken(t, "99", "Malee", time.Now().Add(time.Hour)), "", ""); err != nil {
		t.Fatalf("rewrite session: %v", err)
	}
	got, err := s.Current(context.Background())
	if err != nil {
		t.Fatalf("Current() after relogin error = %v", err)
	}
	if got.UserID != "99" {
		t.Fatalf("store did not pick up re-login, got user %s", got.UserID)
	}
}

func TestWritePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := Write(path, "tok", "", ""); err != nil {
		t.Fatalf("Write: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("session file mode = %v, want 0600", perm)
	}
}

func TestStaticStore(t *testing.T) {
	var empty StaticStore
	if _, err := empty.Token(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Fatalf("empty static store Token() = %v, want ErrNoSession", err)
	}
	s := StaticStore{BearerToken: "tok", Identity: &Identity{UserID: "1", Name: "admin"}}
	if tok, err := s.Token(context.Background()); err != nil || tok != "tok" {
		t.Fatalf("Token() = %q, %v", tok, err)
	}
	if id, err := s.Current(context.Background()); err != nil || id.UserID != "1" {
		t.Fatalf("Current() = %+v, %v", id, err)
	}
}
