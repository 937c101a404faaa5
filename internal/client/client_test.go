package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"equiplend/adminctl/internal/session"
)

func testStore() session.Store {
	return &session.StaticStore{
		BearerToken: "test-token",
		Identity:    &session.Identity{UserID: "1", Name: "admin"},
	}
}

func TestDeleteUser(t *testing.T) {
	var gotMethod, gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
	}))
	defer srv.Close()

	c := New(srv.URL, testStore(), 0)
	if err := c.DeleteUser(context.Background(), "42"); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/users/id/42" {
		t.Fatalf("request = %s %s, want DELETE /users/id/42", gotMethod, gotPath)
	}
	if gotAuth != "Bearer test-token" {
		t.Fatalf("authorization = %q", gotAuth)
	}
}

func TestListUsers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]User{
			{ID: "42", Username: "somchai", Name: "Somchai"},
			{ID: "43", Username: "malee", Name: "Malee"},
		})
	}))
	defer srv.Close()

	users, err := New(srv.URL, testStore(), 0).ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 2 || users[0].Name != "Somchai" {
		t.Fatalf("users = %+v", users)
	}
}

func TestCreateUserSendsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var u User
		if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
			t.Errorf("decode request: %v", err)
		}
		u.ID = "50"
		_ = json.NewEncoder(w).Encode(u)
	}))
	defer srv.Close()

	created, err := New(srv.URL, testStore(), 0).CreateUser(context.Background(), User{Username: "new", Name: "New User"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if created.ID != "50" || created.Username != "new" {
		t.Fatalf("created = %+v", created)
	}
}

func TestSessionRejectedMapsToErrSessionExpired(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		err := New(srv.URL, testStore(), 0).DeleteBranch(context.Background(), "1")
		srv.Close()
		if !errors.Is(err, session.ErrSessionExpired) {
			t.Fatalf("status %d: error = %v, want ErrSessionExpired", status, err)
		}
	}
}

func TestAPIErrorCarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "สาขานี้ยังมีครุภัณฑ์อยู่"})
	}))
	defer srv.Close()

	err := New(srv.URL, testStore(), 0).DeleteBranch(context.Background(), "1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusConflict || apiErr.Message != "สาขานี้ยังมีครุภัณฑ์อยู่" {
		t.Fatalf("apiErr = %+v", apiErr)
	}
}

func TestNoSessionShortCircuits(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	err := New(srv.URL, &session.StaticStore{}, 0).DeleteUser(context.Background(), "42")
	if !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("error = %v, want ErrNoSession", err)
	}
	if requests != 0 {
		t.Fatalf("call without a session hit the network %d times", requests)
	}
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var creds map[string]string
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds["username"] != "admin" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "bad credentials"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "issued-token"})
	}))
	defer srv.Close()

	c := New(srv.URL, &session.StaticStore{}, 0)
	tok, err := c.Login(context.Background(), "admin", "pw")
	if err != nil || tok != "issued-token" {
		t.Fatalf("Login = %q, %v", tok, err)
	}

	if _, err := c.Login(context.Background(), "other", "pw"); err == nil {
		t.Fatal("expected login failure")
	}
}
