// Package client is the typed REST client for the equipment lending backend.
// It covers the list and mutation endpoints the guarded flows need; the
// backend itself is an external collaborator.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"equiplend/adminctl/internal/session"
)

// DefaultTimeout bounds a single backend call.
const DefaultTimeout = 30 * time.Second

// APIError is a non-2xx backend response with its decoded message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

// User is an admin-manageable account.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
	Branch   string `json:"branch,omitempty"`
}

// Branch is a lending location.
type Branch struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// Category is an equipment category.
type Category struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// Client talks to the backend REST API with the session's bearer token.
type Client struct {
	baseURL string
	store   session.Store
	http    *http.Client
	tracer  trace.Tracer
}

// New returns a Client for the given base URL. timeout <= 0 falls back to
// DefaultTimeout.
func New(baseURL string, store session.Store, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		store:   store,
		http:    &http.Client{Timeout: timeout},
		tracer:  otel.Tracer("equiplend/adminctl/internal/client"),
	}
}

// ListUsers returns all users.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.do(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser creates a user and returns the stored entity.
func (c *Client) CreateUser(ctx context.Context, u User) (*User, error) {
	var created User
	if err := c.do(ctx, http.MethodPost, "/users", u, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateUser patches the user with the given id.
func (c *Client) UpdateUser(ctx context.Context, id string, u User) (*User, error) {
	var updated User
	if err := c.do(ctx, http.MethodPatch, "/users/id/"+id, u, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteUser deletes the user with the given id.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/users/id/"+id, nil, nil)
}

// ListBranches returns all branches.
func (c *Client) ListBranches(ctx context.Context) ([]Branch, error) {
	var branches []Branch
	if err := c.do(ctx, http.MethodGet, "/branches", nil, &branches); err != nil {
		return nil, err
	}
	return branches, nil
}

// DeleteBranch deletes the branch with the given id.
func (c *Client) DeleteBranch(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/branches/id/"+id, nil, nil)
}

// ListCategories returns all equipment categories.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.do(ctx, http.MethodGet, "/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// DeleteCategory deletes the category with the given id.
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/categories/id/"+id, nil, nil)
}

// Login authenticates and returns the issued token. The only call that runs
// without a stored session.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	payload, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", decodeAPIError(resp)
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("login: decode response: %w", err)
	}
	if body.Token == "" {
		return "", errors.New("login: response carried no token")
	}
	return body.Token, nil
}

// do performs one authorized call. 401/403 map to session.ErrSessionExpired
// (the store's token is no longer honored); other non-2xx become *APIError.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	ctx, span := c.tracer.Start(ctx, method+" "+path)
	defer span.End()

	token, err := c.store.Token(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "no session")
		return err
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, "request failed")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		span.SetStatus(codes.Error, "session rejected")
		return session.ErrSessionExpired
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := decodeAPIError(resp)
		span.SetStatus(codes.Error, apiErr.Error())
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		span.SetStatus(codes.Error, "unreadable response")
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Message = body.Message
	}
	return apiErr
}
