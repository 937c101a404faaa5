// Package verify re-checks the admin's password before a guarded mutation
// runs. Every failure mode resolves to a rejection result so the credential
// prompt can display it; nothing here escapes as an error.
package verify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"equiplend/adminctl/internal/session"
)

// DefaultMessage is shown when the server gave no usable rejection reason.
const DefaultMessage = "invalid credential"

// DefaultTimeout bounds a single verification attempt.
const DefaultTimeout = 30 * time.Second

// Result is the verification outcome. Message is only meaningful when
// Success is false.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Gateway verifies a secret against the authentication collaborator.
type Gateway interface {
	VerifyPassword(ctx context.Context, secret string) Result
}

// HTTPGateway calls POST /users/verify-password with the session's bearer
// token. One request per call, no retry; the user resubmits manually.
type HTTPGateway struct {
	baseURL string
	store   session.Store
	client  *http.Client
	tracer  trace.Tracer
}

// NewHTTPGateway returns a gateway for the given API base URL. timeout <= 0
// falls back to DefaultTimeout.
func NewHTTPGateway(baseURL string, store session.Store, timeout time.Duration) *HTTPGateway {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPGateway{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		store:   store,
		client:  &http.Client{Timeout: timeout},
		tracer:  otel.Tracer("equiplend/adminctl/internal/verify"),
	}
}

// VerifyPassword sends the secret for re-verification. A missing session is
// rejected locally without a network call; transport errors, timeouts, and
// non-2xx responses normalize to a rejection with the server's message when
// one is present. The secret is never logged or attached to the span.
func (g *HTTPGateway) VerifyPassword(ctx context.Context, secret string) Result {
	ctx, span := g.tracer.Start(ctx, "VerifyPassword")
	defer span.End()

	token, err := g.store.Token(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "no session")
		return Result{Success: false, Message: rejectionMessage(err)}
	}

	payload, err := json.Marshal(map[string]string{"password": secret})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Result{Success: false, Message: DefaultMessage}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/users/verify-password", bytes.NewReader(payload))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Result{Success: false, Message: DefaultMessage}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := g.client.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, "verification request failed")
		return Result{Success: false, Message: DefaultMessage}
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	var body Result
	decodeErr := json.NewDecoder(resp.Body).Decode(&body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := DefaultMessage
		if decodeErr == nil && body.Message != "" {
			msg = body.Message
		}
		span.SetStatus(codes.Error, "verification rejected")
		return Result{Success: false, Message: msg}
	}
	if decodeErr != nil {
		span.SetStatus(codes.Error, "unreadable verification response")
		return Result{Success: false, Message: DefaultMessage}
	}
	if !body.Success && body.Message == "" {
		body.Message = DefaultMessage
	}
	return body
}

func rejectionMessage(err error) string {
	if errors.Is(err, session.ErrNoSession) || errors.Is(err, session.ErrSessionExpired) {
		return err.Error()
	}
	return DefaultMessage
}
