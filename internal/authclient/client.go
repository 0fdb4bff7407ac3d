// Package authclient attaches the session bearer token to outgoing requests
// and turns authorization failures into a single session-invalid event.
package authclient

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"todoctl/internal/service"
)

// RequestIDHeader carries a per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

// Sessions is the session storage the client reads and clears.
type Sessions interface {
	Token(ctx context.Context) (string, bool)
	Clear(ctx context.Context) error
}

// Client sends requests on behalf of the logged-in user.
// It is safe for concurrent use.
type Client struct {
	http      *http.Client
	sessions  Sessions
	onInvalid func(error)
	logger    *slog.Logger

	// mu serializes the compare-and-clear of the session on rejection.
	mu sync.Mutex
}

// New creates a Client. onInvalid is called once per lost session with
// service.ErrSessionMissing or service.ErrSessionInvalid; it may be nil.
func New(httpClient *http.Client, sessions Sessions, onInvalid func(error), logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if onInvalid == nil {
		onInvalid = func(error) {}
	}
	return &Client{
		http:      httpClient,
		sessions:  sessions,
		onInvalid: onInvalid,
		logger:    logger,
	}
}

// Do sends req with the session bearer token.
//
// With no stored token it fails with service.ErrSessionMissing without
// sending anything. A 401 or 403 response clears the session and fails with
// service.ErrSessionInvalid. Any other response, including other error
// statuses, is returned to the caller unchanged. Exactly one attempt is made.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	token, ok := c.sessions.Token(ctx)
	if !ok {
		c.logger.Debug("no session token, request not sent",
			slog.String("method", req.Method),
			slog.String("url", req.URL.String()))
		if req.Body != nil {
			req.Body.Close()
		}
		c.onInvalid(service.ErrSessionMissing)
		return nil, service.ErrSessionMissing
	}

	out := req.Clone(ctx)
	if out.Header.Get("Authorization") == "" {
		(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(out)
	}
	if out.Header.Get("Content-Type") == "" {
		out.Header.Set("Content-Type", "application/json")
	}
	if out.Header.Get(RequestIDHeader) == "" {
		out.Header.Set(RequestIDHeader, uuid.NewString())
	}

	resp, err := c.http.Do(out)
	if err != nil {
		c.logger.Debug("request failed",
			slog.String("method", out.Method),
			slog.String("url", out.URL.String()),
			slog.String("request_id", out.Header.Get(RequestIDHeader)),
			slog.Any("error", err))
		return nil, err
	}

	c.logger.Debug("request completed",
		slog.String("method", out.Method),
		slog.String("url", out.URL.String()),
		slog.String("request_id", out.Header.Get(RequestIDHeader)),
		slog.Int("status", resp.StatusCode))

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		c.invalidate(ctx, token, resp.StatusCode)
		return nil, service.ErrSessionInvalid
	}

	return resp, nil
}

// invalidate clears the session if it still holds the rejected token.
// Concurrent rejections of the same token report the loss once.
func (c *Client) invalidate(ctx context.Context, rejected string, status int) {
	c.mu.Lock()
	current, ok := c.sessions.Token(ctx)
	first := ok && current == rejected
	if first {
		if err := c.sessions.Clear(ctx); err != nil {
			c.logger.Warn("failed to clear rejected session", slog.Any("error", err))
		}
	}
	c.mu.Unlock()

	if !first {
		return
	}
	c.logger.Info("session invalidated", slog.Int("status", status))
	c.onInvalid(service.ErrSessionInvalid)
}
