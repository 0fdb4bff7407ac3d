// Package session stores the bearer token obtained at login.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"todoctl/internal/store"
)

// TokenKey is the storage key of the session token.
const TokenKey = "jwtToken"

// Store reads and writes the session token in the durable store.
// The token is kept as an oauth2.Token record so its type and expiry travel with it.
type Store struct {
	kv     store.Store
	logger *slog.Logger
}

// NewStore creates a session store over kv.
func NewStore(kv store.Store, logger *slog.Logger) *Store {
	return &Store{kv: kv, logger: logger}
}

// Load returns the stored token record.
// Missing, unreadable or malformed records report ok=false.
func (s *Store) Load(ctx context.Context) (*oauth2.Token, bool) {
	raw, ok, err := s.kv.Get(ctx, TokenKey)
	if err != nil {
		s.logger.Warn("failed to read session", slog.Any("error", err))
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var tok oauth2.Token
	if err := json.Unmarshal([]byte(raw), &tok); err != nil || tok.AccessToken == "" {
		s.logger.Debug("ignoring malformed session record")
		return nil, false
	}
	return &tok, true
}

// Token returns the stored access token.
func (s *Store) Token(ctx context.Context) (string, bool) {
	tok, ok := s.Load(ctx)
	if !ok {
		return "", false
	}
	return tok.AccessToken, true
}

// Has reports whether a session token is stored.
func (s *Store) Has(ctx context.Context) bool {
	_, ok := s.Load(ctx)
	return ok
}

// Save stores token as the current session.
func (s *Store) Save(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("empty session token")
	}
	tok := &oauth2.Token{AccessToken: token, TokenType: "Bearer"}
	if exp, ok := Expiry(token); ok {
		tok.Expiry = exp
	}

	data, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, TokenKey, string(data)); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Clear removes the stored session.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, TokenKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Expiry decodes the exp claim of a JWT without verifying its signature.
// It is for display only; the backend decides whether a token is valid.
func Expiry(token string) (time.Time, bool) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
