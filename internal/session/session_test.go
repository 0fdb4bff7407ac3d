package session_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todoctl/internal/session"
	"todoctl/internal/store"
)

func newStore() (*session.Store, *store.Memory) {
	kv := store.NewMemory()
	return session.NewStore(kv, slog.New(slog.NewTextHandler(io.Discard, nil))), kv
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "admin",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestStore_SaveLoadClear(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore()

	_, ok := s.Token(ctx)
	assert.False(t, ok)
	assert.False(t, s.Has(ctx))

	require.NoError(t, s.Save(ctx, "opaque-token"))
	tok, ok := s.Token(ctx)
	require.True(t, ok)
	assert.Equal(t, "opaque-token", tok)

	rec, ok := s.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, "Bearer", rec.TokenType)
	assert.True(t, rec.Expiry.IsZero(), "opaque tokens carry no expiry")

	require.NoError(t, s.Clear(ctx))
	assert.False(t, s.Has(ctx))
}

func TestStore_SaveRecordsJWTExpiry(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore()
	exp := time.Now().Add(24 * time.Hour).Truncate(time.Second)

	require.NoError(t, s.Save(ctx, signedToken(t, exp)))

	rec, ok := s.Load(ctx)
	require.True(t, ok)
	assert.True(t, rec.Expiry.Equal(exp), "got %v want %v", rec.Expiry, exp)
}

func TestStore_MalformedRecord(t *testing.T) {
	ctx := context.Background()
	s, kv := newStore()

	require.NoError(t, kv.Set(ctx, session.TokenKey, "{not json"))
	assert.False(t, s.Has(ctx))

	require.NoError(t, kv.Set(ctx, session.TokenKey, `{"token_type":"Bearer"}`))
	assert.False(t, s.Has(ctx))
}

func TestStore_SaveEmpty(t *testing.T) {
	s, _ := newStore()
	assert.Error(t, s.Save(context.Background(), ""))
}

func TestExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	got, ok := session.Expiry(signedToken(t, exp))
	require.True(t, ok)
	assert.True(t, got.Equal(exp))

	_, ok = session.Expiry("not-a-jwt")
	assert.False(t, ok)
}
