package authclient_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todoctl/internal/authclient"
	"todoctl/internal/service"
	"todoctl/internal/session"
	"todoctl/internal/store"
)

type harness struct {
	client   *authclient.Client
	sessions *session.Store
	requests atomic.Int32
	mu       sync.Mutex
	invalid  []error
}

func newHarness(t *testing.T, handler http.HandlerFunc) (*harness, *httptest.Server) {
	t.Helper()
	h := &harness{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.requests.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h.sessions = session.NewStore(store.NewMemory(), logger)
	h.client = authclient.New(srv.Client(), h.sessions, func(err error) {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.invalid = append(h.invalid, err)
	}, logger)
	return h, srv
}

func (h *harness) invalidations() []error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]error(nil), h.invalid...)
}

func TestDo_NoTokenSendsNothing(t *testing.T) {
	h, srv := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/todos", nil)
	require.NoError(t, err)

	resp, err := h.client.Do(req)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, service.ErrSessionMissing)
	assert.Equal(t, int32(0), h.requests.Load())
	assert.Equal(t, []error{service.ErrSessionMissing}, h.invalidations())
}

func TestDo_AttachesBearerAndKeepsCallerHeaders(t *testing.T) {
	var got http.Header
	h, srv := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	})
	require.NoError(t, h.sessions.Save(context.Background(), "tok-1"))

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/todos", strings.NewReader(`{}`))
	req.Header.Set("X-Custom", "kept")
	req.Header.Set("Content-Type", "application/merge-patch+json")

	resp, err := h.client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "Bearer tok-1", got.Get("Authorization"))
	assert.Equal(t, "kept", got.Get("X-Custom"))
	assert.Equal(t, "application/merge-patch+json", got.Get("Content-Type"))
	assert.NotEmpty(t, got.Get(authclient.RequestIDHeader))
	assert.Empty(t, req.Header.Get("Authorization"), "caller request must not be mutated")
}

func TestDo_DefaultsContentType(t *testing.T) {
	var ct string
	h, srv := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		ct = r.Header.Get("Content-Type")
	})
	require.NoError(t, h.sessions.Save(context.Background(), "tok"))

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	resp, err := h.client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "application/json", ct)
}

func TestDo_CallerAuthorizationWins(t *testing.T) {
	var auth string
	h, srv := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
	})
	require.NoError(t, h.sessions.Save(context.Background(), "tok"))

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	req.Header.Set("Authorization", "Bearer override")
	resp, err := h.client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "Bearer override", auth)
}

func TestDo_UnauthorizedStatusesInvalidateSession(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			h, srv := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			})
			ctx := context.Background()
			require.NoError(t, h.sessions.Save(ctx, "tok"))

			req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
			resp, err := h.client.Do(req)
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, service.ErrSessionInvalid)
			assert.False(t, h.sessions.Has(ctx))
			assert.Equal(t, []error{service.ErrSessionInvalid}, h.invalidations())
		})
	}
}

func TestDo_OtherErrorStatusesPassThrough(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			h, srv := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
				w.Write([]byte(`{"message":"nope"}`))
			})
			ctx := context.Background()
			require.NoError(t, h.sessions.Save(ctx, "tok"))

			req, _ := http.NewRequest(http.MethodPost, srv.URL, nil)
			resp, err := h.client.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, status, resp.StatusCode)
			assert.True(t, h.sessions.Has(ctx))
			assert.Empty(t, h.invalidations())
			assert.Equal(t, int32(1), h.requests.Load(), "no retries")
		})
	}
}

func TestDo_ConcurrentForbiddenRedirectsOnce(t *testing.T) {
	var arrived sync.WaitGroup
	arrived.Add(2)
	h, srv := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		// Hold both requests until both are in flight.
		arrived.Done()
		arrived.Wait()
		w.WriteHeader(http.StatusForbidden)
	})
	ctx := context.Background()
	require.NoError(t, h.sessions.Save(ctx, "tok"))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
			_, errs[i] = h.client.Do(req)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.ErrorIs(t, err, service.ErrSessionInvalid)
	}
	assert.Equal(t, int32(2), h.requests.Load())
	assert.False(t, h.sessions.Has(ctx))
	assert.Len(t, h.invalidations(), 1)
}

func TestDo_RejectedStaleTokenKeepsNewSession(t *testing.T) {
	ctx := context.Background()
	var h *harness
	h, srv := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		// A re-login lands while the old token is being rejected.
		_ = h.sessions.Save(ctx, "new")
		w.WriteHeader(http.StatusUnauthorized)
	})
	require.NoError(t, h.sessions.Save(ctx, "old"))

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	_, err := h.client.Do(req)
	assert.ErrorIs(t, err, service.ErrSessionInvalid)

	tok, ok := h.sessions.Token(ctx)
	require.True(t, ok)
	assert.Equal(t, "new", tok)
	assert.Empty(t, h.invalidations())
}

func TestDo_TransportError(t *testing.T) {
	h, srv := newHarness(t, func(w http.ResponseWriter, r *http.Request) {})
	require.NoError(t, h.sessions.Save(context.Background(), "tok"))
	url := srv.URL
	srv.Close()

	req, _ := http.NewRequest(http.MethodGet, url, nil)
	_, err := h.client.Do(req)
	require.Error(t, err)
	assert.False(t, service.IsSessionError(err))
	assert.True(t, h.sessions.Has(context.Background()))
}
