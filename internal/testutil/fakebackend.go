package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"todoctl/internal/service"
)

// FakeBackend is an in-process HTTP server speaking the TODO backend protocol:
// POST /login, GET /todos and POST /todos with an action envelope.
type FakeBackend struct {
	Server *httptest.Server

	secret   []byte
	tokenTTL time.Duration

	mu      sync.Mutex
	users   map[string][]byte // username -> bcrypt hash
	revoked map[string]bool
	todos   []service.Todo

	requests      atomic.Int64
	loginRequests atomic.Int64
}

// FakeBackendOption configures a FakeBackend.
type FakeBackendOption func(*fakeBackendConfig)

type fakeBackendConfig struct {
	loginLimit int
	tokenTTL   time.Duration
}

// WithLoginRateLimit throttles POST /login to n requests per minute per client.
func WithLoginRateLimit(n int) FakeBackendOption {
	return func(c *fakeBackendConfig) { c.loginLimit = n }
}

// WithTokenTTL sets the lifetime of issued tokens.
func WithTokenTTL(d time.Duration) FakeBackendOption {
	return func(c *fakeBackendConfig) { c.tokenTTL = d }
}

// NewFakeBackend starts a backend that accepts the given username/password pairs.
// The server is closed when the test ends.
func NewFakeBackend(t testing.TB, users map[string]string, opts ...FakeBackendOption) *FakeBackend {
	t.Helper()

	cfg := fakeBackendConfig{tokenTTL: 24 * time.Hour}
	for _, opt := range opts {
		opt(&cfg)
	}

	b := &FakeBackend{
		secret:   []byte(uuid.NewString()),
		tokenTTL: cfg.tokenTTL,
		users:    make(map[string][]byte),
		revoked:  make(map[string]bool),
	}
	for name, pw := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("failed to hash password: %v", err)
		}
		b.users[name] = hash
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(b.countRequests)

	r.Group(func(r chi.Router) {
		if cfg.loginLimit > 0 {
			r.Use(httprate.Limit(cfg.loginLimit, time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
					writeMessage(w, http.StatusTooManyRequests, "rate limit exceeded")
				}),
			))
		}
		r.Post("/login", b.handleLogin)
	})

	r.Group(func(r chi.Router) {
		r.Use(b.requireToken)
		r.Get("/todos", b.handleList)
		r.Post("/todos", b.handleAction)
	})

	b.Server = httptest.NewServer(r)
	t.Cleanup(b.Server.Close)
	return b
}

// URL returns the base URL of the server.
func (b *FakeBackend) URL() string {
	return b.Server.URL
}

// Requests returns the number of requests received.
func (b *FakeBackend) Requests() int64 {
	return b.requests.Load()
}

// LoginRequests returns the number of POST /login requests received.
func (b *FakeBackend) LoginRequests() int64 {
	return b.loginRequests.Load()
}

// Revoke makes tokens issued to username fail with 403, as for a removed account.
func (b *FakeBackend) Revoke(username string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[username] = true
}

// IssueToken returns a valid token for username, bypassing /login.
func (b *FakeBackend) IssueToken(username string) string {
	tok, err := b.sign(username, time.Now().Add(b.tokenTTL))
	if err != nil {
		panic(err)
	}
	return tok
}

// Seed replaces the stored tasks.
func (b *FakeBackend) Seed(todos ...service.Todo) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.todos = slices.Clone(todos)
}

// Todos returns a copy of the stored tasks.
func (b *FakeBackend) Todos() []service.Todo {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.todos)
}

func (b *FakeBackend) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.requests.Add(1)
		if r.URL.Path == "/login" {
			b.loginRequests.Add(1)
		}
		next.ServeHTTP(w, r)
	})
}

func (b *FakeBackend) sign(username string, exp time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.secret)
}

func (b *FakeBackend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds service.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b.mu.Lock()
	hash, ok := b.users[creds.Username]
	b.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(hash, []byte(creds.Password)) != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	token, err := b.sign(creds.Username, time.Now().Add(b.tokenTTL))
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// requireToken mirrors the backend's auth middleware: a missing or invalid
// token is 401, a valid token for an unknown or revoked user is 403.
func (b *FakeBackend) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		var claims jwt.RegisteredClaims
		_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
			return b.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		b.mu.Lock()
		_, known := b.users[claims.Subject]
		revoked := b.revoked[claims.Subject]
		b.mu.Unlock()
		if !known || revoked {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *FakeBackend) handleList(w http.ResponseWriter, r *http.Request) {
	todos := b.Todos()
	if todos == nil {
		todos = []service.Todo{}
	}
	writeJSON(w, http.StatusOK, todos)
}

type actionRequest struct {
	Action string        `json:"action"`
	ID     *int64        `json:"id"`
	Todo   *service.Todo `json:"todo"`
}

func (b *FakeBackend) handleAction(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch req.Action {
	case "add":
		if req.Todo == nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var next int64
		for _, t := range b.todos {
			next = max(next, t.ID)
		}
		todo := *req.Todo
		todo.ID = next + 1
		b.todos = append(b.todos, todo)

	case "update":
		if req.ID == nil || req.Todo == nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		i := b.index(*req.ID)
		if i < 0 {
			writeMessage(w, http.StatusNotFound, "todo not found")
			return
		}
		todo := *req.Todo
		todo.ID = *req.ID
		b.todos[i] = todo

	case "delete":
		if req.ID == nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		i := b.index(*req.ID)
		if i < 0 {
			writeMessage(w, http.StatusNotFound, "todo not found")
			return
		}
		b.todos = slices.Delete(b.todos, i, i+1)

	default:
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	writeMessage(w, http.StatusOK, "Operation successful")
}

func (b *FakeBackend) index(id int64) int {
	return slices.IndexFunc(b.todos, func(t service.Todo) bool { return t.ID == id })
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
