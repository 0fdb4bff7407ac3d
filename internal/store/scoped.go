package store

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// Origin returns the scheme://host:port form of rawURL, with the default
// port filled in for http and https. Two URLs with the same origin share
// stored state.
func Origin(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid origin %q: %w", rawURL, err)
	}
	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	if scheme == "" || host == "" {
		return "", fmt.Errorf("invalid origin %q: scheme and host are required", rawURL)
	}

	port := u.Port()
	if port == "" {
		switch scheme {
		case "http":
			port = "80"
		case "https":
			port = "443"
		default:
			return "", fmt.Errorf("invalid origin %q: no port for scheme %s", rawURL, scheme)
		}
	}
	return scheme + "://" + net.JoinHostPort(host, port), nil
}

// Scoped is a Store whose keys live in a namespace of an underlying store.
type Scoped struct {
	kv     Store
	prefix string
}

// NewScoped returns a view of kv holding only the keys of origin.
// Closing the view closes kv.
func NewScoped(kv Store, origin string) *Scoped {
	return &Scoped{kv: kv, prefix: origin + "|"}
}

// Get implements Store.
func (s *Scoped) Get(ctx context.Context, key string) (string, bool, error) {
	return s.kv.Get(ctx, s.prefix+key)
}

// Set implements Store.
func (s *Scoped) Set(ctx context.Context, key, value string) error {
	return s.kv.Set(ctx, s.prefix+key, value)
}

// Delete implements Store.
func (s *Scoped) Delete(ctx context.Context, keys ...string) error {
	scoped := make([]string, len(keys))
	for i, k := range keys {
		scoped[i] = s.prefix + k
	}
	return s.kv.Delete(ctx, scoped...)
}

// Close implements Store.
func (s *Scoped) Close() error {
	return s.kv.Close()
}
