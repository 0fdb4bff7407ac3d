// Package app builds the production dependency graph for the CLI.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"todoctl/internal/authclient"
	"todoctl/internal/backend/rest"
	"todoctl/internal/commands"
	"todoctl/internal/config"
	"todoctl/internal/lockout"
	"todoctl/internal/loginflow"
	"todoctl/internal/session"
	"todoctl/internal/store"
)

// NewLogger returns a debug-level text logger on w when debug is set,
// and a logger that discards everything otherwise.
func NewLogger(w io.Writer, debug bool) *slog.Logger {
	if !debug {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// Build opens the state database in the config directory and wires the
// backend client, session, lockout tracker and login flow.
// The returned Deps must be closed.
func Build(ctx context.Context, cfg *config.Config, errOut io.Writer) (*commands.Deps, error) {
	logger := NewLogger(errOut, cfg.Debug).With(slog.String("api", cfg.APIURL))

	if err := cfg.EnsureDir(); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	kv, err := store.OpenSQLite(ctx, cfg.StatePath())
	if err != nil {
		return nil, err
	}

	deps, err := Wire(cfg, kv, http.DefaultClient, errOut, logger)
	if err != nil {
		kv.Close()
		return nil, err
	}
	return deps, nil
}

// Wire assembles Deps over an already opened store. Session and lockout
// state live under the origin of cfg.APIURL, so a token issued by one
// backend is never sent to another. The store is closed by Deps.Close.
func Wire(cfg *config.Config, kv store.Store, httpClient *http.Client, errOut io.Writer, logger *slog.Logger) (*commands.Deps, error) {
	origin, err := store.Origin(cfg.APIURL)
	if err != nil {
		return nil, err
	}
	kv = store.NewScoped(kv, origin)

	sessions := session.NewStore(kv, logger)
	tracker := lockout.NewTracker(kv, lockout.Config{
		Threshold: cfg.LockoutThreshold,
		Duration:  cfg.LockoutDuration,
	}, logger)

	auth := authclient.New(httpClient, sessions, commands.ReportSessionLoss(errOut), logger)
	svc := rest.New(cfg.APIURL, httpClient, auth, logger)

	return &commands.Deps{
		Service:  svc,
		Sessions: sessions,
		Tracker:  tracker,
		Login:    loginflow.New(svc, tracker, sessions, logger),
		Closer:   kv,
	}, nil
}
