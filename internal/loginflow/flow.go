// Package loginflow drives the login command: lockout checks, the credential
// exchange and the bookkeeping that follows it.
package loginflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"todoctl/internal/lockout"
	"todoctl/internal/service"
)

// ErrAlreadyAuthenticated is returned by Enter when a session is stored.
var ErrAlreadyAuthenticated = errors.New("already logged in")

// LockedOutError reports a refused or just-triggered lockout.
type LockedOutError struct {
	// Minutes left in the lockout, rounded up.
	Minutes int
	// JustLocked is set when this submission triggered the lockout.
	JustLocked bool
}

func (e *LockedOutError) Error() string {
	if e.JustLocked {
		return fmt.Sprintf("too many failed attempts. account locked for %d %s", e.Minutes, plural(e.Minutes, "minute"))
	}
	return fmt.Sprintf("too many failed attempts. please try again in %d %s", e.Minutes, plural(e.Minutes, "minute"))
}

// Is makes errors.Is(err, service.ErrLockedOut) match.
func (e *LockedOutError) Is(target error) bool {
	return target == service.ErrLockedOut
}

// AttemptError is a rejected login that did not trigger a lockout.
type AttemptError struct {
	Status    int
	Remaining int
}

func (e *AttemptError) Error() string {
	remaining := fmt.Sprintf("%d %s remaining", e.Remaining, plural(e.Remaining, "attempt"))
	if e.Status == http.StatusUnauthorized {
		return "invalid username or password. " + remaining
	}
	return fmt.Sprintf("login failed (status: %d). %s", e.Status, remaining)
}

// Authenticator exchanges credentials for a token.
type Authenticator interface {
	Login(ctx context.Context, creds service.Credentials) (string, error)
}

// Sessions is the session storage the flow reads and writes.
type Sessions interface {
	Has(ctx context.Context) bool
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Flow coordinates a login. It is safe for concurrent use.
type Flow struct {
	auth     Authenticator
	tracker  *lockout.Tracker
	sessions Sessions
	logger   *slog.Logger

	group singleflight.Group
}

// New creates a Flow.
func New(auth Authenticator, tracker *lockout.Tracker, sessions Sessions, logger *slog.Logger) *Flow {
	return &Flow{
		auth:     auth,
		tracker:  tracker,
		sessions: sessions,
		logger:   logger,
	}
}

// Enter checks whether a login may start at all.
// A lockout takes precedence over an existing session.
func (f *Flow) Enter(ctx context.Context) error {
	if f.tracker.IsLockedOut(ctx) {
		return &LockedOutError{Minutes: f.tracker.RemainingLockoutMinutes(ctx)}
	}
	if f.sessions.Has(ctx) {
		return ErrAlreadyAuthenticated
	}
	return nil
}

// Submit validates creds and, unless locked out, exchanges them for a token.
//
// Identical concurrent submissions share one backend request and one tracker
// update. The shared request is not cancelled with any single caller's ctx;
// a cancelled caller returns ctx.Err() while the others keep waiting.
// Transport failures are returned as-is and do not count as failed attempts.
func (f *Flow) Submit(ctx context.Context, creds service.Credentials) error {
	if err := service.ValidateCredentials(&creds); err != nil {
		return err
	}

	key := creds.Username + "\x00" + creds.Password
	shared := context.WithoutCancel(ctx)
	ch := f.group.DoChan(key, func() (interface{}, error) {
		return nil, f.submit(shared, creds)
	})

	select {
	case res := <-ch:
		if res.Shared {
			f.logger.Debug("login submission coalesced", slog.String("username", creds.Username))
		}
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *Flow) submit(ctx context.Context, creds service.Credentials) error {
	if f.tracker.IsLockedOut(ctx) {
		return &LockedOutError{Minutes: f.tracker.RemainingLockoutMinutes(ctx)}
	}

	token, err := f.auth.Login(ctx, creds)
	if err != nil {
		var le *service.LoginError
		if !errors.As(err, &le) {
			return err
		}
		return f.fail(ctx, le.Status)
	}

	if err := f.sessions.Save(ctx, token); err != nil {
		return err
	}
	// The counter resets only once the session is stored.
	if err := f.tracker.RecordSuccess(ctx); err != nil {
		f.logger.Warn("failed to reset login attempts", slog.Any("error", err))
	}
	f.logger.Info("logged in", slog.String("username", creds.Username))
	return nil
}

func (f *Flow) fail(ctx context.Context, status int) error {
	if err := f.sessions.Clear(ctx); err != nil {
		f.logger.Warn("failed to clear session", slog.Any("error", err))
	}

	count, err := f.tracker.RecordFailure(ctx)
	if err != nil {
		return fmt.Errorf("failed to record login attempt: %w", err)
	}
	if count >= f.tracker.Threshold() {
		return &LockedOutError{Minutes: durationMinutes(f.tracker.Duration()), JustLocked: true}
	}
	return &AttemptError{Status: status, Remaining: f.tracker.RemainingAttempts(count)}
}

func durationMinutes(d time.Duration) int {
	return int((d + time.Minute - 1) / time.Minute)
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
