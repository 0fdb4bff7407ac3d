// Package lockout implements the client-side login attempt tracker.
//
// The tracker counts failed logins in the durable store and, once the count
// reaches the threshold, stores the time at which the lockout ends. The
// stored value is always the end of the lockout window, never the time of
// the last failure.
package lockout

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"todoctl/internal/store"
)

// Storage keys, shared with other clients of the same state.
const (
	AttemptsKey     = "loginAttempts"
	LockoutUntilKey = "lockoutUntil"
)

const (
	// DefaultThreshold is the number of failures that triggers a lockout.
	DefaultThreshold = 3

	// DefaultDuration is how long a lockout lasts.
	DefaultDuration = 5 * time.Minute
)

// Config holds the lockout policy.
type Config struct {
	Threshold int
	Duration  time.Duration
}

// DefaultConfig returns the standard policy: 3 failures, 5 minutes.
func DefaultConfig() Config {
	return Config{Threshold: DefaultThreshold, Duration: DefaultDuration}
}

// Tracker decides whether a login submission may proceed.
type Tracker struct {
	store  store.Store
	config Config
	now    func() time.Time
	logger *slog.Logger
}

// NewTracker creates a Tracker over st. Zero config fields fall back to defaults.
func NewTracker(st store.Store, config Config, logger *slog.Logger) *Tracker {
	if config.Threshold <= 0 {
		config.Threshold = DefaultThreshold
	}
	if config.Duration <= 0 {
		config.Duration = DefaultDuration
	}
	return &Tracker{
		store:  st,
		config: config,
		now:    time.Now,
		logger: logger,
	}
}

// SetClock replaces the time source. Used by tests to simulate waiting.
func (t *Tracker) SetClock(now func() time.Time) {
	t.now = now
}

// Threshold returns the number of failures that triggers a lockout.
func (t *Tracker) Threshold() int { return t.config.Threshold }

// Duration returns the lockout length.
func (t *Tracker) Duration() time.Duration { return t.config.Duration }

// IsLockedOut reports whether a lockout deadline is stored and has not passed.
// Absent, malformed or unreadable values mean "not locked".
func (t *Tracker) IsLockedOut(ctx context.Context) bool {
	deadline, ok := t.deadline(ctx)
	return ok && t.now().Before(deadline)
}

// RemainingLockoutMinutes returns the whole minutes left in the lockout,
// rounded up: at least 1 while locked out, 0 otherwise.
func (t *Tracker) RemainingLockoutMinutes(ctx context.Context) int {
	deadline, ok := t.deadline(ctx)
	if !ok {
		return 0
	}
	left := deadline.Sub(t.now())
	if left <= 0 {
		return 0
	}
	return int((left + time.Minute - 1) / time.Minute)
}

// Attempts returns the stored failure count.
func (t *Tracker) Attempts(ctx context.Context) int {
	v, ok, err := t.store.Get(ctx, AttemptsKey)
	if err != nil {
		t.logger.Warn("failed to read login attempts", slog.Any("error", err))
		return 0
	}
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// RemainingAttempts returns how many failures are left before a lockout,
// given the count returned by RecordFailure.
func (t *Tracker) RemainingAttempts(count int) int {
	return max(t.config.Threshold-count, 0)
}

// RecordFailure increments the failure count and returns the new value.
// When the count reaches the threshold (>=, so concurrent writers still
// lock out) the lockout deadline is set to now + Duration.
func (t *Tracker) RecordFailure(ctx context.Context) (int, error) {
	count := t.Attempts(ctx) + 1
	if err := t.store.Set(ctx, AttemptsKey, strconv.Itoa(count)); err != nil {
		return 0, err
	}

	if count >= t.config.Threshold {
		until := t.now().Add(t.config.Duration)
		if err := t.store.Set(ctx, LockoutUntilKey, strconv.FormatInt(until.UnixMilli(), 10)); err != nil {
			return 0, err
		}
		t.logger.Warn("login locked out",
			slog.Int("failed_attempts", count),
			slog.Time("until", until))
		return count, nil
	}

	t.logger.Debug("login failure recorded", slog.Int("failed_attempts", count))
	return count, nil
}

// RecordSuccess clears the failure count and any lockout deadline.
func (t *Tracker) RecordSuccess(ctx context.Context) error {
	return t.store.Delete(ctx, AttemptsKey, LockoutUntilKey)
}

func (t *Tracker) deadline(ctx context.Context) (time.Time, bool) {
	v, ok, err := t.store.Get(ctx, LockoutUntilKey)
	if err != nil {
		t.logger.Warn("failed to read lockout deadline", slog.Any("error", err))
		return time.Time{}, false
	}
	if !ok {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}
