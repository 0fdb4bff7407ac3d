package service

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the failure conditions a command can report.
var (
	// ErrSessionMissing means no session token is stored. No request was sent.
	ErrSessionMissing = errors.New("no session token found")

	// ErrSessionInvalid means the backend rejected the session token (401/403).
	ErrSessionInvalid = errors.New("session expired or access denied")

	// ErrLockedOut means login is refused locally after repeated failures.
	ErrLockedOut = errors.New("too many failed login attempts")

	// ErrRequestFailed matches transport failures and non-2xx responses
	// unrelated to authorization.
	ErrRequestFailed = errors.New("request failed")

	// ErrValidation means the input was rejected before any request was sent.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound means a task ID did not match any task.
	ErrNotFound = errors.New("task not found")
)

// IsSessionError reports whether err is a session loss that has already been
// reported to the user by the session callback.
func IsSessionError(err error) bool {
	return errors.Is(err, ErrSessionMissing) || errors.Is(err, ErrSessionInvalid)
}

// RequestError describes a failed task operation.
// Status is 0 when no response was received.
type RequestError struct {
	Action  Action
	Status  int
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: %s", e.Action.Failure(), e.Message)
}

// Is makes errors.Is(err, ErrRequestFailed) match.
func (e *RequestError) Is(target error) bool {
	return target == ErrRequestFailed
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// LoginError is returned by Service.Login when the backend answers with a
// non-2xx status.
type LoginError struct {
	Status int
}

func (e *LoginError) Error() string {
	if e.Status == http.StatusUnauthorized {
		return "invalid username or password"
	}
	return fmt.Sprintf("login failed (status: %d)", e.Status)
}
