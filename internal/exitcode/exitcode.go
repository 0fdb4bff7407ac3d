// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates bad arguments, invalid input, an unknown task ID
	// or a login lockout.
	UserError = 1

	// AuthError indicates a missing or rejected session, rejected
	// credentials, or an unusable config/state directory.
	AuthError = 2

	// BackendError indicates a failed request or a network error.
	BackendError = 3
)
