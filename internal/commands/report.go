package commands

import (
	"errors"
	"fmt"
	"io"

	"todoctl/internal/exitcode"
	"todoctl/internal/loginflow"
	"todoctl/internal/service"
)

// NotLoggedInMessage is printed when a command needs a session and none is stored.
const NotLoggedInMessage = "error: not logged in (run: todoctl login)"

// ReportSessionLoss returns the callback the authenticated client fires when
// the session is missing or rejected. It prints one line per lost session.
func ReportSessionLoss(w io.Writer) func(error) {
	return func(err error) {
		if errors.Is(err, service.ErrSessionInvalid) {
			fmt.Fprintln(w, "error: session expired or access denied (run: todoctl login)")
			return
		}
		fmt.Fprintln(w, NotLoggedInMessage)
	}
}

// reportError prints err and maps it to an exit code.
// Session errors were already reported by the session callback.
func reportError(w io.Writer, err error) int {
	var attempt *loginflow.AttemptError
	var login *service.LoginError

	switch {
	case service.IsSessionError(err):
		return exitcode.AuthError
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrLockedOut):
		fmt.Fprintf(w, "error: %v\n", err)
		return exitcode.UserError
	case errors.As(err, &attempt), errors.As(err, &login):
		fmt.Fprintf(w, "error: %v\n", err)
		return exitcode.AuthError
	case errors.Is(err, service.ErrRequestFailed):
		fmt.Fprintf(w, "error: %v\n", err)
		return exitcode.BackendError
	default:
		fmt.Fprintf(w, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}

func reportOK(env *Env) int {
	if !env.quiet() {
		fmt.Fprintln(env.Out, "ok")
	}
	return exitcode.Success
}
