package commands

import (
	"context"
	"flag"
	"fmt"

	"todoctl/internal/exitcode"
	"todoctl/internal/output"
	"todoctl/internal/session"
)

func init() {
	Register(&StatusCmd{})
}

// StatusCmd reports the session and lockout state without contacting the backend.
type StatusCmd struct{}

func (c *StatusCmd) Name() string      { return "status" }
func (c *StatusCmd) Aliases() []string { return nil }
func (c *StatusCmd) Synopsis() string  { return "Show session and login lockout state" }
func (c *StatusCmd) Usage() string     { return "todoctl status" }
func (c *StatusCmd) NeedsAuth() bool   { return false }

func (c *StatusCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *StatusCmd) Run(ctx context.Context, env *Env, args []string) int {
	fmt.Fprintf(env.Out, "api: %s\n", env.Config.APIURL)

	if tok, ok := env.Sessions.Token(ctx); ok {
		line := "session: logged in"
		if exp, ok := session.Expiry(tok); ok {
			line += ", " + output.FormatExpiry(exp, env.now())
		}
		fmt.Fprintln(env.Out, line)
	} else {
		fmt.Fprintln(env.Out, "session: not logged in")
	}

	if env.Tracker.IsLockedOut(ctx) {
		m := env.Tracker.RemainingLockoutMinutes(ctx)
		fmt.Fprintf(env.Out, "login: locked, try again in %d minute%s\n", m, pluralS(m))
	} else {
		left := env.Tracker.RemainingAttempts(env.Tracker.Attempts(ctx))
		fmt.Fprintf(env.Out, "login: %d of %d attempts remaining\n", left, env.Tracker.Threshold())
	}
	return exitcode.Success
}

func pluralS(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
