// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"
	"time"

	"todoctl/internal/config"
	"todoctl/internal/lockout"
	"todoctl/internal/loginflow"
	"todoctl/internal/service"
	"todoctl/internal/session"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth returns true if the command requires a stored session.
	// Commands like help, version, login, logout, status return false.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	// It is called once per invocation and must reset any flag state.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, env *Env, args []string) int
}

// Stateless is implemented by commands that never touch the state database
// or the backend. The dispatcher skips building dependencies for them.
type Stateless interface {
	Stateless() bool
}

// Deps are the long-lived collaborators shared by commands.
type Deps struct {
	Service  service.Service
	Sessions *session.Store
	Tracker  *lockout.Tracker
	Login    *loginflow.Flow

	// Closer releases the state database. May be nil.
	Closer io.Closer
}

// Close releases resources held by d.
func (d *Deps) Close() error {
	if d == nil || d.Closer == nil {
		return nil
	}
	return d.Closer.Close()
}

// Env is what a single command invocation runs with.
type Env struct {
	Config *config.Config

	// Deps is nil for Stateless commands.
	*Deps

	In  io.Reader
	Out io.Writer
	Err io.Writer

	// Now is the clock used for display. Defaults to time.Now.
	Now func() time.Time
}

func (e *Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e *Env) quiet() bool {
	return e.Config != nil && e.Config.Quiet
}
