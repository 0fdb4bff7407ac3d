package commands

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"todoctl/internal/exitcode"
	"todoctl/internal/loginflow"
	"todoctl/internal/service"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	username      string
	passwordStdin bool
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Log in to the TODO service" }
func (c *LoginCmd) Usage() string     { return "todoctl login [--username <name>] [--password-stdin]" }
func (c *LoginCmd) NeedsAuth() bool   { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.username, "username", "", "")
	fs.StringVar(&c.username, "u", "", "")
	fs.BoolVar(&c.passwordStdin, "password-stdin", false, "")
}

func (c *LoginCmd) Run(ctx context.Context, env *Env, args []string) int {
	if len(args) > 0 {
		fmt.Fprintf(env.Err, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	if err := env.Login.Enter(ctx); err != nil {
		if errors.Is(err, loginflow.ErrAlreadyAuthenticated) {
			if !env.quiet() {
				fmt.Fprintln(env.Out, "already logged in")
			}
			return exitcode.Success
		}
		return reportError(env.Err, err)
	}

	creds, err := c.credentials(env)
	if err != nil {
		fmt.Fprintf(env.Err, "error: %v\n", err)
		return exitcode.UserError
	}

	if err := env.Login.Submit(ctx, creds); err != nil {
		return reportError(env.Err, err)
	}
	return reportOK(env)
}

// credentials reads whatever the flags did not supply. Prompts go to stderr.
func (c *LoginCmd) credentials(env *Env) (service.Credentials, error) {
	creds := service.Credentials{Username: c.username}
	var src io.Reader = strings.NewReader("")
	if env.In != nil {
		src = env.In
	}
	in := bufio.NewReader(src)

	if c.passwordStdin {
		if creds.Username == "" {
			return creds, errors.New("--password-stdin requires --username")
		}
		pw, err := readLine(in)
		if err != nil {
			return creds, fmt.Errorf("failed to read password: %w", err)
		}
		creds.Password = pw
		return creds, nil
	}

	if creds.Username == "" {
		fmt.Fprint(env.Err, "username: ")
		name, err := readLine(in)
		if err != nil {
			return creds, fmt.Errorf("failed to read username: %w", err)
		}
		creds.Username = name
	}

	fmt.Fprint(env.Err, "password: ")
	if f, ok := env.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		pw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(env.Err)
		if err != nil {
			return creds, fmt.Errorf("failed to read password: %w", err)
		}
		creds.Password = string(pw)
		return creds, nil
	}

	pw, err := readLine(in)
	if err != nil {
		return creds, fmt.Errorf("failed to read password: %w", err)
	}
	creds.Password = pw
	return creds, nil
}

// readLine reads one line without its line ending. A final line without a
// newline is accepted.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
