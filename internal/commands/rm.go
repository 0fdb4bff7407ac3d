package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"strings"

	"todoctl/internal/exitcode"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	yes bool
}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return nil }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "todoctl rm [--yes] <id>" }
func (c *RmCmd) NeedsAuth() bool   { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.yes, "yes", false, "")
	fs.BoolVar(&c.yes, "y", false, "")
}

func (c *RmCmd) Run(ctx context.Context, env *Env, args []string) int {
	id, err := ParseTodoID(args)
	if err != nil {
		fmt.Fprintf(env.Err, "error: %v\n", err)
		return exitcode.UserError
	}

	if !c.yes && !confirm(env, fmt.Sprintf("delete task %d? [y/N] ", id)) {
		if !env.quiet() {
			fmt.Fprintln(env.Out, "cancelled")
		}
		return exitcode.Success
	}

	if err := env.Service.DeleteTodo(ctx, id); err != nil {
		return reportError(env.Err, err)
	}
	return reportOK(env)
}

// confirm asks a yes/no question on stderr and reads the answer from stdin.
// Anything but y or yes, including EOF, is a no.
func confirm(env *Env, prompt string) bool {
	if env.In == nil {
		return false
	}
	fmt.Fprint(env.Err, prompt)
	line, _ := bufio.NewReader(env.In).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
