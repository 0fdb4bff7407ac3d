package commands

import (
	"context"
	"flag"
	"fmt"

	"todoctl/internal/exitcode"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "todoctl help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }
func (c *HelpCmd) Stateless() bool   { return true }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, env *Env, args []string) int {
	fmt.Fprint(env.Out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  todoctl                                   List all tasks
  todoctl list [common flags] [--open]      List tasks (alias: ls)
  todoctl add [common flags] [--assignee <name>] [--creator <name>] <task...>
  todoctl create ...                        Alias for add
  todoctl edit [common flags] [--task <text>] [--assignee <name>]
               [--creator <name>] [--completed true|false] <id>
  todoctl toggle [common flags] <id>        Flip completed (alias: done)
  todoctl rm [common flags] [--yes] <id>
  todoctl login [common flags] [--username <name>] [--password-stdin]
  todoctl logout [common flags]
  todoctl status [common flags]
  todoctl help
  todoctl version

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr

Environment:
  TODO_API_URL             Backend base URL (default http://127.0.0.1:3072)
  TODO_LOCKOUT_THRESHOLD   Failed logins before lockout (default 3)
  TODO_LOCKOUT_DURATION    Lockout length (default 5m)
`
