package commands

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"todoctl/internal/exitcode"
	"todoctl/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	assignee string
	creator  string
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "todoctl add [--assignee <name>] [--creator <name>] <task...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.assignee, "assignee", "", "")
	fs.StringVar(&c.assignee, "a", "", "")
	fs.StringVar(&c.creator, "creator", "", "")
	fs.StringVar(&c.creator, "c", "", "")
}

func (c *AddCmd) Run(ctx context.Context, env *Env, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(env.Err, "error: task description required")
		return exitcode.UserError
	}

	in := service.TodoInput{
		Task:     strings.Join(args, " "),
		Assignee: c.assignee,
		Creator:  c.creator,
	}
	if err := env.Service.AddTodo(ctx, in); err != nil {
		return reportError(env.Err, err)
	}
	return reportOK(env)
}
