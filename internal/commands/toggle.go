package commands

import (
	"context"
	"flag"
	"fmt"

	"todoctl/internal/exitcode"
	"todoctl/internal/service"
)

func init() {
	Register(&ToggleCmd{})
}

// ToggleCmd flips the completed state of a task.
type ToggleCmd struct{}

func (c *ToggleCmd) Name() string      { return "toggle" }
func (c *ToggleCmd) Aliases() []string { return []string{"done"} }
func (c *ToggleCmd) Synopsis() string  { return "Mark a task completed or open" }
func (c *ToggleCmd) Usage() string     { return "todoctl toggle <id>" }
func (c *ToggleCmd) NeedsAuth() bool   { return true }

func (c *ToggleCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ToggleCmd) Run(ctx context.Context, env *Env, args []string) int {
	id, err := ParseTodoID(args)
	if err != nil {
		fmt.Fprintf(env.Err, "error: %v\n", err)
		return exitcode.UserError
	}

	todos, err := env.Service.ListTodos(ctx)
	if err != nil {
		return reportError(env.Err, err)
	}
	todo, err := service.FindTodo(todos, id)
	if err != nil {
		return reportError(env.Err, err)
	}

	in := todo.Input()
	in.Completed = !in.Completed
	if err := env.Service.UpdateTodo(ctx, id, in); err != nil {
		return reportError(env.Err, err)
	}
	return reportOK(env)
}
