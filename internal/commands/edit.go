package commands

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"todoctl/internal/exitcode"
	"todoctl/internal/service"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command. Only the flags given are changed.
type EditCmd struct {
	task      *string
	assignee  *string
	creator   *string
	completed *bool
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Edit a task" }
func (c *EditCmd) Usage() string {
	return "todoctl edit [--task <text>] [--assignee <name>] [--creator <name>] [--completed true|false] <id>"
}
func (c *EditCmd) NeedsAuth() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.task, c.assignee, c.creator, c.completed = nil, nil, nil, nil

	fs.Func("task", "", stringFlag(&c.task))
	fs.Func("assignee", "", stringFlag(&c.assignee))
	fs.Func("creator", "", stringFlag(&c.creator))
	fs.Func("completed", "", func(s string) error {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", s)
		}
		c.completed = &v
		return nil
	})
}

func (c *EditCmd) Run(ctx context.Context, env *Env, args []string) int {
	id, err := ParseTodoID(args)
	if err != nil {
		fmt.Fprintf(env.Err, "error: %v\n", err)
		return exitcode.UserError
	}

	if c.task == nil && c.assignee == nil && c.creator == nil && c.completed == nil {
		fmt.Fprintln(env.Err, "error: nothing to change")
		return exitcode.UserError
	}

	// An explicit description must not be blank. A record that already has
	// none keeps it when --task is not given.
	if c.task != nil {
		check := service.TodoInput{Task: *c.task}
		if err := service.ValidateTodo(&check); err != nil {
			return reportError(env.Err, err)
		}
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
	if c.task != nil {
		in.Task = *c.task
	}
	if c.assignee != nil {
		in.Assignee = *c.assignee
	}
	if c.creator != nil {
		in.Creator = *c.creator
	}
	if c.completed != nil {
		in.Completed = *c.completed
	}

	if err := env.Service.UpdateTodo(ctx, id, in); err != nil {
		return reportError(env.Err, err)
	}
	return reportOK(env)
}

func stringFlag(dst **string) func(string) error {
	return func(s string) error {
		*dst = &s
		return nil
	}
}
