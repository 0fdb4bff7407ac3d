// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"todoctl/internal/service"
)

// FormatTodo formats a task line.
// Format: "{ID:>4}  [x] {TASK}" followed by "  (assignee: A, creator: C)" when either is set.
func FormatTodo(w io.Writer, todo service.Todo) {
	mark := " "
	if todo.Completed {
		mark = "x"
	}
	fmt.Fprintf(w, "%4d  [%s] %s%s\n", todo.ID, mark, normalizeTask(todo.Task), people(todo))
}

// FormatTodos formats every task, or "no tasks found" when there are none.
func FormatTodos(w io.Writer, todos []service.Todo) {
	if len(todos) == 0 {
		fmt.Fprintln(w, "no tasks found")
		return
	}
	for _, t := range todos {
		FormatTodo(w, t)
	}
}

// FormatExpiry describes a session expiry relative to now.
func FormatExpiry(exp, now time.Time) string {
	stamp := exp.Local().Format(time.RFC3339)
	if !now.Before(exp) {
		return "expired " + stamp
	}
	return fmt.Sprintf("expires %s (in %s)", stamp, exp.Sub(now).Round(time.Minute))
}

func people(todo service.Todo) string {
	var parts []string
	if s := field(todo.Assignee); s != "" {
		parts = append(parts, "assignee: "+s)
	}
	if s := field(todo.Creator); s != "" {
		parts = append(parts, "creator: "+s)
	}
	if len(parts) == 0 {
		return ""
	}
	return "  (" + strings.Join(parts, ", ") + ")"
}

func field(s *string) string {
	if s == nil {
		return ""
	}
	return oneLine(strings.TrimSpace(*s))
}

// normalizeTask normalizes a task description for display.
// Empty or whitespace-only descriptions become "(untitled)".
func normalizeTask(task string) string {
	task = oneLine(task)
	if strings.TrimSpace(task) == "" {
		return "(untitled)"
	}
	return task
}

func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
