package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"todoctl/internal/service"
)

func strPtr(s string) *string { return &s }

func TestFormatTodo(t *testing.T) {
	tests := []struct {
		name string
		todo service.Todo
		want string
	}{
		{
			name: "open",
			todo: service.Todo{ID: 1, Task: "buy milk"},
			want: "   1  [ ] buy milk\n",
		},
		{
			name: "completed with people",
			todo: service.Todo{ID: 12, Task: "ship", Assignee: strPtr("bob"), Creator: strPtr("alice"), Completed: true},
			want: "  12  [x] ship  (assignee: bob, creator: alice)\n",
		},
		{
			name: "creator only",
			todo: service.Todo{ID: 3, Task: "t", Creator: strPtr("carol")},
			want: "   3  [ ] t  (creator: carol)\n",
		},
		{
			name: "blank people ignored",
			todo: service.Todo{ID: 4, Task: "t", Assignee: strPtr("  ")},
			want: "   4  [ ] t\n",
		},
		{
			name: "untitled",
			todo: service.Todo{ID: 5, Task: "   "},
			want: "   5  [ ] (untitled)\n",
		},
		{
			name: "multiline",
			todo: service.Todo{ID: 6, Task: "line1\nline2"},
			want: "   6  [ ] line1 line2\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			FormatTodo(&buf, tt.todo)
			if got := buf.String(); got != tt.want {
				t.Errorf("FormatTodo() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatTodos_Empty(t *testing.T) {
	var buf bytes.Buffer
	FormatTodos(&buf, nil)
	if got := buf.String(); got != "no tasks found\n" {
		t.Errorf("FormatTodos() = %q", got)
	}
}

func TestFormatExpiry(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	got := FormatExpiry(now.Add(90*time.Minute), now)
	if want := "(in 1h30m0s)"; !strings.HasSuffix(got, want) {
		t.Errorf("FormatExpiry() = %q, want suffix %q", got, want)
	}

	got = FormatExpiry(now.Add(-time.Minute), now)
	if !strings.HasPrefix(got, "expired ") {
		t.Errorf("FormatExpiry() = %q, want expired prefix", got)
	}
}
