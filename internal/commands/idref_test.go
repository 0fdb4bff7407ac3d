package commands

import (
	"errors"
	"testing"
)

func TestParseTodoID(t *testing.T) {
	tests := []struct {
		args    []string
		want    int64
		wantErr string
	}{
		{args: []string{"5"}, want: 5},
		{args: []string{"1234567890123"}, want: 1234567890123},
		{args: nil, wantErr: "task id required"},
		{args: []string{"0"}, wantErr: "invalid task id: 0"},
		{args: []string{"-3"}, wantErr: "invalid task id: -3"},
		{args: []string{"a1"}, wantErr: "invalid task id: a1"},
		{args: []string{"1", "2"}, wantErr: "unexpected argument: 2"},
	}

	for _, tt := range tests {
		got, err := ParseTodoID(tt.args)
		if tt.wantErr != "" {
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("ParseTodoID(%v) error = %v, want %q", tt.args, err, tt.wantErr)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTodoID(%v) unexpected error: %v", tt.args, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTodoID(%v) = %d, want %d", tt.args, got, tt.want)
		}
	}
}

func TestParseTodoID_RequiredIsSentinel(t *testing.T) {
	_, err := ParseTodoID(nil)
	if !errors.Is(err, ErrIDRequired) {
		t.Errorf("expected ErrIDRequired, got %v", err)
	}
}
