package service_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todoctl/internal/service"
)

func TestValidateTodo(t *testing.T) {
	tests := []struct {
		name    string
		in      service.TodoInput
		wantErr string
	}{
		{"ok", service.TodoInput{Task: "buy milk"}, ""},
		{"trimmed", service.TodoInput{Task: "  buy milk  ", Assignee: " bob "}, ""},
		{"empty", service.TodoInput{Task: ""}, "task description cannot be empty"},
		{"whitespace", service.TodoInput{Task: " \t "}, "task description cannot be empty"},
		{"long assignee", service.TodoInput{Task: "x", Assignee: strings.Repeat("a", 500)}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.in
			err := service.ValidateTodo(&in)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, strings.TrimSpace(tt.in.Task), in.Task)
				assert.Equal(t, strings.TrimSpace(tt.in.Assignee), in.Assignee)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, service.ErrValidation)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNormalizeTodo(t *testing.T) {
	in := service.TodoInput{Task: "  ", Assignee: " bob ", Creator: strings.Repeat("c", 300)}
	service.NormalizeTodo(&in)
	assert.Equal(t, service.TodoInput{Assignee: "bob", Creator: strings.Repeat("c", 300)}, in)
}

func TestValidateCredentials(t *testing.T) {
	err := service.ValidateCredentials(&service.Credentials{Username: " ", Password: "pw"})
	assert.ErrorIs(t, err, service.ErrValidation)
	assert.Contains(t, err.Error(), "username is required")

	err = service.ValidateCredentials(&service.Credentials{Username: "admin"})
	assert.Contains(t, err.Error(), "password is required")

	creds := service.Credentials{Username: " admin ", Password: " pw "}
	require.NoError(t, service.ValidateCredentials(&creds))
	assert.Equal(t, "admin", creds.Username)
	assert.Equal(t, " pw ", creds.Password)
}

func TestRequestError(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("wrapped: %w", &service.RequestError{
		Action:  service.ActionDelete,
		Status:  404,
		Message: "todo not found",
		Err:     cause,
	})

	assert.ErrorIs(t, err, service.ErrRequestFailed)
	assert.ErrorIs(t, err, cause)
	assert.False(t, service.IsSessionError(err))

	var re *service.RequestError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 404, re.Status)
	assert.Equal(t, "failed to delete task: todo not found", re.Error())
}

func TestLoginError(t *testing.T) {
	assert.Equal(t, "invalid username or password", (&service.LoginError{Status: 401}).Error())
	assert.Equal(t, "login failed (status: 500)", (&service.LoginError{Status: 500}).Error())
}

func TestFindTodo(t *testing.T) {
	todos := []service.Todo{{ID: 1, Task: "a"}, {ID: 7, Task: "b"}}

	got, err := service.FindTodo(todos, 7)
	require.NoError(t, err)
	assert.Equal(t, "b", got.Task)

	_, err = service.FindTodo(todos, 3)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestTodoInput_FromTodo(t *testing.T) {
	bob := "bob"
	in := service.Todo{ID: 3, Task: "t", Assignee: &bob, Completed: true}.Input()
	assert.Equal(t, service.TodoInput{Task: "t", Assignee: "bob", Completed: true}, in)
}
